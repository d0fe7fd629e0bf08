package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// GinLogger logs one line per request, at warn for 4xx and error for 5xx.
func GinLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		var event *zerolog.Event
		status := c.Writer.Status()
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		default:
			event = log.Info()
		}

		event.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status_code", status).
			Str("client_ip", c.ClientIP()).
			Str("latency", time.Since(start).String()).
			Str("tenant", c.GetString(TenantKey)).
			Msg("Request processed")
	}
}

// RequestTimeout bounds every store and image call made while serving the request.
func RequestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
