package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Recovery turns a panic into {"message", "stack"}. The stack is null in production.
func Recovery(production bool) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		stack := string(debug.Stack())
		log.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Str("stack", stack).Msg("panic recovered")

		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			status = http.StatusInternalServerError
		}
		var body interface{} = stack
		if production {
			body = nil
		}
		c.AbortWithStatusJSON(status, gin.H{
			"message": fmt.Sprint(recovered),
			"stack":   body,
		})
	})
}
