package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"quisine/utils"
)

// TenantKey is the gin context key holding the authenticated shop's tenant id.
const TenantKey = "tenantID"

// AuthMiddleware accepts an "Authorization: Bearer" header or, without one, the "token" cookie.
// The header wins so a stale cookie cannot shadow a fresh login.
func AuthMiddleware(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Invalid Authorization header format"})
				return
			}
			token = parts[1]
		} else if cookie, err := c.Cookie("token"); err == nil && cookie != "" {
			token = cookie
		} else {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Authorization token not provided"})
			return
		}

		claims, err := tokens.ValidateToken(token)
		if err != nil || claims.TenantID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Invalid authorization token"})
			return
		}

		c.Set(TenantKey, claims.TenantID)
		c.Next()
	}
}

// TenantParam rejects requests whose :param names another shop than the token does.
func TenantParam(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Param(param) != c.GetString(TenantKey) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"msg": "Access to this shop is not allowed"})
			return
		}
		c.Next()
	}
}

// Tenant returns the tenant id set by AuthMiddleware.
func Tenant(c *gin.Context) string {
	return c.GetString(TenantKey)
}
