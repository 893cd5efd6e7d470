package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vivemedellin/go-vivemedellin/env"
)

func init() {
	env.RegisterValidation("ALLOWED_ORIGINS", "http://localhost:3000")
}

// HandleCORS answers preflight requests and sets CORS headers for origins on
// the configured allowlist.
func HandleCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestOrigin := c.Request.Header.Get("Origin")

		if IsOriginAllowed(requestOrigin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", requestOrigin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// IsOriginAllowed checks the origin against the ALLOWED_ORIGINS allowlist.
// A lone "*" entry allows everything, which is only sensible locally.
func IsOriginAllowed(requestOrigin string) bool {
	allowedOrigins := strings.Split(env.GetString("ALLOWED_ORIGINS"), ",")

	for _, allowed := range allowedOrigins {
		allowed = strings.TrimSpace(allowed)
		if allowed == "*" || allowed == requestOrigin {
			return true
		}
	}

	return false
}
