package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/vivemedellin/go-vivemedellin/service/logger"
)

// ErrLogger logs every error attached to the gin context after the handler
// chain runs. Handlers attach errors via util.ErrResponse.
func ErrLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			logger.For(c).Errorf("%s %s: %s", c.Request.Method, c.Request.URL.Path, c.Errors.String())
		}
	}
}
