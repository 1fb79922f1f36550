package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bankingapi/pkg"
)

// RateLimit returns Gin middleware that rejects requests once the limiter
// runs dry. A nil limiter disables the check.
func RateLimit(limiter *pkg.DistributedLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter != nil && !limiter.Allow(c.Request.Context()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, pkg.ErrorResponse{
				Message: pkg.ErrRateLimitExceeded.Error(),
			})
			return
		}
		c.Next()
	}
}
