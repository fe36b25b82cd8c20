package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/edunexus-app/backend/internal/service"
	"github.com/edunexus-app/backend/pkg/apperror"
	"github.com/edunexus-app/backend/pkg/response"
)

// RateLimit throttles by client IP across all API routes.
func RateLimit(limiter *service.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.Request.Context(), c.ClientIP()) {
			response.Error(c, fmt.Errorf("%w: too many requests", apperror.ErrRateLimitExceeded))
			c.Abort()
			return
		}
		c.Next()
	}
}
