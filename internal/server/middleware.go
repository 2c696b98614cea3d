package server

import (
	"strconv"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/carbonledger/internal/observability/context"
)

// CalculationRateLimit throttles the calculation endpoints per client IP.
// With no limiter configured every request passes through.
func (s *Server) CalculationRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.calcLimiter.Enabled() {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		clientKey := obscontext.ClientKeyFromContext(ctx)
		if clientKey == "" {
			clientKey = c.ClientIP()
		}

		result, err := s.calcLimiter.Allow(ctx, clientKey)
		if err != nil {
			// Redis being down should not take calculations with it.
			s.obsMetrics.RecordRateLimitAllowed(ctx, c.FullPath())
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))

		if !result.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())))
			s.obsMetrics.RecordRateLimitDenied(ctx, c.FullPath(), "bucket_empty")
			AbortWithError(c, ErrTooManyRequests)
			return
		}

		s.obsMetrics.RecordRateLimitAllowed(ctx, c.FullPath())
		c.Next()
	}
}
