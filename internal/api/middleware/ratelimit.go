package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"moto-rental/pkg/ratelimit"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimitMiddleware limits requests per client IP and route. A failing
// limiter lets the request through.
func RateLimitMiddleware(limiter ratelimit.Limiter, policy ratelimit.Policy, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			c.Next()
			return
		}

		limit := policy.LimitFor(c.Request.Method, route)
		key := fmt.Sprintf("%s:%s:%s", c.ClientIP(), c.Request.Method, route)

		res, err := limiter.Allow(c.Request.Context(), key, limit)
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(res.Remaining, 0)))

		if !res.Allowed {
			retryAfter := int(math.Ceil(res.RetryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "Rate limit exceeded",
				"error":   fmt.Sprintf("too many requests, retry in %ds", retryAfter),
			})
			return
		}

		c.Next()
	}
}
