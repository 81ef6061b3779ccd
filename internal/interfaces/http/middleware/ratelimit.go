package middleware

import (
	"fmt"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"sobrio/internal/infrastructure/ratelimit"
	"sobrio/internal/shared/logger"
	"sobrio/internal/shared/utils"
)

// AuthRateLimit guards one authentication action, keyed by action and
// client IP. Blocked requests get the time until the window resets.
func AuthRateLimit(limiter ratelimit.RateLimiter, action string, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		identifier := action + ":" + c.ClientIP()
		ctx := c.Request.Context()

		limited, err := limiter.IsLimited(ctx, identifier)
		if err != nil {
			// A broken limiter backend must not lock everyone out.
			log.Warnw("rate limiter unavailable, allowing request", "error", err)
			c.Next()
			return
		}

		if limited {
			remaining, err := limiter.RemainingTime(ctx, identifier)
			if err != nil {
				remaining = 0
			}
			seconds := int(math.Ceil(remaining.Seconds()))
			utils.ErrorResponse(c, http.StatusTooManyRequests,
				fmt.Sprintf("Trop de tentatives. Réessayez dans %d secondes", seconds))
			c.Abort()
			return
		}

		if err := limiter.RecordAttempt(ctx, identifier); err != nil {
			log.Warnw("failed to record rate limit attempt", "error", err)
		}

		c.Next()
	}
}

// GeneralRateLimit guards non-auth traffic per client IP.
func GeneralRateLimit(limiter ratelimit.RateLimiter, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		identifier := "api:" + c.ClientIP()
		ctx := c.Request.Context()

		limited, err := limiter.IsLimited(ctx, identifier)
		if err != nil {
			log.Warnw("rate limiter unavailable, allowing request", "error", err)
			c.Next()
			return
		}
		if limited {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "Trop de requêtes. Réessayez plus tard")
			c.Abort()
			return
		}

		if err := limiter.RecordAttempt(ctx, identifier); err != nil {
			log.Warnw("failed to record rate limit attempt", "error", err)
		}

		c.Next()
	}
}
