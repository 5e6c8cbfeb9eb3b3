package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"turf-reservation/internal/handler/httperr"
	"turf-reservation/internal/infra/ratelimit"
	"turf-reservation/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

var errRateLimited = errs.New("rate limit exceeded")

// RateLimit keys the bucket on the authenticated user when known, otherwise on the client IP.
// A nil limiter disables the check. Limiter errors let the request through.
func RateLimit(limiter ratelimit.Limiter, scope string) gin.HandlerFunc {
	if limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		key := rateLimitKey(c, scope)

		decision, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			slog.Warn("rate limiter unavailable, allowing request", "key", key, "error", err.Error())
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(decision.Remaining, 10))

		if !decision.Allowed {
			secs := int(math.Ceil(decision.RetryAfter.Seconds()))
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			httperr.AbortWithError(c, http.StatusTooManyRequests, errRateLimited, "Too many requests", gin.H{"retry_after": secs})
			return
		}

		c.Next()
	}
}

func rateLimitKey(c *gin.Context, scope string) string {
	if userID, ok := GetUserID(c); ok {
		return scope + ":user:" + userID.String()
	}
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return scope + ":ip:" + ip
}
