package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/wissamraji-ui/mathtutor-backend/internal/platform/ctxutil"
	"github.com/wissamraji-ui/mathtutor-backend/internal/platform/logger"
)

// RateLimiter enforces a fixed per-user request budget per minute window.
// Generation calls are paid, so the limit sits in front of the tutor routes.
type RateLimiter struct {
	log       *logger.Logger
	cache     *redis.Client
	perMinute int
}

func NewRateLimiter(log *logger.Logger, cache *redis.Client, perMinute int) *RateLimiter {
	return &RateLimiter{
		log:       log.With("middleware", "RateLimiter"),
		cache:     cache,
		perMinute: perMinute,
	}
}

func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.cache == nil || rl.perMinute <= 0 {
			c.Next()
			return
		}
		rd := ctxutil.GetRequestData(c.Request.Context())
		if rd == nil {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		key := fmt.Sprintf("ratelimit:%s:%d", rd.UserID, time.Now().Unix()/60)

		count, err := rl.cache.Incr(ctx, key).Result()
		if err != nil {
			// Redis being down should not take the API down with it.
			rl.log.Warn("Rate limit check failed, allowing request", "error", err)
			c.Next()
			return
		}
		if count == 1 {
			if err := rl.cache.Expire(ctx, key, time.Minute).Err(); err != nil {
				rl.log.Warn("Rate limit expire failed", "error", err)
			}
		}
		if count > int64(rl.perMinute) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded, try again shortly"})
			return
		}
		c.Next()
	}
}
