package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/tringuyenminh209/Kizamu/config"
)

// Throttle limits a route to max requests per window per client address.
// Unlike the login attempt counter this uses an atomic INCR, so concurrent
// requests cannot slip past the limit.
func Throttle(rdb *redis.Client, name string, max int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("throttle:%s:%s", name, c.ClientIP())

		count, err := rdb.Incr(c.Request.Context(), key).Result()
		if err != nil {
			// Redis being down should not take the route with it.
			config.Logger.Errorw("throttle counter failed", "key", key, "error", err)
			c.Next()
			return
		}
		if count == 1 {
			rdb.Expire(c.Request.Context(), key, window)
		}

		if count > int64(max) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message": "too many requests, please slow down",
			})
			return
		}

		c.Next()
	}
}
