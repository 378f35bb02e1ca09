package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/doclab/doclab/pkg/logger"
	"github.com/doclab/doclab/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RedisRateLimitMiddleware is a fixed-window limiter shared by every replica.
// Each key may make floor(rps*window)+burst requests per window. Keying matches
// RateLimitMiddleware. A nil client falls back to the in-process limiter.
func RedisRateLimitMiddleware(client *redis.Client, rps float64, burst int, window time.Duration) gin.HandlerFunc {
	if client == nil {
		return RateLimitMiddleware(rps, burst)
	}
	secs := int64(window / time.Second)
	if secs <= 0 {
		secs = 1
	}
	allowed := int64(rps*float64(secs)) + int64(burst)
	ttl := time.Duration(secs+1) * time.Second

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := fmt.Sprintf("rl:%s:%d", limitKey(c), time.Now().Unix()/secs)

		var incr *redis.IntCmd
		_, err := client.TxPipelined(ctx, func(p redis.Pipeliner) error {
			incr = p.Incr(ctx, key)
			p.Expire(ctx, key, ttl)
			return nil
		})
		if err != nil {
			logger.Errorf("rate limit %s: %v", key, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"code": "internal", "error": "rate limit check failed"})
			return
		}
		n := incr.Val()
		remaining := allowed - n
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.FormatInt(allowed, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		if n > allowed {
			c.Header("Retry-After", strconv.FormatInt(secs, 10))
			metrics.RateLimitRejected.WithLabelValues("redis").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"code": "rate_limited", "error": "rate limit exceeded"})
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("redis").Inc()
		c.Next()
	}
}
