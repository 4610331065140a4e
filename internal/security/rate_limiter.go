package security

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type RateLimiterConfig struct {
	Redis    *redis.Client
	Name     string
	Limit    int
	Interval time.Duration
	// KeyFunc identifies the caller; the client IP is used when nil.
	KeyFunc func(c *gin.Context) string
	Message string
}

// RateLimiter is a fixed window counter stored in redis.
type RateLimiter struct {
	cfg RateLimiterConfig
}

func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	if cfg.Message == "" {
		cfg.Message = "Too many requests, please try again later"
	}
	return &RateLimiter{cfg: cfg}
}

type Decision struct {
	Allowed   bool
	Remaining int
	ResetIn   time.Duration
}

var incrWindow = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("PTTL", KEYS[1])}
`)

func (rl *RateLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	redisKey := fmt.Sprintf("rate_limit:%s:%s", rl.cfg.Name, key)

	res, err := incrWindow.Run(ctx, rl.cfg.Redis, []string{redisKey}, rl.cfg.Interval.Milliseconds()).Int64Slice()
	if err != nil {
		return Decision{}, err
	}
	count, ttl := int(res[0]), time.Duration(res[1])*time.Millisecond
	if ttl < 0 {
		ttl = rl.cfg.Interval
	}

	remaining := rl.cfg.Limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{Allowed: count <= rl.cfg.Limit, Remaining: remaining, ResetIn: ttl}, nil
}

// GinMiddleware rejects callers over the limit with 429. Redis failures fail open.
func (rl *RateLimiter) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := rl.Allow(c.Request.Context(), rl.cfg.KeyFunc(c))
		if err != nil {
			log.Warn().Err(err).Str("limiter", rl.cfg.Name).Msg("rate limiter unavailable")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.cfg.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		if !d.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(d.ResetIn.Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": rl.cfg.Message,
				"code":  "RATE_LIMITED",
			})
			return
		}
		c.Next()
	}
}
