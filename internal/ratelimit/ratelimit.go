// Package ratelimit limits requests per acting user.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
)

// Limiter reports whether one more request for key fits in the quota.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

var fixedWindowScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// RedisLimiter counts requests per key in fixed windows shared through Redis.
type RedisLimiter struct {
	client redis.Cmdable
	prefix string
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewRedisLimiter creates a Redis-backed fixed window limiter.
func NewRedisLimiter(client redis.Cmdable, prefix string, limit int, window time.Duration) (*RedisLimiter, error) {
	if limit <= 0 || window <= 0 {
		return nil, errors.New("rate limiter requires positive limit and window")
	}
	// Windows are counted in whole milliseconds in Redis.
	if window < time.Millisecond {
		return nil, fmt.Errorf("redis rate limiter window must be at least 1ms, got %s", window)
	}
	if client == nil {
		return nil, errors.New("rate limiter requires a redis client")
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "shareit:ratelimit"
	}
	return &RedisLimiter{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: window,
		now:    time.Now,
	}, nil
}

// Allow fails closed: a Redis error rejects the request.
func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	windowMs := l.window.Milliseconds()
	if windowMs <= 0 {
		return false
	}
	slot := l.now().UTC().UnixMilli() / windowMs
	redisKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, slot)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	count, err := fixedWindowScript.Run(ctx, l.client, []string{redisKey}, windowMs).Int64()
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("rate limit check failed")
		return false
	}
	return count <= int64(l.limit)
}

// LocalLimiter keeps one token bucket per key in process memory.
type LocalLimiter struct {
	limiters sync.Map
	every    rate.Limit
	burst    int
}

// NewLocalLimiter allows limit requests per window per key, with bursts up to limit.
func NewLocalLimiter(limit int, window time.Duration) (*LocalLimiter, error) {
	if limit <= 0 || window <= 0 {
		return nil, errors.New("rate limiter requires positive limit and window")
	}
	return &LocalLimiter{
		every: rate.Every(window / time.Duration(limit)),
		burst: limit,
	}, nil
}

func (l *LocalLimiter) Allow(_ context.Context, key string) bool {
	return l.getLimiter(key).Allow()
}

func (l *LocalLimiter) getLimiter(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}
	actual, _ := l.limiters.LoadOrStore(key, rate.NewLimiter(l.every, l.burst))
	return actual.(*rate.Limiter)
}

// Middleware rejects requests over quota with 429. Requests are keyed by the
// acting user header, falling back to the client IP.
func Middleware(l Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if id, ok := auth.ParseUserID(c.GetHeader(auth.HeaderSharerUserID)); ok {
			key = "user:" + strconv.FormatInt(id, 10)
		}

		if !l.Allow(c.Request.Context(), key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
