package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/irshad/hiring/internal/dto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) bool
}

const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// RedisLimiter is a fixed-window limiter shared by every instance of the service.
type RedisLimiter struct {
	client *redis.Client
	script *redis.Script
}

func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{client: client, script: redis.NewScript(rateLimitScript)}
}

// Allow fails open: a redis outage must not take the API down with it.
func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) bool {
	if l == nil || l.client == nil || key == "" || limit <= 0 || window <= 0 {
		return true
	}
	ttl := window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}
	ctx, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
	defer cancel()
	allowed, err := l.script.Run(ctx, l.client, []string{key}, ttl, limit).Int64()
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Rate limiter unavailable, allowing request")
		return true
	}
	return allowed == 1
}

// MemoryLimiter is the single-instance fallback used when no redis is configured.
type MemoryLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*rateBucket
	lastPrune time.Time
	clock     func() time.Time
}

type rateBucket struct {
	count     int
	windowEnd time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{buckets: make(map[string]*rateBucket), clock: time.Now}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) bool {
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock()
	bucket, ok := l.buckets[key]
	if !ok || now.After(bucket.windowEnd) {
		l.prune(now, window)
		l.buckets[key] = &rateBucket{count: 1, windowEnd: now.Add(window)}
		return true
	}
	if bucket.count >= limit {
		return false
	}
	bucket.count++
	return true
}

// prune drops expired buckets, at most once per window. Callers hold l.mu.
func (l *MemoryLimiter) prune(now time.Time, window time.Duration) {
	if now.Sub(l.lastPrune) < window {
		return
	}
	for key, bucket := range l.buckets {
		if now.After(bucket.windowEnd) {
			delete(l.buckets, key)
		}
	}
	l.lastPrune = now
}

// RateLimit limits requests per caller and scope. Callers are identified by
// their candidate id when known, by client IP otherwise.
func RateLimit(limiter Limiter, scope string, limit int, window time.Duration) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if limiter == nil {
			ctx.Next()
			return
		}
		caller := ctx.ClientIP()
		if id := CandidateID(ctx); id != 0 {
			caller = fmt.Sprintf("candidate:%d", id)
		}
		key := fmt.Sprintf("ratelimit:%s:%s", scope, caller)
		if !limiter.Allow(ctx.Request.Context(), key, limit, window) {
			log.Warn().Str("key", key).Msg("Rate limit exceeded")
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Code:    "rate_limited",
				Message: "too many requests, try again later",
			})
			return
		}
		ctx.Next()
	}
}
