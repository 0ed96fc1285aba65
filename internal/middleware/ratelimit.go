package middleware

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/logger"
)

type RateLimitConfig struct {
	Name     string
	Requests int
	Window   time.Duration
}

var (
	// StrictLimit guards credential and invitation endpoints.
	StrictLimit = RateLimitConfig{Name: "strict", Requests: 10, Window: time.Minute}
	// PublicLimit guards anonymous booking endpoints.
	PublicLimit = RateLimitConfig{Name: "public", Requests: 120, Window: time.Minute}
)

// Limiter decides whether key may make another request.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// NewLimiter picks a Redis fixed window when rdb is set, so limits hold
// across instances, and a per-process token bucket otherwise.
func NewLimiter(rdb *redis.Client, cfg RateLimitConfig) Limiter {
	if rdb != nil {
		return &RedisLimiter{rdb: rdb, cfg: cfg}
	}
	return NewLocalLimiter(cfg)
}

func RateLimit(l Limiter, cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := cfg.Name + ":" + c.ClientIP()

		ok, err := l.Allow(c.Request.Context(), key)
		if err != nil {
			// fail open
			logger.FromGin(c).WithError(err).Warn("rate limiter unavailable")
			c.Next()
			return
		}
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(cfg.Window.Seconds())))
			c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Requests))
			httperr.FromError(c, httperr.ErrBusiness("rate_limited"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// ------------------------------------------------------------
// In-process
// ------------------------------------------------------------

type LocalLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	cleaned  time.Time
}

func NewLocalLimiter(cfg RateLimitConfig) *LocalLimiter {
	return &LocalLimiter{
		limit:    rate.Limit(float64(cfg.Requests) / cfg.Window.Seconds()),
		burst:    cfg.Requests,
		limiters: map[string]*rate.Limiter{},
		cleaned:  time.Now(),
	}
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if time.Since(l.cleaned) > 5*time.Minute {
		for k, lim := range l.limiters {
			if lim.Tokens() >= float64(l.burst) {
				delete(l.limiters, k)
			}
		}
		l.cleaned = time.Now()
	}

	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = lim
	}
	return lim.Allow(), nil
}

// ------------------------------------------------------------
// Redis
// ------------------------------------------------------------

var fixedWindow = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

type RedisLimiter struct {
	rdb *redis.Client
	cfg RateLimitConfig
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	res, err := fixedWindow.Run(ctx, l.rdb, []string{"rl:" + key}, l.cfg.Window.Milliseconds()).Result()
	if err != nil {
		return false, err
	}

	n, ok := res.(int64)
	if !ok {
		return false, fmt.Errorf("unexpected rate limit result %T", res)
	}
	return n <= int64(l.cfg.Requests), nil
}
