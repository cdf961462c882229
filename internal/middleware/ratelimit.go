package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/spinshelf/spinshelf-backend/internal/observability"
	"github.com/spinshelf/spinshelf-backend/internal/platform/envutil"
	"github.com/spinshelf/spinshelf-backend/internal/platform/logger"
)

// RateLimiter applies a fixed-window per-IP limit. Windows live in Redis so
// limits hold across replicas; without Redis it degrades to per-process
// in-memory windows.
type RateLimiter struct {
	log    *logger.Logger
	rdb    *redis.Client
	limit  int
	window time.Duration
	now    func() time.Time

	mu    sync.Mutex
	local map[string]*localWindow
}

type localWindow struct {
	count   int
	resetAt time.Time
}

func NewRateLimiter(log *logger.Logger, rdb *redis.Client) *RateLimiter {
	return &RateLimiter{
		log:    log.With("middleware", "ratelimit"),
		rdb:    rdb,
		limit:  envutil.Int("RATE_LIMIT_REQUESTS", 30),
		window: envutil.Dur("RATE_LIMIT_WINDOW", time.Minute),
		now:    func() time.Time { return time.Now().UTC() },
		local:  map[string]*localWindow{},
	}
}

// Allow reports whether key may proceed, and the wait until the window
// resets when it may not.
func (r *RateLimiter) Allow(ctx context.Context, key string) (bool, time.Duration) {
	if r.rdb != nil {
		if ok, wait, err := r.allowRedis(ctx, key); err == nil {
			return ok, wait
		} else {
			r.log.Warn("rate limit redis failure, using local window", "err", err.Error())
		}
	}
	return r.allowLocal(key)
}

func (r *RateLimiter) allowRedis(ctx context.Context, key string) (bool, time.Duration, error) {
	windowKey := "ratelimit:" + key + ":" + strconv.FormatInt(r.now().Unix()/int64(r.window.Seconds()), 10)
	pipe := r.rdb.TxPipeline()
	incr := pipe.Incr(ctx, windowKey)
	pipe.Expire(ctx, windowKey, r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, err
	}
	if incr.Val() > int64(r.limit) {
		elapsed := r.now().Unix() % int64(r.window.Seconds())
		return false, time.Duration(int64(r.window.Seconds())-elapsed) * time.Second, nil
	}
	return true, 0, nil
}

func (r *RateLimiter) allowLocal(key string) (bool, time.Duration) {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	w := r.local[key]
	if w == nil || !now.Before(w.resetAt) {
		r.local[key] = &localWindow{count: 1, resetAt: now.Add(r.window)}
		return true, 0
	}
	w.count++
	if w.count > r.limit {
		return false, w.resetAt.Sub(now)
	}
	return true, 0
}

// Middleware is the gin adapter: 429 with Retry-After when over the limit.
func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, wait := r.Allow(c.Request.Context(), c.ClientIP())
		if !ok {
			observability.Current().IncRateLimited()
			seconds := int(wait.Round(time.Second).Seconds())
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				gin.H{"error": "rate limit exceeded, try again later"})
			return
		}
		c.Next()
	}
}
