package middleware

import (
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimiter bounds local API requests per client IP with a fixed window counter
// in Redis. Without Redis it uses an in-process token bucket per IP.
type RateLimiter struct {
	rdb     *redis.Client
	maxReqs int
	window  time.Duration

	mu    sync.Mutex
	local map[string]*rate.Limiter
}

// NewRateLimiter creates a rate limiter. rdb may be nil.
func NewRateLimiter(rdb *redis.Client, maxReqs int, window time.Duration) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		rdb:     rdb,
		maxReqs: maxReqs,
		window:  window,
		local:   make(map[string]*rate.Limiter),
	}
}

// Handler returns a Fiber middleware handler for rate limiting.
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c fiber.Ctx) error {
		if rl.maxReqs <= 0 {
			return c.Next()
		}
		if rl.rdb == nil {
			return rl.handleLocal(c)
		}

		ip := c.IP()
		key := fmt.Sprintf("discovery:ratelimit:%s", ip)
		ctx := c.Context()

		count, err := rl.rdb.Incr(ctx, key).Result()
		if err != nil {
			// fail open
			return c.Next()
		}

		if count == 1 {
			rl.rdb.Expire(ctx, key, rl.window)
		}

		ttl, _ := rl.rdb.TTL(ctx, key).Result()

		c.Set("X-RateLimit-Limit", fmt.Sprintf("%d", rl.maxReqs))
		c.Set("X-RateLimit-Remaining", fmt.Sprintf("%d", max(0, int64(rl.maxReqs)-count)))
		c.Set("X-RateLimit-Reset", fmt.Sprintf("%d", int(ttl.Seconds())))

		if int(count) > rl.maxReqs {
			return tooManyRequests(c, int(ttl.Seconds()))
		}
		return c.Next()
	}
}

func (rl *RateLimiter) handleLocal(c fiber.Ctx) error {
	lim := rl.limiterFor(c.IP())
	c.Set("X-RateLimit-Limit", fmt.Sprintf("%d", rl.maxReqs))

	if !lim.Allow() {
		r := lim.Reserve()
		retry := r.Delay()
		r.Cancel()
		return tooManyRequests(c, int(retry.Round(time.Second).Seconds()))
	}
	c.Set("X-RateLimit-Remaining", fmt.Sprintf("%d", max(0, int(lim.Tokens()))))
	return c.Next()
}

func (rl *RateLimiter) limiterFor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	lim, ok := rl.local[ip]
	if !ok {
		every := rl.window / time.Duration(rl.maxReqs)
		lim = rate.NewLimiter(rate.Every(every), rl.maxReqs)
		rl.local[ip] = lim
	}
	return lim
}

func tooManyRequests(c fiber.Ctx, retryAfter int) error {
	return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
		"error":       "rate limit exceeded",
		"retry_after": retryAfter,
	})
}
