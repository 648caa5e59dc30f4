package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/User133445/memevote-sub000/internal/ratelimit"
)

// KeyFn derives the rate-limit key for a request (IP, account, etc.).
type KeyFn func(c fiber.Ctx) string

// KeyByIP returns the client IP as the rate limit key.
func KeyByIP(c fiber.Ctx) string {
	return "ip:" + c.IP()
}

// KeyByAccountID extracts the accountId from the X-Account-ID header.
// Falls back to IP when no account identity is present.
func KeyByAccountID(c fiber.Ctx) string {
	if id := c.Get("X-Account-ID"); id != "" {
		return "acct:" + id
	}
	return "ip:" + c.IP()
}

// RateLimit wraps a counter-backed limiter as a Fiber middleware. A counter
// store fault fails open: the request proceeds without headers rather than
// turning a Redis outage into a platform outage.
func RateLimit(limiter *ratelimit.Limiter, keyFn KeyFn) fiber.Handler {
	return func(c fiber.Ctx) error {
		decision, err := limiter.Check(c.Context(), keyFn(c))
		if err != nil {
			Logger.Warn().Err(err).Msg("rate limiter store unavailable, failing open")
			return c.Next()
		}

		setRateLimitHeaders(c, decision)

		if !decision.Allowed {
			retryAfter := int(time.Until(decision.ResetAt).Seconds()) + 1
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": fiber.Map{
					"code":       "RATE_LIMITED",
					"message":    fmt.Sprintf("Too many requests. Try again in %d seconds.", retryAfter),
					"retryAfter": retryAfter,
				},
			})
		}

		return c.Next()
	}
}

func setRateLimitHeaders(c fiber.Ctx, d ratelimit.Decision) {
	c.Set("X-RateLimit-Limit", fmt.Sprintf("%d", d.Limit))
	c.Set("X-RateLimit-Remaining", fmt.Sprintf("%d", max(d.Remaining, 0)))
	c.Set("X-RateLimit-Reset", fmt.Sprintf("%d", d.ResetAt.Unix()))
}

// --- Pre-configured route limiters matching the API contract ---

// NewContentRateLimiter: 100 req/min per IP for content reads.
func NewContentRateLimiter(store ratelimit.Store) *ratelimit.Limiter {
	return ratelimit.New(store, 100, time.Minute)
}

// NewPrecheckRateLimiter: 30 req/min per account for the fraud pre-check.
func NewPrecheckRateLimiter(store ratelimit.Store) *ratelimit.Limiter {
	return ratelimit.New(store, 30, time.Minute)
}

// NewStatsRateLimiter: 10 req/min per IP.
func NewStatsRateLimiter(store ratelimit.Store) *ratelimit.Limiter {
	return ratelimit.New(store, 10, time.Minute)
}

// NewAdminRateLimiter: 2 req/min per IP for the manual job triggers.
func NewAdminRateLimiter(store ratelimit.Store) *ratelimit.Limiter {
	return ratelimit.New(store, 2, time.Minute)
}
