package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/User133445/memevote-sub000/internal/handler"
	"github.com/User133445/memevote-sub000/internal/middleware"
	"github.com/User133445/memevote-sub000/internal/ratelimit"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Vote     *handler.VoteHandler
	Fraud    *handler.FraudHandler
	Account  *handler.AccountHandler
	Content  *handler.ContentHandler
	Trending *handler.TrendingHandler
	Reward   *handler.RewardHandler
	Stats    *handler.StatsHandler
	Health   *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given
// Fiber app. The vote submit/withdraw paths carry their rate limit inside
// the gate; only read and admin routes get route-level limiters here.
func Setup(app *fiber.App, h *Handlers, corsOrigins string, store ratelimit.Store) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(handler.MetricsMiddleware())
	app.Use(middleware.NewCORS(corsOrigins))

	// Probes and metrics, outside the API group
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	contentLimit := middleware.RateLimit(middleware.NewContentRateLimiter(store), middleware.KeyByIP)
	precheckLimit := middleware.RateLimit(middleware.NewPrecheckRateLimiter(store), middleware.KeyByAccountID)
	statsLimit := middleware.RateLimit(middleware.NewStatsRateLimiter(store), middleware.KeyByIP)
	adminLimit := middleware.RateLimit(middleware.NewAdminRateLimiter(store), middleware.KeyByIP)

	api := app.Group("/api")

	// Vote routes
	api.Post("/votes", h.Vote.Submit)
	api.Delete("/votes", h.Vote.Withdraw)
	api.Post("/votes/precheck", h.Fraud.Precheck, precheckLimit)

	// Account routes
	api.Get("/accounts/:accountId", h.Account.Get, contentLimit)
	api.Get("/accounts/:accountId/assessments", h.Fraud.Assessments, statsLimit)

	// Content routes
	api.Get("/content/:contentId", h.Content.Get, contentLimit)
	api.Post("/content/:contentId/view", h.Content.View, contentLimit)

	// Trending routes
	api.Get("/trending/hot", h.Trending.Hot, contentLimit)
	api.Get("/trending/rising", h.Trending.Rising, contentLimit)
	api.Post("/trending/recompute", h.Trending.Recompute, adminLimit)

	// Reward routes
	api.Post("/rewards/distribute", h.Reward.Distribute, adminLimit)
	api.Get("/rewards/:accountId", h.Reward.Ledger, statsLimit)

	// Stats routes
	api.Get("/stats", h.Stats.Get, statsLimit)
}
