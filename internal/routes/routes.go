package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/buzzly-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/buzzly-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/buzzly-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	users middleware.ModeratorLookup,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	postHandler *handlers.PostHandler,
	reportHandler *handlers.ReportHandler,
) {
	// Prometheus scrape endpoint (outside /api, not rate limited)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// General API rate limit per IP
	api.Use(limiter.New(limiter.Config{
		Max:               cfg.RateLimit,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth: public, stricter rate limit
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               cfg.AuthRateLimit,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	// Everything below needs a verified token and a resolved actor
	protected := []fiber.Handler{middleware.JWTProtected(cfg), middleware.ResolveActor(users, cfg)}
	withActor := func(h fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, protected...), h)
	}

	api.Post("/auth/logout", withActor(authHandler.Logout)...)

	// Posts
	api.Post("/posts", withActor(postHandler.Create)...)
	api.Get("/posts/:id", withActor(postHandler.Get)...)
	api.Patch("/posts/:id", withActor(postHandler.Update)...)
	api.Delete("/posts/:id", withActor(postHandler.Delete)...)

	// Reports: submit is open to any actor, the rest is checked as moderator
	// by the report service.
	api.Post("/reports", withActor(reportHandler.Create)...)
	api.Get("/reports", withActor(reportHandler.List)...)
	api.Get("/reports/stats", withActor(reportHandler.Stats)...)
	api.Get("/reports/:id", withActor(reportHandler.Get)...)
	api.Get("/reports/:id/history", withActor(reportHandler.History)...)
	api.Patch("/reports/:id", withActor(reportHandler.Transition)...)
}
