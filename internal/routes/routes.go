package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/config"
	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	reportHandler *handlers.ReportHandler,
) {
	api := app.Group("/api")

	// General API rate limiter, per IP
	if cfg.RateLimit > 0 {
		api.Use(rateLimit(cfg.RateLimit))
	}

	api.Get("/health", healthHandler.Check)

	// Auth (stricter limit)
	authLimit := func(c *fiber.Ctx) error { return c.Next() }
	if cfg.AuthRateLimit > 0 {
		authLimit = rateLimit(cfg.AuthRateLimit)
	}
	api.Post("/login", authLimit, authHandler.Login)
	api.Post("/register", authLimit, authHandler.Register)

	// Reports: public submission and tracking
	api.Post("/reports", reportHandler.Submit)
	api.Get("/reports", reportHandler.List)
	api.Get("/reports/code/:code", reportHandler.GetByCode)
	api.Get("/reports/:id", reportHandler.Get)
	api.Get("/stats", reportHandler.Stats)

	// Triage (JWT + admin role)
	api.Patch("/reports/:id/status",
		middleware.JWTProtected(cfg),
		middleware.AdminRequired(),
		reportHandler.UpdateStatus,
	)
}

func rateLimit(perMinute int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               perMinute,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
}
