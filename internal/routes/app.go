package routes

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/config"
	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/dto"
	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/middleware"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// NewApp builds the fiber app with the global middleware chain. Callers may
// add their own middleware before calling Setup.
func NewApp(cfg *config.Config, extra ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: ErrorHandler,
	})

	app.Use(recover.New())
	// extra runs inside recover so a re-panicking handler such as sentry's
	// sees the panic first
	for _, h := range extra {
		app.Use(h)
	}
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	return app
}

func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{
		Error:   true,
		Message: message,
	})
}
