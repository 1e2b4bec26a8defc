package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/samirrijal/siara/internal/pkg/metrics"
)

// AppConfig configures the Fiber app behind the bridge.
type AppConfig struct {
	StaticDir    string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewApp builds the bridge app with its error handler and every route.
func NewApp(deps *Dependencies, cfg AppConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		BodyLimit:             64 * 1024,
		AppName:               "SIARA map bridge",
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler,
		// Paths match exactly: /PICK and /pick/ are not /pick.
		CaseSensitive: true,
		StrictRouting: true,
	})
	SetupRoutes(app, deps, cfg.StaticDir)
	return app
}

// SetupRoutes registers the bridge routes. The route table is fixed:
// GET /reports.json, POST /pick, static files under staticDir, and an
// optional GET /metrics. Everything else gets 404, wrong methods included.
func SetupRoutes(app *fiber.App, deps *Dependencies, staticDir string) {
	app.Use(recover.New())

	// Prometheus metrics
	app.Use(metrics.Middleware())

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// The page is loaded from this origin only; keep it from being framed.
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		return c.Next()
	})

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	app.Get("/reports.json", ReportsFeedHandler(deps))
	app.Post("/pick", PickHandler(deps))

	if deps.ExposeMetrics {
		app.Get("/metrics", metrics.Handler())
	}

	// Static falls through to the next handler when the file is missing.
	app.Static("/", staticDir, fiber.Static{Browse: false})

	// Fiber answers 405 for known paths with the wrong method; this
	// catch-all keeps the answer at 404.
	app.Use(NotFoundHandler())
}
