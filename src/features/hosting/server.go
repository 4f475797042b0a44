package hosting

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/contre95/maichart/src/features/config"
	"github.com/contre95/maichart/src/features/metrics"
	"github.com/contre95/maichart/src/features/songs"
	"github.com/contre95/maichart/src/features/stats"
	"github.com/gofiber/fiber/v2"
)

// Server is the HTTP server for the application.
type Server struct {
	app  *fiber.App
	port uint32
}

// NewServer creates a new HTTP server. m may be nil, in which case no metrics are collected or exposed.
func NewServer(cfg *config.Manager, songsService *songs.Service, statsService *stats.Service, m *metrics.Metrics) *Server {
	app := fiber.New(fiber.Config{
		ErrorHandler:          errorHandler,
		AppName:               "Maichart",
		DisableStartupMessage: true,
		EnablePrintRoutes:     cfg.Get().Server.PrintRoutes,
	})

	// Add middleware
	app.Use(RequestIDMiddleware())
	app.Use(LogAllRequestsMiddleware())
	metricsEnabled := m != nil && cfg.Get().Metrics.Enabled
	if metricsEnabled {
		app.Use(m.Middleware())
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	app.Get("/base", func(c *fiber.Ctx) error {
		return c.SendString("Hello world")
	})

	api := cfg.Get().API
	songs.RegisterRoutes(app, songsService, songs.Limits{Default: api.DefaultLimit, Max: api.MaxLimit})
	stats.RegisterRoutes(app, statsService)
	config.RegisterRoutes(app, cfg)
	if metricsEnabled {
		metrics.RegisterRoutes(app, m, cfg.Get().Metrics.Path)
	}

	return &Server{app: app, port: cfg.Get().Server.Port}
}

// errorHandler renders every unhandled error as {"detail": "..."}.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"detail": fe.Message})
	}
	slog.Error("Internal Server Error", "error", err, "request_id", c.Locals(requestIDKey))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Internal Server Error"})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.app.Listen(":" + fmt.Sprint(s.port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
