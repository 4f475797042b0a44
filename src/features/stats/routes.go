package stats

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the stats routes with the Fiber app.
func RegisterRoutes(app *fiber.App, service *Service) {
	handler := NewHandler(service)
	app.Get("/songs/stats/summary", handler.GetSummary)
}
