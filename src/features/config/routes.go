package config

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the routes for the config feature.
func RegisterRoutes(app *fiber.App, configManager *Manager) {
	handler := NewHandler(configManager)

	group := app.Group("/config")
	group.Get("/", handler.GetConfig)
	group.Get("/:section", handler.GetConfig)
}
