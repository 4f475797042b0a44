package config

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

var contentTypes = map[string]string{
	"yaml": "text/yaml",
	"json": fiber.MIMEApplicationJSON,
}

// Handler is the handler for the config feature.
type Handler struct {
	configManager *Manager
}

// NewHandler creates a new handler for the config feature.
func NewHandler(configManager *Manager) *Handler {
	return &Handler{
		configManager: configManager,
	}
}

// GetConfig is the handler for GET /config and GET /config/:section.
// The format is chosen with ?fmt=yaml|json and defaults to yaml.
func (h *Handler) GetConfig(c *fiber.Ctx) error {
	format := c.Query("fmt", "yaml")
	section := c.Params("section")
	slog.Debug("GetConfig handler called", "format", format, "section", section)

	body, err := h.configManager.Render(format, section)
	switch {
	case errors.Is(err, ErrUnknownFormat):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": "fmt: use 'json' or 'yaml'"})
	case errors.Is(err, ErrUnknownSection):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Config section not found"})
	case err != nil:
		slog.Error("Error rendering config", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Error rendering config"})
	}
	c.Set(fiber.HeaderContentType, contentTypes[format])
	return c.Send(body)
}
