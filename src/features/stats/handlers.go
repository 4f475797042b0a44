package stats

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// Handler handles HTTP requests for the stats feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new stats handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetSummary returns the catalog summary as JSON.
func (h *Handler) GetSummary(c *fiber.Ctx) error {
	slog.Debug("GetSummary handler called")

	summary, err := h.service.Summary()
	if err != nil {
		slog.Error("Error computing stats", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Error computing stats"})
	}
	return c.JSON(summary)
}
