package handlers

import (
	"github.com/bankportal/portal-backend/shared"
	"github.com/gofiber/fiber/v2"
)

type MetricsHandler struct {
	Registry *shared.MetricsRegistry
}

func NewMetricsHandler(registry *shared.MetricsRegistry) *MetricsHandler {
	return &MetricsHandler{Registry: registry}
}

// GetMetrics handles GET /api/v1/metrics.
func (h *MetricsHandler) GetMetrics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.Registry.Snapshots(),
	})
}
