package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/cv-analyzer/internal/services"
)

type DebugHandler struct {
	debugger services.DebuggerService
}

func NewDebugHandler(debugger services.DebuggerService) *DebugHandler {
	return &DebugHandler{
		debugger: debugger,
	}
}

// HandleGetErrors handles GET /debug/errors
func (h *DebugHandler) HandleGetErrors(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"errors": h.debugger.GetErrorSummary(),
	})
}

// HandleGetMetrics handles GET /debug/metrics
func (h *DebugHandler) HandleGetMetrics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"metrics":  h.debugger.GetPerformanceMetrics(),
		"averages": h.debugger.AverageMetrics(),
	})
}

// HandleExport handles GET /debug/export
func (h *DebugHandler) HandleExport(c *fiber.Ctx) error {
	data, err := h.debugger.ExportDebugData()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to export debug data",
		})
	}

	return sendArtifact(c, data, "debug_data.json", "application/json")
}
