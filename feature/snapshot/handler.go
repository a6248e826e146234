package snapshot

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"odf-core/core/logger"
)

// Handler handles HTTP requests for the read side.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the snapshot routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/snapshot", h.HandleGetSnapshot)
}

// HandleGetSnapshot serializes the reconciled tables into one composite
// JSON document.
func (h *Handler) HandleGetSnapshot(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	snap, err := h.service.Build(c.Context())
	if err != nil {
		l.Error("snapshot build failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(snap)
}
