package odf

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"odf-core/core/logger"
	"odf-core/feature/odf/parse"
)

// Handler handles HTTP requests for message ingestion.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the ingestion routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Post("/ingest-odf", h.HandleIngest)
}

// HandleIngest accepts one raw ODF XML message and reconciles it.
// Responds 200 for both applied and unhandled messages, 400 for an
// empty body or broken envelope, 422 for unreadable XML and 500 for a
// reconciliation failure.
func (h *Handler) HandleIngest(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	raw := c.Body()
	if len(raw) == 0 {
		l.Warn("ingestion request with empty body")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "empty body",
		})
	}

	report, err := h.service.Ingest(c.Context(), raw)
	if err != nil {
		switch {
		case errors.Is(err, parse.ErrNoEnvelope), errors.Is(err, parse.ErrNoDocumentType):
			l.Warn("ingestion request with broken envelope", zap.Error(err))
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		case errors.Is(err, parse.ErrBadXML):
			l.Warn("ingestion request with unreadable xml", zap.Error(err))
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": err.Error(),
			})
		default:
			l.Error("ingestion failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	return c.JSON(report)
}
