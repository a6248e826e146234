package odf

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"odf-core/feature/odf/parse"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the ingestion feature with the default routing
// table.
func NewFeature(db *gorm.DB, logger *zap.Logger, notifier Notifier) *Feature {
	svc := NewService(db, logger, parse.DefaultRegistry(), notifier)
	h := NewHandler(svc)
	return &Feature{service: svc, handler: h}
}

// Service exposes the ingestion service for non-HTTP callers.
func (f *Feature) Service() *Service {
	return f.service
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "odf"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
