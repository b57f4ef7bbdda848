package companion

import (
	"scribey-companion/core/queue"
	"scribey-companion/core/settings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the companion feature.
func NewFeature(provider settings.Provider, uploader Uploader, q *queue.Queue, addonFile, tableName string, logger *zap.Logger) *Feature {
	svc := NewService(provider, uploader, q, addonFile, tableName, logger)
	h := NewHandler(svc)
	return &Feature{service: svc, handler: h}
}

// Service exposes the pipeline service for lifecycle wiring.
func (f *Feature) Service() *Service {
	return f.service
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "companion"
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
