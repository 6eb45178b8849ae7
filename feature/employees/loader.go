package employees

import (
	"employee-sync/feature/employees/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
	enabled bool
}

// NewFeature creates the employees feature over a poller and the reconciler it drives.
func NewFeature(poller *reconcile.Poller, previewer Previewer, cfg reconcile.Config, logger *zap.Logger) *Feature {
	svc := NewService(poller, previewer, cfg, logger)
	return &Feature{service: svc, handler: NewHandler(svc), enabled: poller != nil}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "employees"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.enabled
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
