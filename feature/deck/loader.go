package deck

import (
	"fakeout/core/datasets"
	"fakeout/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the deck feature. The storage client may be nil; the
// curated source is only registered when storage is enabled and reachable by
// configuration.
func NewFeature(cfg Config, client datasets.Client, store storage.Client, storeCfg storage.Config, logger *zap.Logger) *Feature {
	svc := BuildService(cfg, client, store, storeCfg, logger)
	h := NewHandler(svc, logger)
	return &Feature{service: svc, handler: h}
}

// BuildService wires validator, sources, and assembler. Shared with the CLI,
// which serves decks without a running server.
func BuildService(cfg Config, client datasets.Client, store storage.Client, storeCfg storage.Config, logger *zap.Logger) *Service {
	v := newValidator(cfg)
	sources := buildSources(cfg, client, v)

	if store != nil && storeCfg.Enabled && storeCfg.PublicBaseURL != "" {
		curated := newCuratedSource(store, storeCfg)
		v.allowHost(curated.publicHost())
		sources = append(sources, curated)
		logger.Info("curated source enabled", zap.String("bucket", storeCfg.Bucket))
	}

	return NewService(cfg, logger, sources...)
}

// Service returns the underlying deck service.
func (f *Feature) Service() *Service {
	return f.service
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "deck"
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
