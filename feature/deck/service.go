package deck

import (
	"context"

	"go.uber.org/zap"
)

// Service exposes deck assembly to the HTTP layer and the CLI.
type Service struct {
	assembler *Assembler
	logger    *zap.Logger
}

// NewService builds the validator, sources, and assembler from configuration.
// The curated source is added only when a storage client is supplied.
func NewService(cfg Config, logger *zap.Logger, sources ...Source) *Service {
	return &Service{
		assembler: NewAssembler(cfg, logger, sources...),
		logger:    logger,
	}
}

// FetchDeck returns max(count, floor) cards, or fewer when sources
// underperform. Fails only with ErrNoImagesAvailable.
func (s *Service) FetchDeck(ctx context.Context, count int) ([]Card, error) {
	cards, err := s.assembler.FetchDeck(ctx, count)
	if err != nil {
		return nil, err
	}
	s.logger.Info("deck served", zap.Int("requested", count), zap.Int("cards", len(cards)))
	return cards, nil
}

// FetchQuickDeck is the first-paint variant: fewer sources, smaller fetches.
func (s *Service) FetchQuickDeck(ctx context.Context, count int) ([]Card, error) {
	cards, err := s.assembler.FetchQuickDeck(ctx, count)
	if err != nil {
		return nil, err
	}
	s.logger.Info("quick deck served", zap.Int("requested", count), zap.Int("cards", len(cards)))
	return cards, nil
}

// Sources describes the enabled sources for the attribution panel.
func (s *Service) Sources() []SourceInfo {
	return s.assembler.Sources()
}
