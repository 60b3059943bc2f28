package deck

import (
	"errors"
	"strconv"

	"fakeout/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for deck assembly.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, log *zap.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// RegisterRoutes registers the deck routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/deck")
	group.Get("/", h.HandleFetchDeck)
	group.Get("/quick", h.HandleFetchQuickDeck)
	group.Get("/sources", h.HandleSources)
}

// HandleFetchDeck assembles a full deck.
func (h *Handler) HandleFetchDeck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)
	count := parseCount(c.Query("count"))

	cards, err := h.service.FetchDeck(c.Context(), count)
	if err != nil {
		return h.deckError(c, l, err)
	}
	return c.JSON(fiber.Map{"cards": cards})
}

// HandleFetchQuickDeck assembles a small first-paint deck.
func (h *Handler) HandleFetchQuickDeck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)
	count := parseCount(c.Query("count"))

	cards, err := h.service.FetchQuickDeck(c.Context(), count)
	if err != nil {
		return h.deckError(c, l, err)
	}
	return c.JSON(fiber.Map{"cards": cards})
}

// HandleSources lists the enabled sources for the attribution panel.
func (h *Handler) HandleSources(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"sources": h.service.Sources()})
}

// deckError maps assembly failures onto responses. A short deck is a 200
// upstream of here; the only failure a caller sees is total exhaustion,
// which asks the UI to show a retry affordance.
func (h *Handler) deckError(c *fiber.Ctx, l *zap.Logger, err error) error {
	if errors.Is(err, ErrNoImagesAvailable) {
		l.Warn("deck request exhausted all sources")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":     "no images available",
			"retryable": true,
		})
	}
	l.Error("deck request failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

func parseCount(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
