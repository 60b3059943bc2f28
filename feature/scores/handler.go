package scores

import (
	"errors"
	"strconv"

	"fakeout/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for scores and analytics.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the score routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/scores")
	group.Post("/players", h.HandleCreatePlayer)
	group.Post("/sessions", h.HandleStartSession)
	group.Post("/sessions/:id/guesses", h.HandleRecordGuess)
	group.Post("/sessions/:id/close", h.HandleCloseSession)
	group.Get("/leaderboard", h.HandleLeaderboard)
	group.Get("/analytics/models", h.HandleModelStats)
}

// HandleCreatePlayer registers a nickname.
func (h *Handler) HandleCreatePlayer(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var body struct {
		Nickname string `json:"nickname"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	player, err := h.service.CreatePlayer(c.Context(), body.Nickname)
	if err != nil {
		return h.serviceError(c, l, err)
	}
	return c.Status(fiber.StatusCreated).JSON(player)
}

// HandleStartSession opens a new run.
func (h *Handler) HandleStartSession(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var body struct {
		PlayerID string `json:"playerId"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	session, err := h.service.StartSession(c.Context(), body.PlayerID)
	if err != nil {
		return h.serviceError(c, l, err)
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

// HandleRecordGuess stores one swipe and returns the guess verdict with the
// updated session counters.
func (h *Handler) HandleRecordGuess(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var body GuessInput
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	guess, session, err := h.service.RecordGuess(c.Context(), c.Params("id"), body)
	if err != nil {
		return h.serviceError(c, l, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"guess":   guess,
		"session": session,
	})
}

// HandleCloseSession finishes a run.
func (h *Handler) HandleCloseSession(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	session, err := h.service.CloseSession(c.Context(), c.Params("id"))
	if err != nil {
		return h.serviceError(c, l, err)
	}
	return c.JSON(session)
}

// HandleLeaderboard returns the top sessions by score.
func (h *Handler) HandleLeaderboard(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	limit, _ := strconv.Atoi(c.Query("limit"))
	entries, err := h.service.Leaderboard(c.Context(), limit)
	if err != nil {
		return h.serviceError(c, l, err)
	}
	return c.JSON(fiber.Map{"leaderboard": entries})
}

// HandleModelStats returns the per-model fool rates.
func (h *Handler) HandleModelStats(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	stats, err := h.service.ModelStats(c.Context())
	if err != nil {
		return h.serviceError(c, l, err)
	}
	return c.JSON(fiber.Map{"models": stats})
}

func (h *Handler) serviceError(c *fiber.Ctx, l *zap.Logger, err error) error {
	switch {
	case errors.Is(err, ErrInvalidNickname), errors.Is(err, ErrInvalidAnswer):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrDuplicateGuess), errors.Is(err, ErrSessionClosed):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		l.Error("scores request failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}
