package scores

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Validation errors surfaced as 4xx responses by the handler.
var (
	ErrInvalidNickname = errors.New("nickname must be 1-32 characters")
	ErrInvalidAnswer   = errors.New("answer must be AI or REAL")
	ErrDuplicateGuess  = errors.New("card already guessed in this session")
	ErrSessionClosed   = errors.New("session already closed")
	ErrNotFound        = errors.New("not found")
)

// Service persists players, sessions, and guesses, and serves the
// leaderboard and model analytics.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new scores service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Migrate creates the score tables.
func (s *Service) Migrate() error {
	return s.db.AutoMigrate(&Player{}, &Session{}, &Guess{})
}

// CreatePlayer registers a nickname and returns the new player.
func (s *Service) CreatePlayer(ctx context.Context, nickname string) (*Player, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" || len(nickname) > 32 {
		return nil, ErrInvalidNickname
	}

	player := &Player{ID: uuid.NewString(), Nickname: nickname}
	if err := s.db.WithContext(ctx).Create(player).Error; err != nil {
		return nil, fmt.Errorf("creating player: %w", err)
	}
	return player, nil
}

// StartSession opens a new run for the player.
func (s *Service) StartSession(ctx context.Context, playerID string) (*Session, error) {
	var player Player
	if err := s.db.WithContext(ctx).First(&player, "id = ?", playerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading player: %w", err)
	}

	session := &Session{ID: uuid.NewString(), PlayerID: playerID}
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	return session, nil
}

// GuessInput is one submitted swipe.
type GuessInput struct {
	CardID      string `json:"cardId"`
	SourceID    string `json:"sourceId"`
	ModelName   string `json:"modelName"`
	GroundTruth string `json:"groundTruth"`
	Answer      string `json:"answer"`
}

// RecordGuess stores a guess, computes correctness server-side, and updates
// the session's score and streaks. Returns the updated session.
func (s *Service) RecordGuess(ctx context.Context, sessionID string, in GuessInput) (*Guess, *Session, error) {
	if !validAnswer(in.Answer) || !validAnswer(in.GroundTruth) {
		return nil, nil, ErrInvalidAnswer
	}

	var guess *Guess
	var session Session

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&session, "id = ?", sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if session.EndedAt != nil {
			return ErrSessionClosed
		}

		var existing int64
		if err := tx.Model(&Guess{}).
			Where("session_id = ? AND card_id = ?", sessionID, in.CardID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrDuplicateGuess
		}

		correct := in.Answer == in.GroundTruth
		guess = &Guess{
			SessionID:   sessionID,
			CardID:      in.CardID,
			SourceID:    in.SourceID,
			ModelName:   in.ModelName,
			GroundTruth: in.GroundTruth,
			Answer:      in.Answer,
			Correct:     correct,
		}
		if err := tx.Create(guess).Error; err != nil {
			return err
		}

		applyGuess(&session, correct)
		return tx.Model(&Session{}).Where("id = ?", sessionID).Updates(map[string]any{
			"score":        session.Score,
			"streak":       session.Streak,
			"best_streak":  session.BestStreak,
			"cards_played": session.CardsPlayed,
		}).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return guess, &session, nil
}

// CloseSession marks a run finished. Closing twice is an error.
func (s *Service) CloseSession(ctx context.Context, sessionID string) (*Session, error) {
	var session Session
	if err := s.db.WithContext(ctx).First(&session, "id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if session.EndedAt != nil {
		return nil, ErrSessionClosed
	}

	now := time.Now()
	session.EndedAt = &now
	if err := s.db.WithContext(ctx).Model(&Session{}).
		Where("id = ?", sessionID).
		Update("ended_at", now).Error; err != nil {
		return nil, fmt.Errorf("closing session: %w", err)
	}
	return &session, nil
}

// Leaderboard returns the top sessions by score.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	var entries []LeaderboardEntry
	err := s.db.WithContext(ctx).
		Table("sessions").
		Select("players.nickname, sessions.score, sessions.best_streak").
		Joins("JOIN players ON players.id = sessions.player_id").
		Order("sessions.score DESC").
		Limit(limit).
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("loading leaderboard: %w", err)
	}
	return entries, nil
}

// ModelStats aggregates, per generator model, how often its images were
// guessed real.
func (s *Service) ModelStats(ctx context.Context) ([]ModelStat, error) {
	var stats []ModelStat
	err := s.db.WithContext(ctx).
		Table("guesses").
		Select("model_name, COUNT(*) AS guesses, SUM(CASE WHEN correct THEN 0 ELSE 1 END) AS fooled").
		Where("ground_truth = ? AND model_name <> ''", "AI").
		Group("model_name").
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("loading model stats: %w", err)
	}

	for i := range stats {
		if stats[i].Guesses > 0 {
			stats[i].FoolRate = float64(stats[i].Fooled) / float64(stats[i].Guesses)
		}
	}
	return stats, nil
}

// applyGuess folds one guess into the session counters.
func applyGuess(session *Session, correct bool) {
	session.CardsPlayed++
	if correct {
		session.Score++
		session.Streak++
		if session.Streak > session.BestStreak {
			session.BestStreak = session.Streak
		}
	} else {
		session.Streak = 0
	}
}

func validAnswer(answer string) bool {
	return answer == "AI" || answer == "REAL"
}
