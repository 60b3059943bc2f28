package scores

import "time"

// Player is a registered nickname. There is no authentication; the id is an
// opaque token the client stores locally.
type Player struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Nickname  string    `gorm:"size:32;uniqueIndex;not null" json:"nickname"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName returns the table name for GORM.
func (Player) TableName() string {
	return "players"
}

// Session is one play run. Score and streaks are maintained server-side as
// guesses arrive.
type Session struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	PlayerID    string     `gorm:"size:36;index;not null" json:"playerId"`
	Score       int        `json:"score"`
	Streak      int        `json:"streak"`
	BestStreak  int        `json:"bestStreak"`
	CardsPlayed int        `json:"cardsPlayed"`
	StartedAt   time.Time  `gorm:"autoCreateTime" json:"startedAt"`
	EndedAt     *time.Time `json:"endedAt,omitempty"`
}

// TableName returns the table name for GORM.
func (Session) TableName() string {
	return "sessions"
}

// Guess records one swipe. The session/card pair is unique: guessing the same
// card twice in a session is rejected.
type Guess struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SessionID   string    `gorm:"size:36;uniqueIndex:idx_guess_session_card;not null" json:"sessionId"`
	CardID      string    `gorm:"size:128;uniqueIndex:idx_guess_session_card;not null" json:"cardId"`
	SourceID    string    `gorm:"size:32;index" json:"sourceId"`
	ModelName   string    `gorm:"size:64;index" json:"modelName,omitempty"`
	GroundTruth string    `gorm:"size:8;not null" json:"groundTruth"`
	Answer      string    `gorm:"size:8;not null" json:"answer"`
	Correct     bool      `json:"correct"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName returns the table name for GORM.
func (Guess) TableName() string {
	return "guesses"
}

// LeaderboardEntry is one ranked row of the leaderboard.
type LeaderboardEntry struct {
	Nickname   string `json:"nickname"`
	Score      int    `json:"score"`
	BestStreak int    `json:"bestStreak"`
}

// ModelStat aggregates how often one generator model fooled players: the
// share of its AI cards that were guessed real.
type ModelStat struct {
	ModelName string  `json:"modelName"`
	Guesses   int     `json:"guesses"`
	Fooled    int     `json:"fooled"`
	FoolRate  float64 `json:"foolRate"`
}
