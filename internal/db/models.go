package db

import (
	"database/sql"
	"time"

	"github.com/sqlc-dev/pqtype"
)

// CatFact is a single stored fact. Fact text is unique across the table.
type CatFact struct {
	ID        int32     `json:"id"`
	Fact      string    `json:"fact"`
	Length    int32     `json:"length"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// User is a registered player.
type User struct {
	ID        int32          `json:"id"`
	Name      string         `json:"name"`
	Email     sql.NullString `json:"email"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Game is one recorded play session of the memory game.
type Game struct {
	ID             int32                 `json:"id"`
	UserID         sql.NullInt32         `json:"user_id"`
	SessionID      string                `json:"session_id"`
	Difficulty     string                `json:"difficulty"`
	Score          int32                 `json:"score"`
	Moves          int32                 `json:"moves"`
	TimeElapsed    int32                 `json:"time_elapsed"`
	MatchedPairs   int32                 `json:"matched_pairs"`
	TotalPairs     int32                 `json:"total_pairs"`
	Status         string                `json:"status"`
	CollectedFacts pqtype.NullRawMessage `json:"collected_facts"`
	CompletedAt    sql.NullTime          `json:"completed_at"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// FactSummaryRow is the single-row aggregate over the fact population.
// Averages and extremes are computed over active facts only.
type FactSummaryRow struct {
	TotalFacts    int64
	ActiveFacts   int64
	InactiveFacts int64
	AvgLength     float64
	MinLength     int32
	MaxLength     int32
}

// FactLengthBucketRow is one row of the length histogram (short/medium/long).
type FactLengthBucketRow struct {
	Category string
	Count    int64
}

// LeaderboardRow is one leaderboard entry joined with the player name.
type LeaderboardRow struct {
	ID          int32     `json:"id"`
	UserID      int32     `json:"user_id"`
	UserName    string    `json:"user_name"`
	Score       int32     `json:"score"`
	TimeElapsed int32     `json:"time_elapsed"`
	Difficulty  string    `json:"difficulty"`
	CreatedAt   time.Time `json:"created_at"`
}

// GameSummaryRow is the aggregate over all recorded games.
type GameSummaryRow struct {
	TotalGames     int64
	CompletedGames int64
	AbandonedGames int64
	AverageScore   float64
	AverageTime    float64
	BestScore      int32
	EasyGames      int64
	MediumGames    int64
	HardGames      int64
}
