package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sqlc-dev/pqtype"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/apierr"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/db"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/logger"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/middleware"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/tracing"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/utils"
)

// GameStore abstracts game persistence for testability.
type GameStore interface {
	CreateGame(ctx context.Context, arg db.CreateGameParams) (db.Game, error)
	FinishGame(ctx context.Context, arg db.FinishGameParams) (db.Game, error)
	GetLeaderboard(ctx context.Context, limit int32) ([]db.LeaderboardRow, error)
	GetGameSummary(ctx context.Context) (db.GameSummaryRow, error)
}

var validDifficulties = map[string]bool{"easy": true, "medium": true, "hard": true}

type createGameRequest struct {
	SessionID  string `json:"session_id"`
	Difficulty string `json:"difficulty"`
	TotalPairs int32  `json:"total_pairs"`
}

// CreateGame handles POST /api/games (protected).
func CreateGame(store GameStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracing.StartSpan(r.Context(), "handlers.CreateGame")
		defer span.End()

		var req createGameRequest
		if err := decodeJSON(r, &req); err != nil {
			apierr.WriteErrorWithContext(w, r, apierr.ValidationInvalidJSON())
			return
		}
		if req.SessionID == "" {
			apierr.WriteErrorWithContext(w, r, apierr.ValidationMissingField("session_id"))
			return
		}
		if !validDifficulties[req.Difficulty] {
			apierr.WriteErrorWithContext(w, r,
				apierr.ValidationInvalidValue("difficulty", "Difficulty must be easy, medium, or hard"))
			return
		}
		if req.TotalPairs < 2 || req.TotalPairs > 50 {
			apierr.WriteErrorWithContext(w, r,
				apierr.ValidationInvalidValue("total_pairs", "Total pairs must be between 2 and 50"))
			return
		}

		userID := sql.NullInt32{}
		if claims, ok := middleware.ClaimsFromContext(ctx); ok {
			userID = sql.NullInt32{Int32: claims.UserID, Valid: true}
		}

		game, err := store.CreateGame(ctx, db.CreateGameParams{
			UserID:     userID,
			SessionID:  req.SessionID,
			Difficulty: req.Difficulty,
			TotalPairs: req.TotalPairs,
		})
		if err != nil {
			logger.ErrorContext(ctx, "Failed to create game", "error", err)
			apierr.WriteErrorWithContext(w, r, apierr.SystemDatabase("Unable to create game"))
			return
		}

		writeJSON(w, http.StatusCreated, envelope{Success: true, Data: game})
	}
}

type finishGameRequest struct {
	Score          int32           `json:"score"`
	Moves          int32           `json:"moves"`
	TimeElapsed    int32           `json:"time_elapsed"`
	MatchedPairs   int32           `json:"matched_pairs"`
	Status         string          `json:"status"`
	CollectedFacts json.RawMessage `json:"collected_facts"`
}

// FinishGame handles PATCH /api/games/{id} (protected).
func FinishGame(store GameStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracing.StartSpan(r.Context(), "handlers.FinishGame")
		defer span.End()

		id, err := strconv.Atoi(pathVar(r, "id"))
		if err != nil || id < 1 {
			apierr.WriteErrorWithContext(w, r,
				apierr.ValidationInvalidValue("id", "Game id must be a positive integer"))
			return
		}

		var req finishGameRequest
		if err := decodeJSON(r, &req); err != nil {
			apierr.WriteErrorWithContext(w, r, apierr.ValidationInvalidJSON())
			return
		}
		if req.Status != "won" && req.Status != "lost" && req.Status != "abandoned" {
			apierr.WriteErrorWithContext(w, r,
				apierr.ValidationInvalidValue("status", "Status must be won, lost, or abandoned"))
			return
		}

		collected := pqtype.NullRawMessage{}
		if len(req.CollectedFacts) > 0 {
			collected = pqtype.NullRawMessage{RawMessage: req.CollectedFacts, Valid: true}
		}

		game, err := store.FinishGame(ctx, db.FinishGameParams{
			ID:             int32(id),
			Score:          req.Score,
			Moves:          req.Moves,
			TimeElapsed:    req.TimeElapsed,
			MatchedPairs:   req.MatchedPairs,
			Status:         req.Status,
			CollectedFacts: collected,
		})
		if err != nil {
			if err == sql.ErrNoRows {
				apierr.WriteErrorWithContext(w, r, apierr.ResourceNotFound("game"))
				return
			}
			logger.ErrorContext(ctx, "Failed to finish game", "error", err, "game_id", id)
			apierr.WriteErrorWithContext(w, r, apierr.SystemDatabase("Unable to update game"))
			return
		}

		writeData(w, game)
	}
}

// GetLeaderboard handles GET /api/games/leaderboard.
func GetLeaderboard(store GameStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracing.StartSpan(r.Context(), "handlers.GetLeaderboard")
		defer span.End()

		limit := 10
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				limit = utils.ClampInt(n, 1, 100)
			}
		}

		entries, err := store.GetLeaderboard(ctx, int32(limit))
		if err != nil {
			logger.ErrorContext(ctx, "Failed to fetch leaderboard", "error", err)
			apierr.WriteErrorWithContext(w, r, apierr.SystemDatabase("Unable to fetch leaderboard"))
			return
		}
		if entries == nil {
			entries = []db.LeaderboardRow{}
		}
		writeData(w, entries)
	}
}

// GetGameSummary handles GET /api/games/summary.
func GetGameSummary(store GameStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracing.StartSpan(r.Context(), "handlers.GetGameSummary")
		defer span.End()

		summary, err := store.GetGameSummary(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to fetch game summary", "error", err)
			apierr.WriteErrorWithContext(w, r, apierr.SystemDatabase("Unable to fetch game summary"))
			return
		}

		writeData(w, map[string]interface{}{
			"total_games":     summary.TotalGames,
			"completed_games": summary.CompletedGames,
			"abandoned_games": summary.AbandonedGames,
			"average_score":   utils.Round2(summary.AverageScore),
			"average_time":    utils.Round2(summary.AverageTime),
			"best_score":      summary.BestScore,
			"by_difficulty": map[string]int64{
				"easy":   summary.EasyGames,
				"medium": summary.MediumGames,
				"hard":   summary.HardGames,
			},
		})
	}
}
