package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/sqlc-dev/pqtype"
)

const gameColumns = "id, user_id, session_id, difficulty, score, moves, time_elapsed, matched_pairs, total_pairs, status, collected_facts, completed_at, created_at, updated_at"

func scanGame(row *sql.Row) (Game, error) {
	var g Game
	err := row.Scan(&g.ID, &g.UserID, &g.SessionID, &g.Difficulty, &g.Score, &g.Moves,
		&g.TimeElapsed, &g.MatchedPairs, &g.TotalPairs, &g.Status, &g.CollectedFacts,
		&g.CompletedAt, &g.CreatedAt, &g.UpdatedAt)
	return g, err
}

type CreateGameParams struct {
	UserID     sql.NullInt32
	SessionID  string
	Difficulty string
	TotalPairs int32
}

// CreateGame records the start of a play session in the "playing" state.
func (q *Queries) CreateGame(ctx context.Context, arg CreateGameParams) (Game, error) {
	defer observe("create_game", time.Now())
	g, err := scanGame(q.db.QueryRowContext(ctx,
		`INSERT INTO games (user_id, session_id, difficulty, total_pairs, status)
		 VALUES ($1, $2, $3, $4, 'playing') RETURNING `+gameColumns,
		arg.UserID, arg.SessionID, arg.Difficulty, arg.TotalPairs))
	return g, observeErr("create_game", err)
}

type FinishGameParams struct {
	ID             int32
	Score          int32
	Moves          int32
	TimeElapsed    int32
	MatchedPairs   int32
	Status         string
	CollectedFacts pqtype.NullRawMessage
}

// FinishGame closes out a play session with its final result.
func (q *Queries) FinishGame(ctx context.Context, arg FinishGameParams) (Game, error) {
	defer observe("finish_game", time.Now())
	g, err := scanGame(q.db.QueryRowContext(ctx,
		`UPDATE games SET score = $2, moves = $3, time_elapsed = $4, matched_pairs = $5,
		   status = $6, collected_facts = $7, completed_at = now(), updated_at = now()
		 WHERE id = $1 RETURNING `+gameColumns,
		arg.ID, arg.Score, arg.Moves, arg.TimeElapsed, arg.MatchedPairs,
		arg.Status, arg.CollectedFacts))
	return g, observeErr("finish_game", err)
}

// GetLeaderboard returns the top completed games joined with player names.
func (q *Queries) GetLeaderboard(ctx context.Context, limit int32) ([]LeaderboardRow, error) {
	defer observe("get_leaderboard", time.Now())
	rows, err := q.db.QueryContext(ctx,
		`SELECT g.id, u.id, u.name, g.score, g.time_elapsed, g.difficulty, g.created_at
		 FROM games g JOIN users u ON u.id = g.user_id
		 WHERE g.status = 'won'
		 ORDER BY g.score DESC, g.time_elapsed ASC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, observeErr("get_leaderboard", err)
	}
	defer rows.Close()

	var entries []LeaderboardRow
	for rows.Next() {
		var e LeaderboardRow
		if err := rows.Scan(&e.ID, &e.UserID, &e.UserName, &e.Score, &e.TimeElapsed,
			&e.Difficulty, &e.CreatedAt); err != nil {
			return nil, observeErr("get_leaderboard", err)
		}
		entries = append(entries, e)
	}
	return entries, observeErr("get_leaderboard", rows.Err())
}

// GetGameSummary returns aggregates over all recorded games.
func (q *Queries) GetGameSummary(ctx context.Context) (GameSummaryRow, error) {
	defer observe("get_game_summary", time.Now())
	const stmt = `
		SELECT
		  COUNT(*),
		  COUNT(*) FILTER (WHERE status = 'won'),
		  COUNT(*) FILTER (WHERE status = 'abandoned'),
		  COALESCE(AVG(score) FILTER (WHERE status = 'won'), 0),
		  COALESCE(AVG(time_elapsed) FILTER (WHERE status = 'won'), 0),
		  COALESCE(MAX(score), 0),
		  COUNT(*) FILTER (WHERE difficulty = 'easy'),
		  COUNT(*) FILTER (WHERE difficulty = 'medium'),
		  COUNT(*) FILTER (WHERE difficulty = 'hard')
		FROM games`
	var row GameSummaryRow
	err := q.db.QueryRowContext(ctx, stmt).Scan(
		&row.TotalGames, &row.CompletedGames, &row.AbandonedGames,
		&row.AverageScore, &row.AverageTime, &row.BestScore,
		&row.EasyGames, &row.MediumGames, &row.HardGames)
	return row, observeErr("get_game_summary", err)
}
