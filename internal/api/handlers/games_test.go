package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/db"
)

type stubGameStore struct {
	createArg db.CreateGameParams
	finishArg db.FinishGameParams
	game      db.Game
	entries   []db.LeaderboardRow
	summary   db.GameSummaryRow
	err       error
}

func (s *stubGameStore) CreateGame(ctx context.Context, arg db.CreateGameParams) (db.Game, error) {
	s.createArg = arg
	return s.game, s.err
}

func (s *stubGameStore) FinishGame(ctx context.Context, arg db.FinishGameParams) (db.Game, error) {
	s.finishArg = arg
	return s.game, s.err
}

func (s *stubGameStore) GetLeaderboard(ctx context.Context, limit int32) ([]db.LeaderboardRow, error) {
	return s.entries, s.err
}

func (s *stubGameStore) GetGameSummary(ctx context.Context) (db.GameSummaryRow, error) {
	return s.summary, s.err
}

func TestCreateGameHandler(t *testing.T) {
	store := &stubGameStore{game: db.Game{ID: 3, SessionID: "abc", Status: "playing"}}

	body := `{"session_id":"abc","difficulty":"medium","total_pairs":8}`
	rr := httptest.NewRecorder()
	CreateGame(store)(rr, httptest.NewRequest("POST", "/api/games", strings.NewReader(body)))

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rr.Code, rr.Body.String())
	}
	if store.createArg.Difficulty != "medium" || store.createArg.TotalPairs != 8 {
		t.Errorf("store called with %+v", store.createArg)
	}
}

func TestCreateGameValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing session", `{"difficulty":"easy","total_pairs":4}`},
		{"bad difficulty", `{"session_id":"s","difficulty":"extreme","total_pairs":4}`},
		{"too few pairs", `{"session_id":"s","difficulty":"easy","total_pairs":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			CreateGame(&stubGameStore{})(rr, httptest.NewRequest("POST", "/api/games", strings.NewReader(tt.body)))
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rr.Code)
			}
		})
	}
}

func finishRequest(id, body string) *http.Request {
	req := httptest.NewRequest("PATCH", "/api/games/"+id, strings.NewReader(body))
	return mux.SetURLVars(req, map[string]string{"id": id})
}

func TestFinishGameHandler(t *testing.T) {
	store := &stubGameStore{game: db.Game{ID: 3, Status: "won"}}

	body := `{"score":120,"moves":30,"time_elapsed":95,"matched_pairs":8,"status":"won","collected_facts":[1,2,3]}`
	rr := httptest.NewRecorder()
	FinishGame(store)(rr, finishRequest("3", body))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	if store.finishArg.ID != 3 || store.finishArg.Score != 120 {
		t.Errorf("store called with %+v", store.finishArg)
	}
	if !store.finishArg.CollectedFacts.Valid {
		t.Error("collected facts should be stored")
	}
}

func TestFinishGameNotFound(t *testing.T) {
	store := &stubGameStore{err: sql.ErrNoRows}

	rr := httptest.NewRecorder()
	FinishGame(store)(rr, finishRequest("99", `{"status":"won"}`))

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestFinishGameStatusValidation(t *testing.T) {
	rr := httptest.NewRecorder()
	FinishGame(&stubGameStore{})(rr, finishRequest("3", `{"status":"paused"}`))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestGetLeaderboardEmpty(t *testing.T) {
	rr := httptest.NewRecorder()
	GetLeaderboard(&stubGameStore{})(rr, httptest.NewRequest("GET", "/api/games/leaderboard", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if data, ok := decodeBody(t, rr)["data"].([]interface{}); !ok || len(data) != 0 {
		t.Errorf("data should be an empty array, got %s", rr.Body.String())
	}
}

func TestGetGameSummaryRounding(t *testing.T) {
	store := &stubGameStore{summary: db.GameSummaryRow{TotalGames: 4, AverageScore: 88.666}}

	rr := httptest.NewRecorder()
	GetGameSummary(store)(rr, httptest.NewRequest("GET", "/api/games/summary", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	data := decodeBody(t, rr)["data"].(map[string]interface{})
	if data["average_score"].(float64) != 88.67 {
		t.Errorf("average_score = %v, want 88.67", data["average_score"])
	}
}
