package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/whiskerlabs/catfacts-memory/backend/internal/facts"
)

// stubFactService returns canned values for handler tests.
type stubFactService struct {
	randomFact    facts.Fact
	randomOK      bool
	multiple      []facts.Fact
	searchResults []facts.Fact
	searchQuery   string
	searchLimit   int
	stats         facts.Statistics
	statsErr      error
	external      facts.ExternalFact
	listResult    facts.ListResult
	listErr       error
	batchUpdated  int64
}

func (s *stubFactService) GetRandomFact(ctx context.Context) (facts.Fact, bool) {
	return s.randomFact, s.randomOK
}

func (s *stubFactService) GetMultipleRandomFacts(ctx context.Context, count int) []facts.Fact {
	return s.multiple
}

func (s *stubFactService) SearchFacts(ctx context.Context, query string, limit int) []facts.Fact {
	s.searchQuery = query
	s.searchLimit = limit
	return s.searchResults
}

func (s *stubFactService) GetStatistics(ctx context.Context) (facts.Statistics, error) {
	return s.stats, s.statsErr
}

func (s *stubFactService) GetFromExternalAPI(ctx context.Context) facts.ExternalFact {
	return s.external
}

func (s *stubFactService) ListFacts(ctx context.Context, page, limit int, activeOnly bool) (facts.ListResult, error) {
	return s.listResult, s.listErr
}

func (s *stubFactService) BatchUpdateFactStatus(ctx context.Context, ids []int32, active bool) int64 {
	return s.batchUpdated
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response %q: %v", rr.Body.String(), err)
	}
	return body
}

func TestGetRandomFactFromDatabase(t *testing.T) {
	svc := &stubFactService{
		randomFact: facts.Fact{ID: 1, Fact: "Cats purr.", Length: 10},
		randomOK:   true,
	}

	rr := httptest.NewRecorder()
	GetRandomFact(svc)(rr, httptest.NewRequest("GET", "/api/cat-facts/random", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body := decodeBody(t, rr)
	data := body["data"].(map[string]interface{})
	if data["source"] != "database" {
		t.Errorf("source = %v, want database", data["source"])
	}
	if data["fact"] != "Cats purr." {
		t.Errorf("fact = %v", data["fact"])
	}
}

func TestGetRandomFactFallsThroughToExternal(t *testing.T) {
	svc := &stubFactService{
		randomOK: false,
		external: facts.ExternalFact{Fact: "External fact.", Length: 14, Source: "external_api"},
	}

	rr := httptest.NewRecorder()
	GetRandomFact(svc)(rr, httptest.NewRequest("GET", "/api/cat-facts/random", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	data := decodeBody(t, rr)["data"].(map[string]interface{})
	if data["source"] != "external_api" {
		t.Errorf("source = %v, want external_api", data["source"])
	}
}

func TestGetMultipleRandomFactsValidation(t *testing.T) {
	svc := &stubFactService{multiple: []facts.Fact{{ID: 1, Fact: "f", Length: 1}}}

	tests := []struct {
		query string
		want  int
	}{
		{"", http.StatusOK},
		{"?count=5", http.StatusOK},
		{"?count=20", http.StatusOK},
		{"?count=21", http.StatusBadRequest},
		{"?count=0", http.StatusBadRequest},
		{"?count=abc", http.StatusBadRequest},
	}
	for _, tt := range tests {
		rr := httptest.NewRecorder()
		GetMultipleRandomFacts(svc)(rr, httptest.NewRequest("GET", "/api/cat-facts/random-multiple"+tt.query, nil))
		if rr.Code != tt.want {
			t.Errorf("count=%q: status = %d, want %d", tt.query, rr.Code, tt.want)
		}
	}
}

func TestGetMultipleRandomFactsEmpty(t *testing.T) {
	svc := &stubFactService{multiple: []facts.Fact{}}

	rr := httptest.NewRecorder()
	GetMultipleRandomFacts(svc)(rr, httptest.NewRequest("GET", "/api/cat-facts/random-multiple", nil))

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for empty store", rr.Code)
	}
	if decodeBody(t, rr)["success"] != false {
		t.Error("empty result should report success=false")
	}
}

func TestSearchFactsHandler(t *testing.T) {
	svc := &stubFactService{
		searchResults: []facts.Fact{{ID: 1, Fact: "Cats nap.", Length: 9}},
	}

	rr := httptest.NewRecorder()
	SearchFacts(svc)(rr, httptest.NewRequest("GET", "/api/cat-facts/search?query=nap&limit=5", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if svc.searchQuery != "nap" || svc.searchLimit != 5 {
		t.Errorf("service called with %q/%d", svc.searchQuery, svc.searchLimit)
	}
	data := decodeBody(t, rr)["data"].(map[string]interface{})
	if data["query"] != "nap" || data["count"].(float64) != 1 {
		t.Errorf("data = %v", data)
	}
}

func TestSearchFactsQueryValidation(t *testing.T) {
	svc := &stubFactService{}
	tests := []string{
		"",          // missing
		"?query=a",  // too short
		"?query=" + strings.Repeat("x", 101), // too long
	}
	for _, q := range tests {
		rr := httptest.NewRecorder()
		SearchFacts(svc)(rr, httptest.NewRequest("GET", "/api/cat-facts/search"+q, nil))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("query %q: status = %d, want 400", q, rr.Code)
		}
	}
}

func TestGetStatisticsHandler(t *testing.T) {
	svc := &stubFactService{
		stats: facts.Statistics{Total: 10, Active: 8, AverageLength: 90.46},
	}

	rr := httptest.NewRecorder()
	GetStatistics(svc)(rr, httptest.NewRequest("GET", "/api/cat-facts/statistics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	data := decodeBody(t, rr)["data"].(map[string]interface{})
	if data["total"].(float64) != 10 || data["average_length"].(float64) != 90.46 {
		t.Errorf("data = %v", data)
	}
}

func TestGetStatisticsHandlerError(t *testing.T) {
	svc := &stubFactService{statsErr: errors.New("db down")}

	rr := httptest.NewRecorder()
	GetStatistics(svc)(rr, httptest.NewRequest("GET", "/api/cat-facts/statistics", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rr.Code)
	}
	if decodeBody(t, rr)["success"] != false {
		t.Error("error response should report success=false")
	}
}

func TestGetAllFactsValidation(t *testing.T) {
	svc := &stubFactService{}
	tests := []struct {
		query string
		want  int
	}{
		{"", http.StatusOK},
		{"?limit=100&page=3", http.StatusOK},
		{"?limit=101", http.StatusBadRequest},
		{"?page=0", http.StatusBadRequest},
	}
	for _, tt := range tests {
		rr := httptest.NewRecorder()
		GetAllFacts(svc)(rr, httptest.NewRequest("GET", "/api/cat-facts"+tt.query, nil))
		if rr.Code != tt.want {
			t.Errorf("%q: status = %d, want %d", tt.query, rr.Code, tt.want)
		}
	}
}

func TestBatchUpdateFactStatusHandler(t *testing.T) {
	svc := &stubFactService{batchUpdated: 2}

	body := strings.NewReader(`{"ids":[1,2],"active":false}`)
	rr := httptest.NewRecorder()
	BatchUpdateFactStatus(svc)(rr, httptest.NewRequest("PATCH", "/api/cat-facts/status", body))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	data := decodeBody(t, rr)["data"].(map[string]interface{})
	if data["updated"].(float64) != 2 {
		t.Errorf("updated = %v, want 2", data["updated"])
	}
}

func TestBatchUpdateFactStatusValidation(t *testing.T) {
	svc := &stubFactService{}
	tests := []struct {
		name string
		body string
	}{
		{"bad json", `{oops`},
		{"missing ids", `{"active":true}`},
		{"missing active", `{"ids":[1]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			BatchUpdateFactStatus(svc)(rr, httptest.NewRequest("PATCH", "/api/cat-facts/status", strings.NewReader(tt.body)))
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rr.Code)
			}
		})
	}
}
