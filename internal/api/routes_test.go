package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/whiskerlabs/catfacts-memory/backend/internal/auth"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/cache"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/db"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/facts"
)

func testRouter() http.Handler {
	c := cache.NewMockCache()
	svc := facts.NewService(nil, c, nil, facts.Config{})
	return NewRouter(Deps{
		Queries:   db.New(nil),
		Cache:     c,
		Facts:     svc,
		TokenCfg:  auth.Config{Secret: []byte("test-secret-at-least-32-bytes-long"), TTL: time.Hour},
		StartedAt: time.Now(),
	})
}

func TestHealthRoute(t *testing.T) {
	rr := httptest.NewRecorder()
	testRouter().ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

func TestIndexRoute(t *testing.T) {
	rr := httptest.NewRecorder()
	testRouter().ServeHTTP(rr, httptest.NewRequest("GET", "/api", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "/api/cat-facts") {
		t.Errorf("index body missing endpoint listing: %s", rr.Body.String())
	}
}

func TestUnknownRoute(t *testing.T) {
	rr := httptest.NewRecorder()
	testRouter().ServeHTTP(rr, httptest.NewRequest("GET", "/api/nope", nil))

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestProtectedRoutesRejectAnonymous(t *testing.T) {
	router := testRouter()

	paths := []struct {
		method string
		path   string
	}{
		{"POST", "/api/cat-facts/populate"},
		{"PATCH", "/api/cat-facts/status"},
		{"GET", "/api/users"},
		{"POST", "/api/games"},
		{"POST", "/api/admin/cache/invalidate"},
		{"GET", "/api/admin/cache/stats"},
	}
	for _, p := range paths {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(p.method, p.path, nil))
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: status = %d, want 401", p.method, p.path, rr.Code)
		}
	}
}

func TestBodyRoutesRejectMalformedJSON(t *testing.T) {
	router := testRouter()

	for _, path := range []string{"/api/users", "/api/users/login"} {
		req := httptest.NewRequest("POST", path, strings.NewReader(`{broken`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("POST %s: status = %d, want 400", path, rr.Code)
		}
	}
}

func TestMetricsRouteExposed(t *testing.T) {
	rr := httptest.NewRecorder()
	testRouter().ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

func TestRequestIDOnEveryResponse(t *testing.T) {
	rr := httptest.NewRecorder()
	testRouter().ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))

	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("response missing X-Request-ID header")
	}
}
