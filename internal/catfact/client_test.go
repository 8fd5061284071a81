package catfact

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRandomFact(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"fact":"Cats have 32 muscles in each ear.","length":33}`))
	}))
	defer srv.Close()

	c := NewClient(Options{URL: srv.URL, RPS: 1000})
	resp, err := c.RandomFact(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Fact != "Cats have 32 muscles in each ear." {
		t.Errorf("unexpected fact: %q", resp.Fact)
	}
	if resp.Length != 33 {
		t.Errorf("expected length 33, got %d", resp.Length)
	}
}

func TestRandomFact_LengthDefaultsToCharacterCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"fact":"Cats purr."}`))
	}))
	defer srv.Close()

	c := NewClient(Options{URL: srv.URL, RPS: 1000})
	resp, err := c.RandomFact(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Length != len("Cats purr.") {
		t.Errorf("expected length %d, got %d", len("Cats purr."), resp.Length)
	}
}

func TestRandomFact_NonOKStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantType ErrorType
	}{
		{"rate limited", http.StatusTooManyRequests, ErrorRateLimited},
		{"not found", http.StatusNotFound, ErrorNotFound},
		{"server error", http.StatusInternalServerError, ErrorServerError},
		{"bad request", http.StatusBadRequest, ErrorBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := NewClient(Options{URL: srv.URL, RPS: 1000})
			_, err := c.RandomFact(context.Background())
			if err == nil {
				t.Fatal("expected error for non-200 status")
			}
			apiErr, ok := err.(*APIError)
			if !ok {
				t.Fatalf("expected *APIError, got %T", err)
			}
			if apiErr.Type != tt.wantType {
				t.Errorf("expected error type %d, got %d", tt.wantType, apiErr.Type)
			}
		})
	}
}

func TestRandomFact_EmptyFact(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"fact":""}`))
	}))
	defer srv.Close()

	c := NewClient(Options{URL: srv.URL, RPS: 1000})
	_, err := c.RandomFact(context.Background())
	apiErr, ok := err.(*APIError)
	if !ok || apiErr.Type != ErrorEmptyFact {
		t.Fatalf("expected empty-fact error, got %v", err)
	}
}

func TestRandomFact_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(Options{URL: srv.URL, Timeout: 50 * time.Millisecond, RPS: 1000})
	if _, err := c.RandomFact(context.Background()); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestRandomFact_Pacing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"fact":"Cats purr.","length":10}`))
	}))
	defer srv.Close()

	// 20 rps -> ~50ms between calls after the initial burst of one.
	c := NewClient(Options{URL: srv.URL, RPS: 20, Burst: 1})
	start := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := c.RandomFact(context.Background()); err != nil {
			t.Fatalf("call %d failed: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Errorf("expected pacing to spread calls, elapsed %s", elapsed)
	}
}
