package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/whiskerlabs/catfacts-memory/backend/internal/auth"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/db"
)

type stubUserStore struct {
	created     db.CreateUserParams
	lookedUp    string
	user        db.User
	users       []db.User
	err         error
	lookupError error
}

func (s *stubUserStore) CreateUser(ctx context.Context, arg db.CreateUserParams) (db.User, error) {
	s.created = arg
	return s.user, s.err
}

func (s *stubUserStore) GetUserByEmail(ctx context.Context, email string) (db.User, error) {
	s.lookedUp = email
	return s.user, s.lookupError
}

func (s *stubUserStore) ListUsers(ctx context.Context, limit int32) ([]db.User, error) {
	return s.users, s.err
}

var testTokenCfg = auth.Config{Secret: []byte("test-secret-at-least-32-bytes-long"), TTL: time.Hour}

func TestCreateUserIssuesToken(t *testing.T) {
	store := &stubUserStore{user: db.User{ID: 9, Name: "Mittens"}}

	req := httptest.NewRequest("POST", "/api/users", strings.NewReader(`{"name":"Mittens"}`))
	rr := httptest.NewRecorder()
	CreateUser(store, testTokenCfg)(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rr.Code, rr.Body.String())
	}
	data := decodeBody(t, rr)["data"].(map[string]interface{})
	token, _ := data["token"].(string)
	if token == "" {
		t.Fatal("response missing session token")
	}

	claims, err := auth.Verify(token, testTokenCfg)
	if err != nil {
		t.Fatalf("issued token did not verify: %v", err)
	}
	if claims.UserID != 9 || claims.Username != "Mittens" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestCreateUserValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad json", `{oops`},
		{"missing name", `{"email":"a@b.com"}`},
		{"blank name", `{"name":"   "}`},
		{"bad email", `{"name":"p","email":"not-an-email"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &stubUserStore{}
			req := httptest.NewRequest("POST", "/api/users", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			CreateUser(store, testTokenCfg)(rr, req)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rr.Code)
			}
		})
	}
}

func TestLoginReissuesToken(t *testing.T) {
	store := &stubUserStore{user: db.User{ID: 4, Name: "Paws", Email: sql.NullString{String: "paws@example.com", Valid: true}}}

	req := httptest.NewRequest("POST", "/api/users/login", strings.NewReader(`{"email":"  Paws@Example.com "}`))
	rr := httptest.NewRecorder()
	Login(store, testTokenCfg)(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	if store.lookedUp != "paws@example.com" {
		t.Errorf("lookup email = %q, want normalized lowercase", store.lookedUp)
	}

	data := decodeBody(t, rr)["data"].(map[string]interface{})
	token, _ := data["token"].(string)
	claims, err := auth.Verify(token, testTokenCfg)
	if err != nil {
		t.Fatalf("issued token did not verify: %v", err)
	}
	if claims.UserID != 4 {
		t.Errorf("claims.UserID = %d, want 4", claims.UserID)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	store := &stubUserStore{lookupError: sql.ErrNoRows}

	req := httptest.NewRequest("POST", "/api/users/login", strings.NewReader(`{"email":"ghost@example.com"}`))
	rr := httptest.NewRecorder()
	Login(store, testTokenCfg)(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestLoginMissingEmail(t *testing.T) {
	rr := httptest.NewRecorder()
	Login(&stubUserStore{}, testTokenCfg)(rr, httptest.NewRequest("POST", "/api/users/login", strings.NewReader(`{}`)))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestGetUsersHidesNullEmail(t *testing.T) {
	store := &stubUserStore{users: []db.User{{ID: 1, Name: "Anon"}}}

	rr := httptest.NewRecorder()
	GetUsers(store)(rr, httptest.NewRequest("GET", "/api/users", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if strings.Contains(rr.Body.String(), `"email"`) {
		t.Errorf("null email should be omitted: %s", rr.Body.String())
	}
}
