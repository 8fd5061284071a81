package handlers

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/lib/pq"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/apierr"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/auth"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/db"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/logger"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/tracing"
)

// UserStore abstracts player persistence for testability.
type UserStore interface {
	CreateUser(ctx context.Context, arg db.CreateUserParams) (db.User, error)
	GetUserByEmail(ctx context.Context, email string) (db.User, error)
	ListUsers(ctx context.Context, limit int32) ([]db.User, error)
}

type createUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type userResponse struct {
	ID    int32  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

func toUserResponse(u db.User) userResponse {
	resp := userResponse{ID: u.ID, Name: u.Name}
	if u.Email.Valid {
		resp.Email = u.Email.String
	}
	return resp
}

// CreateUser handles POST /api/users. Registration issues the session token
// used by the protected endpoints.
func CreateUser(store UserStore, tokenCfg auth.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracing.StartSpan(r.Context(), "handlers.CreateUser")
		defer span.End()

		var req createUserRequest
		if err := decodeJSON(r, &req); err != nil {
			apierr.WriteErrorWithContext(w, r, apierr.ValidationInvalidJSON())
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			apierr.WriteErrorWithContext(w, r, apierr.ValidationMissingField("name"))
			return
		}
		if len(req.Name) > 60 {
			apierr.WriteErrorWithContext(w, r,
				apierr.ValidationInvalidValue("name", "Name must be at most 60 characters"))
			return
		}

		email := sql.NullString{}
		if req.Email != "" {
			if !strings.Contains(req.Email, "@") {
				apierr.WriteErrorWithContext(w, r,
					apierr.ValidationInvalidValue("email", "Invalid email address"))
				return
			}
			email = sql.NullString{String: strings.ToLower(req.Email), Valid: true}
		}

		user, err := store.CreateUser(ctx, db.CreateUserParams{Name: req.Name, Email: email})
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
				apierr.WriteErrorWithContext(w, r,
					apierr.ResourceConflict("A player with this email already exists"))
				return
			}
			logger.ErrorContext(ctx, "Failed to create user", "error", err)
			apierr.WriteErrorWithContext(w, r, apierr.SystemDatabase("Unable to create user"))
			return
		}

		token, err := auth.Issue(user.ID, user.Name, tokenCfg)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to issue session token", "error", err)
			apierr.WriteErrorWithContext(w, r, apierr.SystemInternal("Unable to issue session token"))
			return
		}

		writeJSON(w, http.StatusCreated, envelope{
			Success: true,
			Data: map[string]interface{}{
				"user":  toUserResponse(user),
				"token": token,
			},
		})
	}
}

type loginRequest struct {
	Email string `json:"email"`
}

// Login handles POST /api/users/login. Registration is anonymous-friendly,
// so login is just an email lookup that re-issues a session token; there is
// no password in this system.
func Login(store UserStore, tokenCfg auth.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracing.StartSpan(r.Context(), "handlers.Login")
		defer span.End()

		var req loginRequest
		if err := decodeJSON(r, &req); err != nil {
			apierr.WriteErrorWithContext(w, r, apierr.ValidationInvalidJSON())
			return
		}

		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		if req.Email == "" {
			apierr.WriteErrorWithContext(w, r, apierr.ValidationMissingField("email"))
			return
		}

		user, err := store.GetUserByEmail(ctx, req.Email)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				apierr.WriteErrorWithContext(w, r, apierr.ResourceNotFound("Player"))
				return
			}
			logger.ErrorContext(ctx, "Failed to look up user", "error", err)
			apierr.WriteErrorWithContext(w, r, apierr.SystemDatabase("Unable to look up user"))
			return
		}

		token, err := auth.Issue(user.ID, user.Name, tokenCfg)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to issue session token", "error", err)
			apierr.WriteErrorWithContext(w, r, apierr.SystemInternal("Unable to issue session token"))
			return
		}

		writeData(w, map[string]interface{}{
			"user":  toUserResponse(user),
			"token": token,
		})
	}
}

// GetUsers handles GET /api/users (protected).
func GetUsers(store UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracing.StartSpan(r.Context(), "handlers.GetUsers")
		defer span.End()

		users, err := store.ListUsers(ctx, 100)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to list users", "error", err)
			apierr.WriteErrorWithContext(w, r, apierr.SystemDatabase("Unable to list users"))
			return
		}

		out := make([]userResponse, 0, len(users))
		for _, u := range users {
			out = append(out, toUserResponse(u))
		}
		writeData(w, out)
	}
}
