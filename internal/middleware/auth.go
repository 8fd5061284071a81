package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/whiskerlabs/catfacts-memory/backend/internal/apierr"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/auth"
)

type authContextKey string

// ClaimsKey is the context key holding the verified session claims.
const ClaimsKey authContextKey = "session_claims"

// RequireAuth returns a middleware that rejects requests without a valid
// Bearer session token and places the verified claims in the request context.
func RequireAuth(cfg auth.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				apierr.WriteErrorWithContext(w, r, apierr.AuthMissing("Authorization header required"))
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				apierr.WriteErrorWithContext(w, r, apierr.AuthInvalid("Authorization header must use the Bearer scheme"))
				return
			}

			claims, err := auth.Verify(token, cfg)
			if err != nil {
				apierr.WriteErrorWithContext(w, r, apierr.AuthInvalid("Invalid or expired session token"))
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the verified session claims, if any.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*auth.Claims)
	return claims, ok
}
