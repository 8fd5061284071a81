package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/whiskerlabs/catfacts-memory/backend/internal/apierr"
)

// MaxRequestBodySize caps request bodies at 1MB. The largest legitimate
// payload here is a finished game's collected facts, far below that.
const MaxRequestBodySize = 1 << 20

// ValidateRequestBody bounds the body size on mutating methods, so a handler
// reading the body gets a MaxBytesError instead of an unbounded read.
func ValidateRequestBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireJSON rejects requests whose body is not well-formed JSON before the
// handler runs. Only for routes whose body is mandatory; routes with an
// optional body handle decoding themselves.
func RequireJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := ValidateJSON(r); err != nil {
			apierr.WriteErrorWithContext(w, r, apierr.ValidationInvalidJSON())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ValidateJSON checks that the request declares a JSON content type and
// carries a syntactically valid JSON body. The body is re-buffered so the
// handler can decode it again.
func ValidateJSON(r *http.Request) error {
	if ct := r.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		return errors.New("Content-Type must be application/json")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return fmt.Errorf("read request body: %w", err)
	}
	r.Body.Close()

	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	r.Body = io.NopCloser(bytes.NewReader(body))
	return nil
}
