// Package apierr defines the error envelope every endpoint writes on
// failure: a machine-readable code, a human message, and the request ID so
// a client report can be matched to server logs.
package apierr

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/whiskerlabs/catfacts-memory/backend/internal/logger"
)

// ErrorCode is a stable machine-readable error identifier, namespaced by
// concern.
type ErrorCode string

const (
	ErrAuthMissing ErrorCode = "AUTH_MISSING"
	ErrAuthInvalid ErrorCode = "AUTH_INVALID"

	ErrFactQueryFailed ErrorCode = "FACT_QUERY_FAILED"

	ErrSearchInvalidQuery ErrorCode = "SEARCH_INVALID_QUERY"

	ErrStatsFailed ErrorCode = "STATS_FAILED"

	ErrIngestFailed       ErrorCode = "INGEST_FAILED"
	ErrIngestInvalidCount ErrorCode = "INGEST_INVALID_COUNT"

	ErrSystemInternal ErrorCode = "SYSTEM_INTERNAL"
	ErrSystemDatabase ErrorCode = "SYSTEM_DATABASE"

	ErrValidationInvalidJSON  ErrorCode = "VALIDATION_INVALID_JSON"
	ErrValidationMissingField ErrorCode = "VALIDATION_MISSING_FIELD"
	ErrValidationInvalidValue ErrorCode = "VALIDATION_INVALID_VALUE"

	ErrResourceNotFound ErrorCode = "RESOURCE_NOT_FOUND"
	ErrResourceConflict ErrorCode = "RESOURCE_CONFLICT"

	ErrRateLimitGlobal ErrorCode = "RATE_LIMIT_GLOBAL"
	ErrRateLimitIP     ErrorCode = "RATE_LIMIT_IP"
)

// Error is one API error. The HTTP status travels out of band; only the
// code, message, details, and request ID are serialized.
type Error struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	status    int
}

// ErrorResponse is the body written for every failed request. Success is
// always false, mirroring the success envelope on the happy path.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   *Error `json:"error"`
}

// New builds an Error with an explicit HTTP status.
func New(code ErrorCode, message string, status int) *Error {
	return &Error{Code: code, Message: message, status: status}
}

// WithDetails attaches structured detail fields.
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	e.Details = details
	return e
}

// WithRequestID attaches the request ID for log correlation.
func (e *Error) WithRequestID(id string) *Error {
	e.RequestID = id
	return e
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

// Status is the HTTP status this error maps to.
func (e *Error) Status() int {
	return e.status
}

// WriteError serializes err as the error envelope.
func WriteError(w http.ResponseWriter, err *Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Status())
	json.NewEncoder(w).Encode(ErrorResponse{Success: false, Error: err})
}

// GetRequestID pulls the request ID the middleware stored in ctx, or "".
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(logger.RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// WriteErrorWithContext is WriteError with the request ID filled in from the
// request context.
func WriteErrorWithContext(w http.ResponseWriter, r *http.Request, err *Error) {
	if id := GetRequestID(r.Context()); id != "" {
		err = err.WithRequestID(id)
	}
	WriteError(w, err)
}

// Constructors for the errors handlers raise. Each takes an optional
// message; an empty string selects the default wording.

func withDefault(message, def string) string {
	if message == "" {
		return def
	}
	return message
}

// AuthMissing: no credentials were presented at all.
func AuthMissing(message string) *Error {
	return New(ErrAuthMissing, withDefault(message, "Access token required"), http.StatusUnauthorized)
}

// AuthInvalid: credentials were presented but rejected.
func AuthInvalid(message string) *Error {
	return New(ErrAuthInvalid, withDefault(message, "Invalid or expired token"), http.StatusForbidden)
}

func FactQueryFailed(message string) *Error {
	return New(ErrFactQueryFailed, withDefault(message, "Unable to fetch cat facts"), http.StatusInternalServerError)
}

func SearchInvalidQuery(message string) *Error {
	return New(ErrSearchInvalidQuery, withDefault(message, "Invalid search query"), http.StatusBadRequest)
}

func StatsFailed(message string) *Error {
	return New(ErrStatsFailed, withDefault(message, "Unable to compute fact statistics"), http.StatusInternalServerError)
}

func IngestFailed(message string) *Error {
	return New(ErrIngestFailed, withDefault(message, "Bulk ingestion failed"), http.StatusInternalServerError)
}

func IngestInvalidCount(message string) *Error {
	return New(ErrIngestInvalidCount, withDefault(message, "Count must be between 1 and 100"), http.StatusBadRequest)
}

func SystemInternal(message string) *Error {
	return New(ErrSystemInternal, withDefault(message, "Internal server error"), http.StatusInternalServerError)
}

func SystemDatabase(message string) *Error {
	return New(ErrSystemDatabase, withDefault(message, "Database error"), http.StatusInternalServerError)
}

func ValidationInvalidJSON() *Error {
	return New(ErrValidationInvalidJSON, "Invalid JSON request body", http.StatusBadRequest)
}

func ValidationMissingField(field string) *Error {
	return New(ErrValidationMissingField, "Missing required field: "+field, http.StatusBadRequest).
		WithDetails(map[string]interface{}{"field": field})
}

func ValidationInvalidValue(field, message string) *Error {
	return New(ErrValidationInvalidValue, withDefault(message, "Invalid value for field: "+field), http.StatusBadRequest).
		WithDetails(map[string]interface{}{"field": field})
}

func ResourceNotFound(resourceType string) *Error {
	return New(ErrResourceNotFound, resourceType+" not found", http.StatusNotFound).
		WithDetails(map[string]interface{}{"resource_type": resourceType})
}

func ResourceConflict(message string) *Error {
	return New(ErrResourceConflict, withDefault(message, "Resource already exists"), http.StatusConflict)
}

func RateLimitGlobal() *Error {
	return New(ErrRateLimitGlobal, "Rate limit exceeded - too many requests globally", http.StatusTooManyRequests)
}

func RateLimitIP() *Error {
	return New(ErrRateLimitIP, "Rate limit exceeded - too many requests from your IP", http.StatusTooManyRequests)
}
