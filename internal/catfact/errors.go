package catfact

import (
	"encoding/json"
	"io"
	"net/http"
)

// ErrorType represents different classes of external fact API errors
type ErrorType int

const (
	ErrorUnknown ErrorType = iota
	ErrorRateLimited
	ErrorNotFound
	ErrorServerError
	ErrorBadRequest
	ErrorEmptyFact
)

// APIError represents an external fact API error with additional context
type APIError struct {
	Type       ErrorType
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// errorBody is the JSON shape some providers return on error responses
type errorBody struct {
	Message string `json:"message"`
}

// ClassifyError determines the type of error from a non-200 HTTP response.
// The response body is consumed; callers should not read it again.
func ClassifyError(resp *http.Response) *APIError {
	if resp == nil {
		return &APIError{Type: ErrorUnknown, Message: "nil response"}
	}

	var body errorBody
	if resp.Body != nil {
		if b, err := io.ReadAll(resp.Body); err == nil {
			_ = json.Unmarshal(b, &body)
		}
	}

	apiErr := &APIError{StatusCode: resp.StatusCode, Type: ErrorUnknown}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		apiErr.Type = ErrorRateLimited
		apiErr.Message = "rate limited by fact API"
	case resp.StatusCode == http.StatusNotFound:
		apiErr.Type = ErrorNotFound
		apiErr.Message = "fact endpoint not found (404)"
	case resp.StatusCode >= 500:
		apiErr.Type = ErrorServerError
		apiErr.Message = "fact API server error"
	case resp.StatusCode >= 400:
		apiErr.Type = ErrorBadRequest
		apiErr.Message = "fact API client error"
	default:
		apiErr.Message = "unexpected fact API status " + resp.Status
	}

	if body.Message != "" {
		apiErr.Message += ": " + body.Message
	}

	return apiErr
}
