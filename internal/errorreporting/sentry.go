// Package errorreporting wires Sentry with PII scrubbing. Player emails,
// session tokens, and client addresses must never leave the process inside
// an error event.
package errorreporting

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/getsentry/sentry-go"
)

var piiPatterns = []*regexp.Regexp{
	// player account emails
	regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`),
	// session JWTs in Authorization values
	regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9._-]{20,}`),
	// api keys and secrets in messages or query dumps
	regexp.MustCompile(`(?i)(api[_-]?key|token|secret)["\s:=]+[a-zA-Z0-9_-]{16,}`),
	// client IPv4 addresses
	regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`),
}

// Init configures Sentry. An empty DSN leaves reporting disabled; every
// Capture* call then no-ops.
func Init(dsn, environment string) error {
	if dsn == "" {
		return nil
	}

	sampleRate := 1.0
	if environment == "production" {
		sampleRate = 0.1
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		Release:          release(),
		TracesSampleRate: sampleRate,
		BeforeSend:       scrubEvent,
		AttachStacktrace: true,
	})
	if err != nil {
		return fmt.Errorf("sentry init: %w", err)
	}
	return nil
}

func release() string {
	for _, key := range []string{"SENTRY_RELEASE", "SERVICE_VERSION"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return "dev"
}

// scrubEvent runs as BeforeSend on every outgoing event.
func scrubEvent(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
	for i := range event.Exception {
		event.Exception[i].Value = ScrubPII(event.Exception[i].Value)
	}
	if event.Message != "" {
		event.Message = ScrubPII(event.Message)
	}
	for key, value := range event.Extra {
		if s, ok := value.(string); ok {
			event.Extra[key] = ScrubPII(s)
		}
	}

	if req := event.Request; req != nil {
		if req.Headers != nil {
			delete(req.Headers, "Authorization")
			delete(req.Headers, "Cookie")
		}
		// Search terms and tokens travel in query strings.
		req.QueryString = ""
	}

	return event
}

// ScrubPII redacts known PII shapes from text.
func ScrubPII(text string) string {
	for _, pattern := range piiPatterns {
		text = pattern.ReplaceAllString(text, "[REDACTED]")
	}
	return text
}

// CaptureError reports err to Sentry, if configured.
func CaptureError(err error) {
	if err == nil {
		return
	}
	sentry.CaptureException(err)
}

// CaptureErrorWithContext reports err with tags and extras attached to the
// event scope. Extras pass through the usual scrubbing.
func CaptureErrorWithContext(err error, tags map[string]string, extras map[string]interface{}) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		for k, v := range extras {
			scope.SetExtra(k, v)
		}
		sentry.CaptureException(err)
	})
}

// Flush blocks until buffered events are sent or the timeout passes.
func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}
