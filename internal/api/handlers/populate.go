package handlers

import (
	"context"
	"net/http"

	"github.com/whiskerlabs/catfacts-memory/backend/internal/apierr"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/errorreporting"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/facts"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/logger"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
)

// Populator abstracts the bulk ingestion service for testability.
type Populator interface {
	PopulateWithObserver(ctx context.Context, count int, notify facts.Observer) (facts.IngestResult, error)
}

type populateRequest struct {
	Count int `json:"count"`
}

// PopulateFacts handles POST /api/cat-facts/populate (protected). The run is
// synchronous; clients wanting live progress use the websocket variant.
func PopulateFacts(svc Populator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracing.StartSpan(r.Context(), "handlers.PopulateFacts")
		defer span.End()

		count := 50
		if r.Body != nil && r.ContentLength != 0 {
			var req populateRequest
			if err := decodeJSON(r, &req); err != nil {
				apierr.WriteErrorWithContext(w, r, apierr.ValidationInvalidJSON())
				return
			}
			if req.Count != 0 {
				if req.Count < 1 || req.Count > 100 {
					apierr.WriteErrorWithContext(w, r,
						apierr.IngestInvalidCount("Count must be between 1 and 100"))
					return
				}
				count = req.Count
			}
		}
		span.SetAttributes(attribute.Int("count", count))

		logger.InfoContext(ctx, "Starting fact population", "count", count)

		result, err := svc.PopulateWithObserver(ctx, count, nil)
		if err != nil {
			logger.ErrorContext(ctx, "Fact population failed", "error", err)
			errorreporting.CaptureErrorWithContext(err,
				map[string]string{"component": "ingest"},
				map[string]interface{}{"count": count, "errors": result.Errors})
			apierr.WriteErrorWithContext(w, r, apierr.IngestFailed("Population run failed"))
			return
		}

		span.SetAttributes(
			attribute.Int("imported", result.Imported),
			attribute.Int("duplicates", result.Duplicates),
			attribute.Int("errors", result.Errors),
		)

		writeJSON(w, http.StatusOK, envelope{
			Success: true,
			Message: "Successfully populated cat facts database",
			Data:    result,
		})
	}
}
