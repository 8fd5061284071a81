package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/whiskerlabs/catfacts-memory/backend/internal/apierr"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/errorreporting"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/facts"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
)

// FactService abstracts the fact service for testability.
type FactService interface {
	GetRandomFact(ctx context.Context) (facts.Fact, bool)
	GetMultipleRandomFacts(ctx context.Context, count int) []facts.Fact
	SearchFacts(ctx context.Context, query string, limit int) []facts.Fact
	GetStatistics(ctx context.Context) (facts.Statistics, error)
	GetFromExternalAPI(ctx context.Context) facts.ExternalFact
	ListFacts(ctx context.Context, page, limit int, activeOnly bool) (facts.ListResult, error)
	BatchUpdateFactStatus(ctx context.Context, ids []int32, active bool) int64
}

// GetRandomFact handles GET /api/cat-facts/random. The store is tried first;
// an empty or unreachable store falls through to the external source, which
// itself falls back to a canned fact, so this endpoint always answers 200.
func GetRandomFact(svc FactService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracing.StartSpan(r.Context(), "handlers.GetRandomFact")
		defer span.End()

		if fact, ok := svc.GetRandomFact(ctx); ok {
			span.SetAttributes(attribute.String("source", "database"))
			writeData(w, map[string]interface{}{
				"fact":   fact.Fact,
				"length": fact.Length,
				"source": "database",
			})
			return
		}

		external := svc.GetFromExternalAPI(ctx)
		span.SetAttributes(attribute.String("source", external.Source))
		writeData(w, external)
	}
}

// GetMultipleRandomFacts handles GET /api/cat-facts/random-multiple?count=N.
func GetMultipleRandomFacts(svc FactService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracing.StartSpan(r.Context(), "handlers.GetMultipleRandomFacts")
		defer span.End()

		count := 5
		if v := r.URL.Query().Get("count"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > 20 {
				apierr.WriteErrorWithContext(w, r,
					apierr.ValidationInvalidValue("count", "Count must be between 1 and 20"))
				return
			}
			count = n
		}
		span.SetAttributes(attribute.Int("count", count))

		results := svc.GetMultipleRandomFacts(ctx, count)
		if len(results) == 0 {
			writeJSON(w, http.StatusNotFound, envelope{
				Success: false,
				Message: "No cat facts available",
				Data:    []facts.Fact{},
			})
			return
		}

		writeData(w, map[string]interface{}{
			"facts":  results,
			"count":  len(results),
			"source": "database",
		})
	}
}

// SearchFacts handles GET /api/cat-facts/search?query=...&limit=N.
func SearchFacts(svc FactService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracing.StartSpan(r.Context(), "handlers.SearchFacts")
		defer span.End()

		query := strings.TrimSpace(r.URL.Query().Get("query"))
		if n := utf8.RuneCountInString(query); n < 2 || n > 100 {
			apierr.WriteErrorWithContext(w, r,
				apierr.SearchInvalidQuery("Query must be between 2 and 100 characters"))
			return
		}

		limit := 10
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > 50 {
				apierr.WriteErrorWithContext(w, r,
					apierr.ValidationInvalidValue("limit", "Limit must be between 1 and 50"))
				return
			}
			limit = n
		}

		span.SetAttributes(
			attribute.String("search_query", query),
			attribute.Int("limit", limit),
		)

		results := svc.SearchFacts(ctx, query, limit)
		span.SetAttributes(attribute.Int("results_count", len(results)))

		writeData(w, map[string]interface{}{
			"facts": results,
			"count": len(results),
			"query": query,
		})
	}
}

// GetStatistics handles GET /api/cat-facts/statistics.
func GetStatistics(svc FactService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracing.StartSpan(r.Context(), "handlers.GetStatistics")
		defer span.End()

		stats, err := svc.GetStatistics(ctx)
		if err != nil {
			errorreporting.CaptureError(err)
			apierr.WriteErrorWithContext(w, r, apierr.StatsFailed("Unable to compute statistics"))
			return
		}
		writeData(w, stats)
	}
}

// GetAllFacts handles GET /api/cat-facts with pagination.
func GetAllFacts(svc FactService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracing.StartSpan(r.Context(), "handlers.GetAllFacts")
		defer span.End()

		limit := 10
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > 100 {
				apierr.WriteErrorWithContext(w, r,
					apierr.ValidationInvalidValue("limit", "Limit must be between 1 and 100"))
				return
			}
			limit = n
		}

		page := 1
		if v := r.URL.Query().Get("page"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				apierr.WriteErrorWithContext(w, r,
					apierr.ValidationInvalidValue("page", "Page must be at least 1"))
				return
			}
			page = n
		}

		// Inactive facts are hidden unless explicitly requested.
		activeOnly := r.URL.Query().Get("active") != "false"

		result, err := svc.ListFacts(ctx, page, limit, activeOnly)
		if err != nil {
			apierr.WriteErrorWithContext(w, r, apierr.FactQueryFailed("Unable to list facts"))
			return
		}
		span.SetAttributes(attribute.Int("results_count", len(result.Facts)))
		writeData(w, result)
	}
}

type batchStatusRequest struct {
	IDs    []int32 `json:"ids"`
	Active *bool   `json:"active"`
}

// BatchUpdateFactStatus handles PATCH /api/cat-facts/status (protected).
func BatchUpdateFactStatus(svc FactService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracing.StartSpan(r.Context(), "handlers.BatchUpdateFactStatus")
		defer span.End()

		var req batchStatusRequest
		if err := decodeJSON(r, &req); err != nil {
			apierr.WriteErrorWithContext(w, r, apierr.ValidationInvalidJSON())
			return
		}
		if len(req.IDs) == 0 {
			apierr.WriteErrorWithContext(w, r, apierr.ValidationMissingField("ids"))
			return
		}
		if req.Active == nil {
			apierr.WriteErrorWithContext(w, r, apierr.ValidationMissingField("active"))
			return
		}

		updated := svc.BatchUpdateFactStatus(ctx, req.IDs, *req.Active)
		span.SetAttributes(attribute.Int("updated", int(updated)))
		writeData(w, map[string]interface{}{
			"updated": updated,
			"active":  *req.Active,
		})
	}
}
