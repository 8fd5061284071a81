package facts

import (
	"context"
	"math"
	"time"

	"github.com/whiskerlabs/catfacts-memory/backend/internal/logger"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/metrics"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/utils"
)

// minErrorBudget is the floor on tolerated fetch failures per populate run.
const minErrorBudget = 5

// IngestResult summarizes one populate run.
type IngestResult struct {
	Imported       int     `json:"imported"`
	Duplicates     int     `json:"duplicates"`
	Errors         int     `json:"errors"`
	TotalRequested int     `json:"total_requested"`
	SuccessRate    float64 `json:"success_rate"`
	Aborted        bool    `json:"aborted"`
}

// ProgressEvent reports the outcome of one fetch-and-save cycle.
type ProgressEvent struct {
	Attempt    int    `json:"attempt"`
	Total      int    `json:"total"`
	Result     string `json:"result"`
	Imported   int    `json:"imported"`
	Duplicates int    `json:"duplicates"`
	Errors     int    `json:"errors"`
}

// Observer receives progress events during a populate run. Callbacks run on
// the ingest goroutine, so observers must not block.
type Observer func(ProgressEvent)

// errorBudget is the number of fetch failures after which a populate run
// aborts: at least minErrorBudget, or 10% of the requested count when that
// is larger.
func errorBudget(count int) int {
	pct := int(math.Ceil(float64(count) * 0.1))
	if pct > minErrorBudget {
		return pct
	}
	return minErrorBudget
}

// PopulateFromExternalAPI runs count sequential fetch-and-save cycles
// against the external source.
func (s *Service) PopulateFromExternalAPI(ctx context.Context, count int) (IngestResult, error) {
	return s.PopulateWithObserver(ctx, count, nil)
}

// PopulateWithObserver is PopulateFromExternalAPI with per-cycle progress
// reporting. Fetch pacing comes from the external client's rate limiter; at
// most count external calls are issued. The run aborts once fetch failures
// reach the error budget. Fact caches are cleared after every run, aborted
// or not, since any insert may have landed before the abort.
func (s *Service) PopulateWithObserver(ctx context.Context, count int, notify Observer) (IngestResult, error) {
	start := time.Now()
	budget := errorBudget(count)
	result := IngestResult{TotalRequested: count}

	log := logger.WithComponent("ingest")
	log.Info("Starting fact population", "count", count, "error_budget", budget)

	for attempt := 1; attempt <= count; attempt++ {
		if result.Errors >= budget {
			result.Aborted = true
			break
		}
		if ctx.Err() != nil {
			break
		}

		outcome := "imported"
		resp, err := s.external.RandomFact(ctx)
		if err != nil {
			result.Errors++
			outcome = "error"
			log.Warn("Fetch cycle failed", "attempt", attempt, "error", err)
		} else if s.saveFact(ctx, resp.Fact, int32(resp.Length)) {
			result.Imported++
		} else {
			result.Duplicates++
			outcome = "duplicate"
		}
		metrics.IngestFactsTotal.WithLabelValues(outcome).Inc()

		if notify != nil {
			notify(ProgressEvent{
				Attempt:    attempt,
				Total:      count,
				Result:     outcome,
				Imported:   result.Imported,
				Duplicates: result.Duplicates,
				Errors:     result.Errors,
			})
		}
	}

	s.ClearFactCaches()

	if count > 0 {
		result.SuccessRate = utils.Round2(float64(result.Imported+result.Duplicates) / float64(count) * 100)
	}

	runOutcome := "completed"
	if result.Aborted {
		runOutcome = "aborted"
	}
	metrics.IngestRunsTotal.WithLabelValues(runOutcome).Inc()
	metrics.IngestRunDuration.Observe(time.Since(start).Seconds())

	log.Info("Fact population finished",
		"imported", result.Imported,
		"duplicates", result.Duplicates,
		"errors", result.Errors,
		"aborted", result.Aborted,
		"success_rate", result.SuccessRate,
		"duration", time.Since(start).String(),
	)

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}
