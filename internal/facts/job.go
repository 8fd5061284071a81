package facts

import (
	"context"
	"time"

	"github.com/whiskerlabs/catfacts-memory/backend/internal/logger"
)

// StatsJob periodically rebuilds the statistics snapshot so the extended
// stats TTL never forces an interactive request to pay for the aggregate
// queries.
type StatsJob struct {
	service  *Service
	interval time.Duration
}

func NewStatsJob(service *Service, interval time.Duration) *StatsJob {
	return &StatsJob{
		service:  service,
		interval: interval,
	}
}

func (j *StatsJob) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	// Warm immediately on start
	j.warm(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.warm(ctx)
		}
	}
}

// warm drops the cached snapshot and recomputes it.
func (j *StatsJob) warm(ctx context.Context) {
	j.service.cache.Delete(statsKey)
	if _, err := j.service.GetStatistics(ctx); err != nil {
		logger.WarnContext(ctx, "Statistics warm failed", "error", err)
	}
}
