package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/whiskerlabs/catfacts-memory/backend/internal/cache"
)

// Status handles GET /api/cat-facts/status with a service-level snapshot:
// database reachability, cache counters, and process uptime.
func Status(dbConn Pinger, c cache.Cache, startedAt time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "ok"
		if err := dbConn.PingContext(ctx); err != nil {
			dbStatus = "unreachable"
		}

		stats := c.Stats()
		writeData(w, map[string]interface{}{
			"database":       dbStatus,
			"uptime_seconds": int64(time.Since(startedAt).Seconds()),
			"cache": map[string]interface{}{
				"items":  stats.Items,
				"hits":   stats.Hits,
				"misses": stats.Misses,
			},
		})
	}
}
