package handlers

import (
	"net/http"

	"github.com/whiskerlabs/catfacts-memory/backend/internal/cache"
)

// CacheAdminHandler handles cache administration endpoints.
type CacheAdminHandler struct {
	cache   cache.Cache
	onClear func()
}

// NewCacheAdminHandler creates a new cache admin handler. onClear, if set,
// runs after a manual invalidation so the fact service can record it.
func NewCacheAdminHandler(c cache.Cache, onClear func()) *CacheAdminHandler {
	return &CacheAdminHandler{cache: c, onClear: onClear}
}

// InvalidateCache clears all entries from the cache.
// POST /api/admin/cache/invalidate
func (h *CacheAdminHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	h.cache.Clear()
	if h.onClear != nil {
		h.onClear()
	}

	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: "Cache invalidated successfully",
	})
}

// GetCacheStats returns current cache statistics.
// GET /api/admin/cache/stats
func (h *CacheAdminHandler) GetCacheStats(w http.ResponseWriter, r *http.Request) {
	stats := h.cache.Stats()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"hits":      stats.Hits,
		"misses":    stats.Misses,
		"keysAdded": stats.KeysAdded,
		"evictions": stats.Evictions,
		"sizeBytes": stats.Size,
		"items":     stats.Items,
	})
}
