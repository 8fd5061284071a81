package cache

import "time"

// Cache is a process-local key→value store with per-entry expiry. The fact
// service keeps serialized payloads here (the random-fact pool, search
// results, the statistics snapshot); entries are rebuilt lazily from the
// database on miss.
type Cache interface {
	// Get returns the value for key, or nil and false when the key was
	// never set or its entry has expired.
	Get(key string) ([]byte, bool)

	// Set stores value under key with expiry now+ttl, replacing any
	// existing entry. A ttl of 0 uses the cache's default TTL.
	Set(key string, value []byte, ttl time.Duration)

	// Delete removes the entry for key, if any.
	Delete(key string)

	// Clear drops every entry immediately.
	Clear()

	// Stats reports cumulative counters and the current entry count.
	Stats() Stats
}

// Stats is a point-in-time snapshot of cache counters, surfaced by the
// status and cache-admin endpoints.
type Stats struct {
	Hits      uint64
	Misses    uint64
	KeysAdded uint64
	Evictions uint64
	Size      int64 // approximate size in bytes
	Items     int64
}
