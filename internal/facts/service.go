package facts

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/whiskerlabs/catfacts-memory/backend/internal/cache"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/catfact"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/db"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/logger"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/metrics"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/utils"
)

const (
	randomPoolKey = "random_fact_pool"
	statsKey      = "cat_facts_detailed_stats"
	searchKeyBase = "search_facts_"

	// poolSize is how many active facts one store round-trip fetches for
	// the random pool; picks are then served out of cache until the pool
	// entry expires.
	poolSize = 20

	// maxFactResults caps multi-fact reads regardless of what the caller asks for.
	maxFactResults = 50
)

// fallbackFact is returned by GetFromExternalAPI when the external source
// is unreachable; this operation never fails outward.
var fallbackFact = ExternalFact{
	Fact:   "Cats have been domesticated for over 4,000 years! 🐱",
	Length: 56,
	Source: "fallback",
}

// Store is the subset of db.Queries the fact service depends on.
type Store interface {
	ListRandomActiveFacts(ctx context.Context, limit int32) ([]db.CatFact, error)
	SearchActiveFacts(ctx context.Context, arg db.SearchActiveFactsParams) ([]db.CatFact, error)
	InsertFact(ctx context.Context, arg db.InsertFactParams) (int64, error)
	GetFactSummary(ctx context.Context) (db.FactSummaryRow, error)
	GetFactLengthBuckets(ctx context.Context) ([]db.FactLengthBucketRow, error)
	SetFactStatusByIDs(ctx context.Context, arg db.SetFactStatusParams) (int64, error)
	ListFacts(ctx context.Context, arg db.ListFactsParams) ([]db.CatFact, error)
	CountFacts(ctx context.Context, activeOnly bool) (int64, error)
}

// Fetcher fetches a single random fact from the external source.
type Fetcher interface {
	RandomFact(ctx context.Context) (catfact.Response, error)
}

// Fact is the wire shape for a single fact.
type Fact struct {
	ID     int32  `json:"id"`
	Fact   string `json:"fact"`
	Length int32  `json:"length"`
}

// ExternalFact is a fact served from the external source or the fallback.
type ExternalFact struct {
	Fact   string `json:"fact"`
	Length int    `json:"length"`
	Source string `json:"source"`
}

// Distribution buckets active facts by text length.
type Distribution struct {
	Short  int64 `json:"short"`
	Medium int64 `json:"medium"`
	Long   int64 `json:"long"`
}

// Statistics is the derived read-only aggregate over the fact population.
type Statistics struct {
	Total              int64        `json:"total"`
	Active             int64        `json:"active"`
	Inactive           int64        `json:"inactive"`
	AverageLength      float64      `json:"average_length"`
	MinLength          int32        `json:"min_length"`
	MaxLength          int32        `json:"max_length"`
	LengthDistribution Distribution `json:"length_distribution"`
}

// Pagination describes one page of a fact listing.
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// ListResult is a paginated fact listing.
type ListResult struct {
	Facts      []db.CatFact `json:"facts"`
	Pagination Pagination   `json:"pagination"`
}

// Service mediates between HTTP handlers and the store, cache, and external
// fact source for all fact-related behavior. Construct with NewService and
// share one instance for the process lifetime.
type Service struct {
	store    Store
	cache    cache.Cache
	external Fetcher
	factTTL  time.Duration
	statsTTL time.Duration
}

// Config carries the service's tunables.
type Config struct {
	FactCacheTTL  time.Duration
	StatsCacheTTL time.Duration
}

// NewService creates a fact service over the given collaborators.
func NewService(store Store, c cache.Cache, external Fetcher, cfg Config) *Service {
	if cfg.FactCacheTTL <= 0 {
		cfg.FactCacheTTL = 5 * time.Minute
	}
	if cfg.StatsCacheTTL <= 0 {
		cfg.StatsCacheTTL = time.Hour
	}
	return &Service{
		store:    store,
		cache:    c,
		external: external,
		factTTL:  cfg.FactCacheTTL,
		statsTTL: cfg.StatsCacheTTL,
	}
}

func toFact(f db.CatFact) Fact {
	return Fact{ID: f.ID, Fact: f.Fact, Length: f.Length}
}

func toFacts(rows []db.CatFact) []Fact {
	out := make([]Fact, 0, len(rows))
	for _, f := range rows {
		out = append(out, toFact(f))
	}
	return out
}

// GetRandomFact returns one active fact, or false when none are available.
// It serves picks out of a cached pool of up to 20 facts and only hits the
// store when the pool entry has expired. Store errors degrade to absent;
// callers should fall back to the external source rather than treat absent
// as a confirmed empty store.
func (s *Service) GetRandomFact(ctx context.Context) (Fact, bool) {
	var pool []Fact

	if data, ok := s.cache.Get(randomPoolKey); ok {
		if err := json.Unmarshal(data, &pool); err != nil {
			pool = nil
		}
	}
	if pool != nil {
		metrics.FactCacheHits.WithLabelValues("random_fact").Inc()
	} else {
		metrics.FactCacheMisses.WithLabelValues("random_fact").Inc()
		rows, err := s.store.ListRandomActiveFacts(ctx, poolSize)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to load random fact pool", "error", err)
			return Fact{}, false
		}
		if len(rows) > 0 {
			pool = toFacts(rows)
			if data, err := json.Marshal(pool); err == nil {
				s.cache.Set(randomPoolKey, data, s.factTTL)
			}
		}
	}

	if len(pool) == 0 {
		return Fact{}, false
	}
	return pool[rand.Intn(len(pool))], true
}

// GetMultipleRandomFacts returns up to min(count, 50) active facts in random
// order, bypassing the cache. A non-positive count or a store error yields
// an empty list.
func (s *Service) GetMultipleRandomFacts(ctx context.Context, count int) []Fact {
	if count <= 0 {
		return []Fact{}
	}
	if count > maxFactResults {
		count = maxFactResults
	}
	rows, err := s.store.ListRandomActiveFacts(ctx, int32(count))
	if err != nil {
		logger.ErrorContext(ctx, "Failed to fetch random facts", "error", err, "count", count)
		return []Fact{}
	}
	return toFacts(rows)
}

// searchCacheKey derives a collision-free cache key from the raw query and limit.
func searchCacheKey(query string, limit int) string {
	return searchKeyBase + base64.StdEncoding.EncodeToString([]byte(query)) + "_" + strconv.Itoa(limit)
}

// SearchFacts performs a substring match against active facts, ordered by
// ascending length, returning up to min(limit, 50) results. Identical
// query/limit pairs are served from cache for the standard TTL. Store errors
// degrade to an empty list.
func (s *Service) SearchFacts(ctx context.Context, query string, limit int) []Fact {
	if limit <= 0 {
		return []Fact{}
	}
	if limit > maxFactResults {
		limit = maxFactResults
	}

	key := searchCacheKey(query, limit)
	if data, ok := s.cache.Get(key); ok {
		var results []Fact
		if err := json.Unmarshal(data, &results); err == nil {
			metrics.FactCacheHits.WithLabelValues("search").Inc()
			return results
		}
	}
	metrics.FactCacheMisses.WithLabelValues("search").Inc()

	rows, err := s.store.SearchActiveFacts(ctx, db.SearchActiveFactsParams{
		Query: query,
		Limit: int32(limit),
	})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to search facts", "error", err, "query", query)
		return []Fact{}
	}

	results := toFacts(rows)
	if data, err := json.Marshal(results); err == nil {
		s.cache.Set(key, data, s.factTTL)
	}
	return results
}

// GetStatistics returns the statistics snapshot, cached for the extended
// stats TTL. The summary aggregate and the length histogram are queried
// concurrently on a miss. Unlike the degrade-to-empty read paths, store
// failures here propagate: there is no safe default statistics value.
func (s *Service) GetStatistics(ctx context.Context) (Statistics, error) {
	if data, ok := s.cache.Get(statsKey); ok {
		var stats Statistics
		if err := json.Unmarshal(data, &stats); err == nil {
			metrics.FactCacheHits.WithLabelValues("statistics").Inc()
			return stats, nil
		}
	}
	metrics.FactCacheMisses.WithLabelValues("statistics").Inc()

	var (
		wg         sync.WaitGroup
		summary    db.FactSummaryRow
		buckets    []db.FactLengthBucketRow
		summaryErr error
		bucketsErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		summary, summaryErr = s.store.GetFactSummary(ctx)
	}()
	go func() {
		defer wg.Done()
		buckets, bucketsErr = s.store.GetFactLengthBuckets(ctx)
	}()
	wg.Wait()

	if summaryErr != nil {
		return Statistics{}, summaryErr
	}
	if bucketsErr != nil {
		return Statistics{}, bucketsErr
	}

	stats := Statistics{
		Total:         summary.TotalFacts,
		Active:        summary.ActiveFacts,
		Inactive:      summary.InactiveFacts,
		AverageLength: utils.Round2(summary.AvgLength),
		MinLength:     summary.MinLength,
		MaxLength:     summary.MaxLength,
	}
	for _, b := range buckets {
		switch b.Category {
		case "short":
			stats.LengthDistribution.Short = b.Count
		case "medium":
			stats.LengthDistribution.Medium = b.Count
		case "long":
			stats.LengthDistribution.Long = b.Count
		}
	}

	if data, err := json.Marshal(stats); err == nil {
		s.cache.Set(statsKey, data, s.statsTTL)
	}
	return stats, nil
}

// GetFromExternalAPI fetches one fact from the external source. The fact is
// persisted best-effort; a save failure does not fail the call. Any fetch
// failure yields the fixed fallback fact, so this operation never fails outward.
func (s *Service) GetFromExternalAPI(ctx context.Context) ExternalFact {
	resp, err := s.external.RandomFact(ctx)
	if err != nil {
		logger.WarnContext(ctx, "External fact API unavailable, serving fallback", "error", err)
		return fallbackFact
	}

	s.saveFact(ctx, resp.Fact, int32(resp.Length))

	return ExternalFact{
		Fact:   resp.Fact,
		Length: resp.Length,
		Source: "external_api",
	}
}

// saveFact trims and persists a fact, treating duplicate text as a no-op.
// Returns true only when a new row was inserted. Store errors are logged
// and reported as not-inserted.
func (s *Service) saveFact(ctx context.Context, text string, length int32) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	n, err := s.store.InsertFact(ctx, db.InsertFactParams{Fact: text, Length: length})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to save fact", "error", err)
		return false
	}
	return n > 0
}

// ClearFactCaches deletes the named fact entries and then flushes the whole
// cache. Search keys are not individually tracked, so the full flush is the
// only way to purge them.
func (s *Service) ClearFactCaches() {
	s.cache.Delete(randomPoolKey)
	s.cache.Delete(statsKey)
	s.cache.Clear()
	metrics.FactCacheInvalidations.Inc()
}

// BatchUpdateFactStatus toggles the active flag for the given fact ids and
// returns the number of rows changed. Caches are invalidated only when at
// least one row changed. Store errors degrade to zero rows.
func (s *Service) BatchUpdateFactStatus(ctx context.Context, ids []int32, active bool) int64 {
	ids = utils.UniqueInts(ids)
	if len(ids) == 0 {
		return 0
	}
	n, err := s.store.SetFactStatusByIDs(ctx, db.SetFactStatusParams{IsActive: active, IDs: ids})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to batch update fact status", "error", err, "ids", len(ids))
		return 0
	}
	if n > 0 {
		s.ClearFactCaches()
	}
	return n
}

// ListFacts returns one newest-first page of facts plus pagination metadata.
// Rows and the total count are queried concurrently. Store failures propagate.
func (s *Service) ListFacts(ctx context.Context, page, limit int, activeOnly bool) (ListResult, error) {
	if page < 1 {
		page = 1
	}
	limit = utils.ClampInt(limit, 1, 100)
	offset := (page - 1) * limit

	var (
		wg       sync.WaitGroup
		rows     []db.CatFact
		total    int64
		rowsErr  error
		countErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		rows, rowsErr = s.store.ListFacts(ctx, db.ListFactsParams{
			ActiveOnly: activeOnly,
			Limit:      int32(limit),
			Offset:     int32(offset),
		})
	}()
	go func() {
		defer wg.Done()
		total, countErr = s.store.CountFacts(ctx, activeOnly)
	}()
	wg.Wait()

	if rowsErr != nil {
		return ListResult{}, rowsErr
	}
	if countErr != nil {
		return ListResult{}, countErr
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	if rows == nil {
		rows = []db.CatFact{}
	}
	return ListResult{
		Facts: rows,
		Pagination: Pagination{
			CurrentPage: page,
			PerPage:     limit,
			Total:       total,
			TotalPages:  totalPages,
			HasNext:     page < totalPages,
			HasPrev:     page > 1,
		},
	}, nil
}
