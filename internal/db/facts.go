package db

import (
	"context"
	"time"

	"github.com/lib/pq"
)

const factColumns = "id, fact, length, is_active, created_at, updated_at"

func scanFacts(ctx context.Context, q *Queries, query string, args ...interface{}) ([]CatFact, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var facts []CatFact
	for rows.Next() {
		var f CatFact
		if err := rows.Scan(&f.ID, &f.Fact, &f.Length, &f.IsActive, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		facts = append(facts, f)
	}
	return facts, rows.Err()
}

// ListRandomActiveFacts returns up to limit active facts in store-defined random order.
func (q *Queries) ListRandomActiveFacts(ctx context.Context, limit int32) ([]CatFact, error) {
	defer observe("list_random_active_facts", time.Now())
	facts, err := scanFacts(ctx, q,
		"SELECT "+factColumns+" FROM cat_facts WHERE is_active ORDER BY random() LIMIT $1",
		limit)
	return facts, observeErr("list_random_active_facts", err)
}

type SearchActiveFactsParams struct {
	Query string
	Limit int32
}

// SearchActiveFacts performs a substring match against active facts,
// ordered by ascending fact length.
func (q *Queries) SearchActiveFacts(ctx context.Context, arg SearchActiveFactsParams) ([]CatFact, error) {
	defer observe("search_active_facts", time.Now())
	facts, err := scanFacts(ctx, q,
		"SELECT "+factColumns+" FROM cat_facts WHERE is_active AND position($1 in fact) > 0 ORDER BY length LIMIT $2",
		arg.Query, arg.Limit)
	return facts, observeErr("search_active_facts", err)
}

type InsertFactParams struct {
	Fact   string
	Length int32
}

// InsertFact inserts a new fact, relying on the uniqueness constraint on fact
// text to reject duplicates. Returns the number of rows inserted (0 or 1).
func (q *Queries) InsertFact(ctx context.Context, arg InsertFactParams) (int64, error) {
	defer observe("insert_fact", time.Now())
	res, err := q.db.ExecContext(ctx,
		"INSERT INTO cat_facts (fact, length, is_active) VALUES ($1, $2, true) ON CONFLICT (fact) DO NOTHING",
		arg.Fact, arg.Length)
	if err != nil {
		return 0, observeErr("insert_fact", err)
	}
	n, err := res.RowsAffected()
	return n, observeErr("insert_fact", err)
}

// GetFactSummary returns counts and length aggregates over the fact population.
// Length aggregates cover active facts only and default to zero on an empty table.
func (q *Queries) GetFactSummary(ctx context.Context) (FactSummaryRow, error) {
	defer observe("get_fact_summary", time.Now())
	const stmt = `
		SELECT
		  COUNT(*),
		  COUNT(*) FILTER (WHERE is_active),
		  COUNT(*) FILTER (WHERE NOT is_active),
		  COALESCE(AVG(length) FILTER (WHERE is_active), 0),
		  COALESCE(MIN(length) FILTER (WHERE is_active), 0),
		  COALESCE(MAX(length) FILTER (WHERE is_active), 0)
		FROM cat_facts`
	var row FactSummaryRow
	err := q.db.QueryRowContext(ctx, stmt).Scan(
		&row.TotalFacts, &row.ActiveFacts, &row.InactiveFacts,
		&row.AvgLength, &row.MinLength, &row.MaxLength)
	return row, observeErr("get_fact_summary", err)
}

// GetFactLengthBuckets returns the count of active facts per length category:
// short (<50), medium (50-149), long (>=150).
func (q *Queries) GetFactLengthBuckets(ctx context.Context) ([]FactLengthBucketRow, error) {
	defer observe("get_fact_length_buckets", time.Now())
	const stmt = `
		SELECT
		  CASE
		    WHEN length < 50 THEN 'short'
		    WHEN length < 150 THEN 'medium'
		    ELSE 'long'
		  END AS length_category,
		  COUNT(*)
		FROM cat_facts
		WHERE is_active
		GROUP BY length_category`
	rows, err := q.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, observeErr("get_fact_length_buckets", err)
	}
	defer rows.Close()

	var buckets []FactLengthBucketRow
	for rows.Next() {
		var b FactLengthBucketRow
		if err := rows.Scan(&b.Category, &b.Count); err != nil {
			return nil, observeErr("get_fact_length_buckets", err)
		}
		buckets = append(buckets, b)
	}
	return buckets, observeErr("get_fact_length_buckets", rows.Err())
}

type SetFactStatusParams struct {
	IsActive bool
	IDs      []int32
}

// SetFactStatusByIDs toggles the active flag in bulk; returns rows changed.
func (q *Queries) SetFactStatusByIDs(ctx context.Context, arg SetFactStatusParams) (int64, error) {
	defer observe("set_fact_status", time.Now())
	res, err := q.db.ExecContext(ctx,
		"UPDATE cat_facts SET is_active = $1, updated_at = now() WHERE id = ANY($2)",
		arg.IsActive, pq.Array(arg.IDs))
	if err != nil {
		return 0, observeErr("set_fact_status", err)
	}
	n, err := res.RowsAffected()
	return n, observeErr("set_fact_status", err)
}

type ListFactsParams struct {
	ActiveOnly bool
	Limit      int32
	Offset     int32
}

// ListFacts returns a newest-first page of facts, optionally active ones only.
func (q *Queries) ListFacts(ctx context.Context, arg ListFactsParams) ([]CatFact, error) {
	defer observe("list_facts", time.Now())
	facts, err := scanFacts(ctx, q,
		"SELECT "+factColumns+" FROM cat_facts WHERE (NOT $1 OR is_active) ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		arg.ActiveOnly, arg.Limit, arg.Offset)
	return facts, observeErr("list_facts", err)
}

// CountFacts returns the total number of facts, optionally active ones only.
func (q *Queries) CountFacts(ctx context.Context, activeOnly bool) (int64, error) {
	defer observe("count_facts", time.Now())
	var n int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM cat_facts WHERE (NOT $1 OR is_active)", activeOnly).Scan(&n)
	return n, observeErr("count_facts", err)
}
