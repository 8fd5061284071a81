package db

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"

	"github.com/whiskerlabs/catfacts-memory/backend/internal/metrics"
)

// DBTX is the minimal query interface satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// Queries bundles all store operations over a live connection or transaction.
type Queries struct {
	db DBTX
}

// New creates Queries over the given connection.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Init opens a Postgres connection, verifies it, and returns Queries.
func Init(connStr string) (*Queries, error) {
	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(); err != nil {
		return nil, err
	}

	return New(conn), nil
}

// DB exposes the underlying connection so callers can run raw SQL when needed.
func (q *Queries) DB() DBTX {
	return q.db
}

// SQLDB returns the raw connection when Queries wraps one, nil inside a
// transaction.
func (q *Queries) SQLDB() *sql.DB {
	conn, _ := q.db.(*sql.DB)
	return conn
}

// observe records operation latency; call via defer at the top of a query method.
func observe(op string, start time.Time) {
	metrics.DBOperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func observeErr(op string, err error) error {
	if err != nil {
		metrics.DBOperationErrors.WithLabelValues(op).Inc()
	}
	return err
}
