// Package querier runs SQL queries and returns their result as a frame.
package querier

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/chaisql/sqlfixture/frame"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// A Querier runs a query and returns its result.
// Implementations must pass the query string to the database unchanged.
type Querier interface {
	Query(ctx context.Context, query string) (*frame.Frame, error)
}

// QuerierFunc is a function implementing Querier.
type QuerierFunc func(ctx context.Context, query string) (*frame.Frame, error)

// Query calls fn.
func (fn QuerierFunc) Query(ctx context.Context, query string) (*frame.Frame, error) {
	return fn(ctx, query)
}

// DB is a Querier backed by a database/sql handle.
type DB struct {
	db     *sql.DB
	logger *zap.Logger
}

// Option configures a DB.
type Option func(*DB)

// WithLogger sets the logger used to trace queries.
func WithLogger(logger *zap.Logger) Option {
	return func(d *DB) {
		d.logger = logger
	}
}

// New returns a Querier running queries on db.
func New(db *sql.DB, opts ...Option) *DB {
	d := DB{
		db:     db,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&d)
	}
	return &d
}

// Query runs the query and scans every row.
func (d *DB) Query(ctx context.Context, query string) (*frame.Frame, error) {
	start := time.Now()
	d.logger.Debug("running query", zap.String("query", query))

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrapf(err, "query %q failed", query)
	}
	defer rows.Close()

	f, err := Scan(rows)
	if err != nil {
		return nil, errors.Wrapf(err, "query %q failed", query)
	}

	d.logger.Debug("query done",
		zap.Int("rows", f.Len()),
		zap.Int("columns", f.Width()),
		zap.Duration("duration", time.Since(start)))
	return f, nil
}

// Open opens a database without checking connectivity.
// In-memory SQLite databases are limited to a single connection, since each
// connection would otherwise see its own empty database.
func Open(driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open %s database", driver)
	}

	if driver == "sqlite" && isMemoryDSN(dsn) {
		db.SetMaxOpenConns(1)
	}

	return db, nil
}

func isMemoryDSN(dsn string) bool {
	return dsn == "" || strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}
