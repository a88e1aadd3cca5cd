package dbutil

import (
	"context"
	"database/sql"

	"github.com/chaisql/sqlfixture/querier"
	"github.com/cockroachdb/errors"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// OpenDB opens the database and checks that it is reachable.
func OpenDB(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	if driver == "" {
		driver = "sqlite"
	}
	if dsn == "" && driver == "sqlite" {
		dsn = ":memory:"
	}

	db, err := querier.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "cannot connect to %s database", driver)
	}

	return db, nil
}
