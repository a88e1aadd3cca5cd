package querier

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/chaisql/sqlfixture/frame"
	"github.com/cockroachdb/errors"
)

// Placeholder is the bind parameter syntax of a driver.
type Placeholder int

const (
	// Question uses "?" for every parameter.
	Question Placeholder = iota
	// Dollar uses "$1", "$2", ...
	Dollar
)

// PlaceholderFor returns the placeholder style of the named driver.
func PlaceholderFor(driver string) Placeholder {
	switch driver {
	case "postgres", "pgx":
		return Dollar
	}
	return Question
}

func (p Placeholder) format(n int) string {
	if p == Dollar {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// Seed creates the table and inserts every row of f, in a single transaction.
func Seed(ctx context.Context, db *sql.DB, table string, f *frame.Frame, p Placeholder) error {
	if f.Width() == 0 {
		return errors.Newf("cannot seed table %q without columns", table)
	}

	names := f.Names()
	defs := make([]string, len(names))
	cols := make([]string, len(names))
	params := make([]string, len(names))
	for i, t := range f.Types() {
		cols[i] = quoteIdent(names[i])
		defs[i] = cols[i] + " " + sqlType(t)
		params[i] = p.format(i + 1)
	}

	create := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table), strings.Join(defs, ", "))
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quoteIdent(table), strings.Join(cols, ", "), strings.Join(params, ", "))

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.WithStack(err)
	}

	err = func() error {
		if _, err := tx.ExecContext(ctx, create); err != nil {
			return errors.Wrapf(err, "cannot create table %q", table)
		}

		for i, row := range f.Rows() {
			if _, err := tx.ExecContext(ctx, insert, row...); err != nil {
				return errors.Wrapf(err, "cannot insert row %d into %q", i, table)
			}
		}
		return nil
	}()
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	return errors.WithStack(tx.Commit())
}

func sqlType(t frame.Type) string {
	switch t {
	case frame.TypeBigint:
		return "BIGINT"
	case frame.TypeDouble:
		return "DOUBLE PRECISION"
	case frame.TypeBoolean:
		return "BOOLEAN"
	}
	return "TEXT"
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
