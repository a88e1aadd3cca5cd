/*
Package sqlfixture checks SQL query files against the database they target.

A query is kept in its own file, loaded as is and sent unchanged to a Querier.
The returned frame is then compared with an expected frame: same column names
in the same order, same column types, same values and same row order.

	q, err := queryfile.Load("queries/books_query.sql")
	...
	got, err := querier.New(db).Query(ctx, q)
	...
	err = frame.Compare(want, got)

Check performs the three steps at once.

Frames, query files and queriers

The frame package defines the tabular values exchanged with the database and
the operations used to build expectations: Select, Merge and Compare.
The queryfile package loads query files, alone or from a directory.
The querier package runs queries through database/sql and seeds tables.

Tests

The querytest package provides a mock Querier built on testify, frame
assertions and the books and authors fixtures used by the tests of this
repository. For suites described in a YAML file, see the sqlfixture command.
*/
package sqlfixture

import (
	"context"

	"github.com/chaisql/sqlfixture/frame"
	"github.com/chaisql/sqlfixture/querier"
	"github.com/chaisql/sqlfixture/queryfile"
	"github.com/cockroachdb/errors"
)

// Check loads the query stored at path, runs it with q and compares the
// result with want. A missing file is reported before q is called, with an
// error matching queryfile.ErrNotFound. A result that differs from want is
// reported with a *frame.MismatchError.
func Check(ctx context.Context, q querier.Querier, path string, want *frame.Frame, opts ...frame.CompareOption) error {
	query, err := queryfile.Load(path)
	if err != nil {
		return err
	}

	got, err := q.Query(ctx, query)
	if err != nil {
		return err
	}

	if err := frame.Compare(want, got, opts...); err != nil {
		return errors.Wrapf(err, "%s", path)
	}

	return nil
}
