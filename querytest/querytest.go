// Package querytest provides helpers to test code that runs SQL queries:
// a mock Querier, frame assertions and the books and authors fixtures.
package querytest

import (
	"context"
	"database/sql"
	"testing"

	"github.com/chaisql/sqlfixture/frame"
	"github.com/chaisql/sqlfixture/querier"
	"github.com/chaisql/sqlfixture/queryfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

var _ querier.Querier = (*Querier)(nil)

// Querier is a mock querier. It records every call and returns the
// configured frames instead of running the queries.
type Querier struct {
	mock.Mock
}

// NewQuerier returns a mock querier whose expectations are asserted
// when the test ends.
func NewQuerier(t testing.TB) *Querier {
	t.Helper()

	q := new(Querier)
	q.Test(t)
	t.Cleanup(func() {
		q.AssertExpectations(t)
	})
	return q
}

// Query records the call and returns the configured response.
func (q *Querier) Query(_ context.Context, query string) (*frame.Frame, error) {
	args := q.Called(query)

	var f *frame.Frame
	if v := args.Get(0); v != nil {
		f = v.(*frame.Frame)
	}
	return f, args.Error(1)
}

// Returns makes the next call with query return f.
func (q *Querier) Returns(query string, f *frame.Frame) *mock.Call {
	return q.On("Query", query).Return(f, nil).Once()
}

// Fails makes the next call with query return err.
func (q *Querier) Fails(query string, err error) *mock.Call {
	return q.On("Query", query).Return(nil, err).Once()
}

// AssertCalledOnceWith asserts that Query was called exactly once, with query.
func (q *Querier) AssertCalledOnceWith(t testing.TB, query string) bool {
	t.Helper()

	var calls []string
	for _, c := range q.Calls {
		if c.Method == "Query" {
			calls = append(calls, c.Arguments.String(0))
		}
	}

	return assert.Equal(t, []string{query}, calls, "Query must be called exactly once with the given SQL")
}

// RequireFrameEqual fails the test if got is not structurally identical to want.
func RequireFrameEqual(t testing.TB, want, got *frame.Frame, msgAndArgs ...any) {
	t.Helper()

	if err := frame.Compare(want, got); err != nil {
		require.Fail(t, err.Error()+"\n"+frame.Diff(want, got), msgAndArgs...)
	}
}

// LoadQuery reads the query stored at path or fails the test.
func LoadQuery(t testing.TB, path string) string {
	t.Helper()

	q, err := queryfile.Load(path)
	require.NoError(t, err)
	return q
}

// OpenSQLite returns an in-memory SQLite database holding the given tables.
// The database is closed when the test ends.
func OpenSQLite(t testing.TB, tables map[string]*frame.Frame) *sql.DB {
	t.Helper()

	db, err := querier.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	for name, f := range tables {
		err := querier.Seed(context.Background(), db, name, f, querier.Question)
		require.NoError(t, err)
	}

	return db
}
