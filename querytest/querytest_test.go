package querytest_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/chaisql/sqlfixture/frame"
	"github.com/chaisql/sqlfixture/querier"
	"github.com/chaisql/sqlfixture/querytest"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestQuerier(t *testing.T) {
	q := querytest.NewQuerier(t)
	q.Returns("SELECT 1", querytest.Books())

	got, err := q.Query(context.Background(), "SELECT 1")
	require.NoError(t, err)
	querytest.RequireFrameEqual(t, querytest.Books(), got)
	q.AssertCalledOnceWith(t, "SELECT 1")
}

func TestQuerierFails(t *testing.T) {
	q := querytest.NewQuerier(t)
	boom := errors.New("boom")
	q.Fails("SELECT 1", boom)

	f, err := q.Query(context.Background(), "SELECT 1")
	require.ErrorIs(t, err, boom)
	require.Nil(t, f)
}

func TestAssertCalledOnceWith(t *testing.T) {
	q := new(querytest.Querier)
	q.On("Query", "SELECT 1").Return(querytest.Authors(), nil)

	_, _ = q.Query(context.Background(), "SELECT 1")
	_, _ = q.Query(context.Background(), "SELECT 1")

	r := new(recorder)
	require.False(t, q.AssertCalledOnceWith(r, "SELECT 1"))
	require.True(t, r.failed)
}

type recorder struct {
	testing.TB
	failed bool
}

func (r *recorder) Helper() {}

func (r *recorder) Errorf(string, ...any) {
	r.failed = true
}

func TestFixtures(t *testing.T) {
	require.Equal(t, []string{"id", "title", "author_id", "year"}, querytest.Books().Names())
	require.Equal(t, 3, querytest.Books().Len())
	require.Equal(t, []string{"author_id", "name"}, querytest.Authors().Names())

	want := frame.MustNew(
		frame.Text("title", "The Great Gatsby", "1984", "To Kill a Mockingbird"),
		frame.Text("name", "F. Scott Fitzgerald", "George Orwell", "Harper Lee"),
	)
	querytest.RequireFrameEqual(t, want, querytest.BooksWithAuthors())
}

func TestLoadQuery(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "q.sql")
	require.NoError(t, os.WriteFile(path, []byte("\n  SELECT * FROM books;\n\n"), 0o644))

	require.Equal(t, "SELECT * FROM books;", querytest.LoadQuery(t, path))
}

func TestOpenSQLite(t *testing.T) {
	db := querytest.OpenSQLite(t, querytest.Library())

	got, err := querier.New(db).Query(context.Background(), "SELECT author_id, name FROM authors ORDER BY author_id")
	require.NoError(t, err)
	querytest.RequireFrameEqual(t, querytest.Authors(), got)
}
