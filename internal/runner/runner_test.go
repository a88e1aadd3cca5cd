package runner_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/chaisql/sqlfixture/frame"
	"github.com/chaisql/sqlfixture/internal/config"
	"github.com/chaisql/sqlfixture/internal/runner"
	"github.com/chaisql/sqlfixture/querier"
	"github.com/chaisql/sqlfixture/queryfile"
	"github.com/chaisql/sqlfixture/querytest"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const (
	booksQuery   = "SELECT id, title, author_id, year\nFROM books\nORDER BY id;"
	authorsQuery = "SELECT author_id, name FROM authors"
)

func queries() *queryfile.Set {
	return queryfile.FS(fstest.MapFS{
		"books_query.sql": {Data: []byte("\n" + booksQuery + "\n\n")},
		"authors.sql":     {Data: []byte(authorsQuery)},
	})
}

func TestRun(t *testing.T) {
	q := querytest.NewQuerier(t)
	q.Returns(booksQuery, querytest.Books())
	q.Returns(authorsQuery, querytest.Authors())

	r := runner.New(q, queries())
	report, err := r.Run(context.Background(), []runner.Case{
		{Name: "books", Query: "books_query", Expected: querytest.Books()},
		{Name: "authors", Query: "authors.sql", Expected: querytest.Authors()},
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, report.ID)
	require.Len(t, report.Results, 2)
	require.True(t, report.OK())
	require.Equal(t, 2, report.Passed())
	require.Equal(t, 0, report.Failed())

	require.Equal(t, booksQuery, report.Results[0].SQL)
	querytest.RequireFrameEqual(t, querytest.Books(), report.Results[0].Got)
}

func TestRunFailures(t *testing.T) {
	boom := errors.New("connection lost")

	q := querytest.NewQuerier(t)
	q.Returns(booksQuery, querytest.Authors())
	q.Fails(authorsQuery, boom)

	report, err := runner.New(q, queries()).Run(context.Background(), []runner.Case{
		{Name: "books", Query: "books_query", Expected: querytest.Books()},
		{Name: "authors", Query: "authors", Expected: querytest.Authors()},
	})
	require.NoError(t, err)
	require.False(t, report.OK())
	require.Equal(t, 2, report.Failed())

	var mismatch *frame.MismatchError
	require.ErrorAs(t, report.Results[0].Err, &mismatch)
	require.Equal(t, "columns", mismatch.Reason)
	require.ErrorIs(t, report.Results[1].Err, boom)
}

func TestRunTolerance(t *testing.T) {
	q := querytest.NewQuerier(t)
	q.Returns(authorsQuery, frame.MustNew(frame.Double("price", 10.0000001)))

	report, err := runner.New(q, queries()).Run(context.Background(), []runner.Case{
		{Name: "price", Query: "authors", Expected: frame.MustNew(frame.Double("price", 10)), Tolerance: 1e-3},
	})
	require.NoError(t, err)
	require.True(t, report.OK())
}

func TestRunMissingQuery(t *testing.T) {
	// no expectation: any query would fail the test
	q := querytest.NewQuerier(t)

	_, err := runner.New(q, queries()).Run(context.Background(), []runner.Case{
		{Name: "books", Query: "books_query", Expected: querytest.Books()},
		{Name: "join", Query: "join_query", Expected: querytest.BooksWithAuthors()},
	})
	require.ErrorIs(t, err, queryfile.ErrNotFound)
	require.Contains(t, err.Error(), `case "join"`)
	require.Empty(t, q.Calls)
}

func TestRunCanceled(t *testing.T) {
	q := querytest.NewQuerier(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := runner.New(q, queries()).Run(ctx, []runner.Case{
		{Name: "books", Query: "books_query", Expected: querytest.Books()},
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, report.Results)
}

func TestRunWarnsUnseededTables(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	q := querytest.NewQuerier(t)
	q.Returns(authorsQuery, querytest.Authors())

	r := runner.New(q, queries(), runner.WithLogger(zap.New(core)), runner.WithSeededTables("books"))
	report, err := r.Run(context.Background(), []runner.Case{
		{Name: "authors", Query: "authors", Expected: querytest.Authors()},
	})
	require.NoError(t, err)
	require.True(t, report.OK())

	warnings := logs.FilterMessage("query reads a table that was not seeded").All()
	require.Len(t, warnings, 1)
	require.Equal(t, "authors", warnings[0].ContextMap()["table"])
}

func TestRunWithoutSeededTables(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	q := querytest.NewQuerier(t)
	q.Returns(authorsQuery, querytest.Authors())

	r := runner.New(q, queries(), runner.WithLogger(zap.New(core)), runner.WithSeededTables())
	report, err := r.Run(context.Background(), []runner.Case{
		{Name: "authors", Query: "authors", Expected: querytest.Authors()},
	})
	require.NoError(t, err)
	require.True(t, report.OK())
	require.Zero(t, logs.FilterMessage("query reads a table that was not seeded").Len())
}

func TestRunFromConfig(t *testing.T) {
	t.Setenv(config.EnvDriver, "")
	t.Setenv(config.EnvDSN, "")
	t.Setenv(config.EnvLogLevel, "")

	cfg, err := config.Load("../../testdata/sqlfixture.yaml")
	require.NoError(t, err)

	ctx := context.Background()
	db, err := querier.Open(cfg.Database.Driver, cfg.Database.DSN)
	require.NoError(t, err)
	defer db.Close()

	tables, err := runner.SeedFromConfig(ctx, db, cfg.Database.Driver, cfg.Seeds)
	require.NoError(t, err)
	require.Equal(t, []string{"books", "authors"}, tables)

	cases, err := runner.CasesFromConfig(cfg.Cases)
	require.NoError(t, err)
	require.Len(t, cases, 2)

	r := runner.New(querier.New(db), queryfile.Dir(cfg.Queries), runner.WithSeededTables(tables...))
	report, err := r.Run(ctx, cases)
	require.NoError(t, err)
	for _, res := range report.Results {
		require.NoError(t, res.Err, res.Case.Name)
	}
	require.Equal(t, 2, report.Passed())
}

func TestCasesFromConfigMissingFixture(t *testing.T) {
	_, err := runner.CasesFromConfig([]config.Case{{Name: "books", Query: "books_query", Expected: "missing.yaml"}})
	require.Error(t, err)
	require.Contains(t, err.Error(), `case "books"`)
}
