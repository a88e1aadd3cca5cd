// Package runner runs a suite of query cases and reports which ones
// returned their expected frame.
package runner

import (
	"context"
	"database/sql"
	"time"

	"github.com/chaisql/sqlfixture/frame"
	"github.com/chaisql/sqlfixture/internal/config"
	"github.com/chaisql/sqlfixture/internal/fixture"
	"github.com/chaisql/sqlfixture/querier"
	"github.com/chaisql/sqlfixture/queryfile"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// A Case runs the query file named Query and expects Expected back.
type Case struct {
	Name      string
	Query     string
	Expected  *frame.Frame
	Tolerance float64
}

// Result of a single case.
type Result struct {
	Case     Case
	SQL      string
	Got      *frame.Frame
	Err      error
	Duration time.Duration
}

// Passed reports whether the query succeeded and returned the expected frame.
func (r *Result) Passed() bool {
	return r.Err == nil
}

// Report of a run.
type Report struct {
	ID      uuid.UUID
	Results []Result
}

// Passed returns the number of cases that passed.
func (r *Report) Passed() int {
	var n int
	for i := range r.Results {
		if r.Results[i].Passed() {
			n++
		}
	}
	return n
}

// Failed returns the number of cases that failed.
func (r *Report) Failed() int {
	return len(r.Results) - r.Passed()
}

// OK reports whether every case passed.
func (r *Report) OK() bool {
	return r.Failed() == 0
}

// Runner runs cases with a Querier, reading their queries from a Set.
type Runner struct {
	q       querier.Querier
	queries *queryfile.Set
	logger  *zap.Logger
	seeded  map[string]struct{}
}

// An Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger of the runner. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithSeededTables declares the tables available to the queries.
// The runner warns about queries reading other tables.
// Without any table, the queries are not checked.
func WithSeededTables(tables ...string) Option {
	return func(r *Runner) {
		if len(tables) == 0 {
			return
		}
		if r.seeded == nil {
			r.seeded = make(map[string]struct{}, len(tables))
		}
		for _, t := range tables {
			r.seeded[t] = struct{}{}
		}
	}
}

// New returns a runner sending the queries of queries to q.
func New(q querier.Querier, queries *queryfile.Set, opts ...Option) *Runner {
	r := Runner{
		q:       q,
		queries: queries,
		logger:  zap.NewNop(),
	}

	for _, opt := range opts {
		opt(&r)
	}

	return &r
}

// Run loads the query of every case, then runs the cases in order.
// A query file that cannot be loaded aborts the run before any query
// is sent. Query and comparison failures are recorded in the report.
func (r *Runner) Run(ctx context.Context, cases []Case) (*Report, error) {
	queries := make([]string, len(cases))
	for i, c := range cases {
		q, err := r.queries.Load(c.Query)
		if err != nil {
			return nil, errors.Wrapf(err, "case %q", c.Name)
		}
		queries[i] = q
		r.checkTables(c.Name, q)
	}

	report := Report{
		ID:      uuid.New(),
		Results: make([]Result, 0, len(cases)),
	}

	logger := r.logger.With(zap.Stringer("run", report.ID))
	logger.Info("running cases", zap.Int("count", len(cases)))

	for i, c := range cases {
		if err := ctx.Err(); err != nil {
			return &report, errors.WithStack(err)
		}

		res := r.runCase(ctx, c, queries[i])
		if res.Passed() {
			logger.Debug("case passed", zap.String("case", c.Name), zap.Duration("duration", res.Duration))
		} else {
			logger.Warn("case failed", zap.String("case", c.Name), zap.Error(res.Err))
		}
		report.Results = append(report.Results, res)
	}

	logger.Info("run finished", zap.Int("passed", report.Passed()), zap.Int("failed", report.Failed()))
	return &report, nil
}

func (r *Runner) runCase(ctx context.Context, c Case, query string) Result {
	res := Result{
		Case: c,
		SQL:  query,
	}

	start := time.Now()
	res.Got, res.Err = r.q.Query(ctx, query)
	res.Duration = time.Since(start)
	if res.Err != nil {
		return res
	}

	var opts []frame.CompareOption
	if c.Tolerance > 0 {
		opts = append(opts, frame.Tolerance(c.Tolerance))
	}
	res.Err = frame.Compare(c.Expected, res.Got, opts...)
	return res
}

// checkTables logs the tables read by query that were not seeded.
// The scan is best effort: the parser does not know every dialect.
func (r *Runner) checkTables(name, query string) {
	if r.seeded == nil {
		return
	}

	tables, err := queryfile.Tables(query)
	if err != nil {
		r.logger.Debug("cannot list query tables", zap.String("case", name), zap.Error(err))
		return
	}

	for _, t := range tables {
		if _, ok := r.seeded[t]; !ok {
			r.logger.Warn("query reads a table that was not seeded", zap.String("case", name), zap.String("table", t))
		}
	}
}

// CasesFromConfig loads the expected fixture of every configured case.
func CasesFromConfig(cfgs []config.Case) ([]Case, error) {
	cases := make([]Case, 0, len(cfgs))
	for _, c := range cfgs {
		want, err := fixture.Load(c.Expected)
		if err != nil {
			return nil, errors.Wrapf(err, "case %q", c.Name)
		}

		cases = append(cases, Case{
			Name:      c.Name,
			Query:     c.Query,
			Expected:  want,
			Tolerance: c.Tolerance,
		})
	}

	return cases, nil
}

// SeedFromConfig creates and fills the configured tables. It returns
// the names of the seeded tables.
func SeedFromConfig(ctx context.Context, db *sql.DB, driver string, seeds []config.Seed) ([]string, error) {
	p := querier.PlaceholderFor(driver)

	tables := make([]string, 0, len(seeds))
	for _, s := range seeds {
		f, err := fixture.Load(s.Fixture)
		if err != nil {
			return nil, err
		}

		if err := querier.Seed(ctx, db, s.Table, f, p); err != nil {
			return nil, err
		}
		tables = append(tables, s.Table)
	}

	return tables, nil
}
