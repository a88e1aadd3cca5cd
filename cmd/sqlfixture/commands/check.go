package commands

import (
	"context"

	"github.com/chaisql/sqlfixture/cmd/sqlfixture/dbutil"
	"github.com/chaisql/sqlfixture/internal/config"
	"github.com/chaisql/sqlfixture/internal/runner"
	"github.com/chaisql/sqlfixture/querier"
	"github.com/chaisql/sqlfixture/queryfile"
	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// ErrCasesFailed is returned by the check command when at least one case failed.
var ErrCasesFailed = errors.New("some cases failed")

// NewCheckCommand returns a cli.Command for "sqlfixture check".
func NewCheckCommand() *cli.Command {
	cmd := cli.Command{
		Name:      "check",
		Usage:     "Seed the database and check every case of a suite",
		UsageText: `sqlfixture check [options]`,
		Description: `The check command loads a suite file, creates the seed tables,
runs every case and compares its result with the expected fixture.

$ sqlfixture check --config testdata/sqlfixture.yaml
PASS books (412µs)
PASS books with authors (380µs)
2 passed, 0 failed

The command exits with status 1 when a case fails.`,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path of the suite file",
				Value:   "sqlfixture.yaml",
			},
		}, logFlags()...),
	}

	cmd.Action = func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := config.Load(cmd.String("config"))
		if err != nil {
			return err
		}

		logger := newLogger(cmd, cfg.LogLevel)
		defer logger.Sync()

		report, err := check(ctx, cfg, logger)
		if err != nil {
			return err
		}

		if err := dbutil.PrintReport(cmd.Root().Writer, report); err != nil {
			return err
		}
		if !report.OK() {
			return ErrCasesFailed
		}
		return nil
	}

	return &cmd
}

func check(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*runner.Report, error) {
	db, err := dbutil.OpenDB(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	tables, err := runner.SeedFromConfig(ctx, db, cfg.Database.Driver, cfg.Seeds)
	if err != nil {
		return nil, err
	}

	cases, err := runner.CasesFromConfig(cfg.Cases)
	if err != nil {
		return nil, err
	}

	r := runner.New(
		querier.New(db, querier.WithLogger(logger)),
		queryfile.Dir(cfg.Queries),
		runner.WithLogger(logger),
		runner.WithSeededTables(tables...),
	)
	return r.Run(ctx, cases)
}
