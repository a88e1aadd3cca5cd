package commands

import (
	"context"

	"github.com/chaisql/sqlfixture/cmd/sqlfixture/dbutil"
	"github.com/chaisql/sqlfixture/querier"
	"github.com/chaisql/sqlfixture/queryfile"
	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v3"
)

// NewQueryCommand returns a cli.Command for "sqlfixture query".
func NewQueryCommand() *cli.Command {
	cmd := cli.Command{
		Name:      "query",
		Usage:     "Run a query file and print its result",
		UsageText: `sqlfixture query [options] file.sql`,
		Description: `The query command reads a SQL file, sends it as is to the database
and prints the returned rows.

$ sqlfixture query --dsn library.db queries/books_query.sql

Use --format json to print the result in the fixture JSON layout:

$ sqlfixture query --format json --dsn library.db queries/books_query.sql > testdata/books.json`,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "driver",
				Aliases: []string{"d"},
				Usage:   "database/sql driver: sqlite, pgx or postgres",
				Value:   "sqlite",
				Sources: cli.EnvVars("SQLFIXTURE_DRIVER"),
			},
			&cli.StringFlag{
				Name:    "dsn",
				Usage:   "data source name",
				Value:   ":memory:",
				Sources: cli.EnvVars("SQLFIXTURE_DSN"),
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "output format: table or json",
				Value:   dbutil.FormatTable,
			},
		}, logFlags()...),
	}

	cmd.Action = func(ctx context.Context, cmd *cli.Command) error {
		path := cmd.Args().First()
		if path == "" {
			return errors.New(cmd.UsageText)
		}

		q, err := queryfile.Load(path)
		if err != nil {
			return err
		}

		db, err := dbutil.OpenDB(ctx, cmd.String("driver"), cmd.String("dsn"))
		if err != nil {
			return err
		}
		defer db.Close()

		logger := newLogger(cmd, "")
		defer logger.Sync()

		return dbutil.ExecQuery(ctx, querier.New(db, querier.WithLogger(logger)), q, cmd.String("format"), cmd.Root().Writer)
	}

	return &cmd
}
