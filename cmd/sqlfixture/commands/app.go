package commands

import (
	"github.com/chaisql/sqlfixture/internal/logging"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// NewApp creates the sqlfixture CLI app.
func NewApp() *cli.Command {
	return &cli.Command{
		Name:                  "sqlfixture",
		Usage:                 "Run SQL query files and check their results against fixtures",
		EnableShellCompletion: true,
		Commands: []*cli.Command{
			NewQueryCommand(),
			NewCheckCommand(),
			NewVersionCommand(),
		},
	}
}

func logFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "debug, info, warn or error",
			Value:   "warn",
			Sources: cli.EnvVars("LOG_LEVEL"),
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "json or console",
			Value: logging.FormatConsole,
		},
	}
}

func newLogger(cmd *cli.Command, level string) *zap.Logger {
	if cmd.IsSet("log-level") || level == "" {
		level = cmd.String("log-level")
	}

	return logging.New(logging.Config{
		Level:  level,
		Format: cmd.String("log-format"),
		Output: cmd.Root().ErrWriter,
	})
}
