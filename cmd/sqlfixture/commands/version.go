package commands

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/urfave/cli/v3"
)

var drivers = []string{
	"modernc.org/sqlite",
	"github.com/jackc/pgx/v5",
	"github.com/lib/pq",
}

// NewVersionCommand returns a cli.Command for "sqlfixture version".
func NewVersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Shows the sqlfixture version and the version of its database drivers",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := cmd.Root().Writer

			info, ok := debug.ReadBuildInfo()
			if !ok {
				fmt.Fprintln(w, `version not available in GOPATH mode; use "go install" with Go modules enabled`)
				return nil
			}

			fmt.Fprintf(w, "sqlfixture %v\n", info.Main.Version)
			for _, mod := range info.Deps {
				for _, d := range drivers {
					if mod.Path != d {
						continue
					}
					v := mod.Version
					// a replace directive means the driver is in development mode
					if mod.Replace != nil {
						v = "(devel)"
					}
					fmt.Fprintf(w, "%s %v\n", d, v)
				}
			}
			return nil
		},
	}
}
