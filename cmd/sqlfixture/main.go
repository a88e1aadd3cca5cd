package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/chaisql/sqlfixture/cmd/sqlfixture/commands"
	"github.com/cockroachdb/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := commands.NewApp().Run(ctx, os.Args)
	cancel()
	if err != nil {
		if errors.Is(err, commands.ErrCasesFailed) {
			os.Exit(1)
		}
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
}
