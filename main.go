package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/23andMe/lintly/cmd"
)

// main sets up a signal-aware context so an interrupted build still flushes
// logs and reports its exit code honestly.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		stop()
		os.Exit(cmd.ExitCode(err))
	}
}
