// Command revcast forecasts daily revenue from a CSV export with SARIMA
// models.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		newPrinter(os.Stdout, os.Stderr, formatTable).errorf("%v", err)
		stop()
		os.Exit(1)
	}
}
