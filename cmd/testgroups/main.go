package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/cartograph/testgroups/pkg/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// cobra has already printed the error unless the command silenced it
	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
