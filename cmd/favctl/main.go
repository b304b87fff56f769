// Package main provides the favctl command line tool for managing favorites.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app := &cli.Command{
		Name:    "favctl",
		Version: version,
		Usage:   "Manage users' favorite movies in the graph",
		Commands: []*cli.Command{
			listCommand(),
			addCommand(),
			removeCommand(),
			seedCommand(),
			datagenCommand(),
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
