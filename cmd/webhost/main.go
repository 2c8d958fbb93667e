// Package main provides the entry point for the webhost CLI.
package main

import (
	"context"
	"os"

	"github.com/agentstation/webhost/cmd/webhost/app"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	application := app.New(version, commit, date)

	// Cancelled on SIGINT/SIGTERM, which stops the server gracefully
	ctx, cancel := app.ContextWithSignals(context.Background())
	defer cancel()

	if err := application.Execute(ctx, os.Args[1:]); err != nil {
		cancel()
		app.ExitOnError(err)
	}
}
