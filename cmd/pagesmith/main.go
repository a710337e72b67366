// Package main provides the entry point for the pagesmith service.
package main

import (
	"context"
	"os"

	"github.com/mrz1836/pagesmith/internal/cli"
)

// Build information, set at link time via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx := context.Background()

	info := cli.BuildInfo{Version: version, Commit: commit, Date: date}
	if err := cli.Execute(ctx, info); err != nil {
		os.Exit(cli.ExitCodeForError(err))
	}
}
