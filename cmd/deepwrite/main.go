// Package main provides the entry point for the deepwrite CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/deepwrite/deepwrite/internal/cli"
)

// Build information set via ldflags at release time.
//
//nolint:gochecknoglobals // ldflags targets must be package-level vars
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	ctx := context.Background()

	err := cli.Execute(ctx, cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})
	cli.CloseLogFile()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCodeForError(err))
	}
}
