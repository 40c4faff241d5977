// Package main is the entry point for the fridgectl binary.
package main

import (
	"errors"
	"os"

	"github.com/fridgepi/fridgectl/cmd/fridgectl/cmd"
)

// Build-time variables set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, date)
	if err := cmd.Execute(); err != nil {
		// The run command propagates the application's exit code verbatim.
		var exitErr *cmd.ExitCodeError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
