// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gookit/color"
)

// Exit codes of the CLI. Pipeline failures use a code well away from the
// usage error code, so scripts can tell a mistyped command from a broken
// build.
const (
	exitCodeSuccess = 0
	exitCodeUsage   = 1
	exitCodeFailure = 125
)

// IO provides input and output streams for the command.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run is the main entry point for the CLI command. It returns the process
// exit code.
func Run(ctx context.Context, args []string, cfg IO) int {
	opts := &options{io: cfg}

	root := newRootCommand(opts)
	root.SetArgs(args)
	root.SetIn(cfg.Stdin)
	root.SetOut(cfg.Stdout)
	root.SetErr(cfg.Stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitCodeSuccess
	}

	fmt.Fprintln(cfg.Stderr, color.Danger.Sprintf("Error: %v", err))

	if errors.Is(err, &pipelineError{}) {
		return exitCodeFailure
	}

	// Anything else is a usage problem: unknown command, bad flag, missing
	// command. Show the usage text like the failing command would.
	_ = root.Usage()

	return exitCodeUsage
}
