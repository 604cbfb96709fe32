// SPDX-License-Identifier: MIT

package proc

import (
	"fmt"
	"strings"
)

// CommandError wraps any error occurred while spawning or waiting for an
// external command. It carries the complete argument vector for diagnostics.
type CommandError struct {
	Path     string
	Args     []string
	ExitCode int
	Err      error
}

// Error implements the [error] interface.
func (e *CommandError) Error() string {
	cmdline := e.Path
	if len(e.Args) > 0 {
		cmdline += " " + strings.Join(e.Args, " ")
	}

	return fmt.Sprintf("command failed: %s: %v", cmdline, e.Err)
}

// Is implements the [errors.Is] interface.
func (*CommandError) Is(other error) bool {
	_, ok := other.(*CommandError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *CommandError) Unwrap() error {
	return e.Err
}
