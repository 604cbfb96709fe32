// SPDX-License-Identifier: MIT

package proc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"golang.org/x/sync/errgroup"
)

// Command describes a single invocation of an external program.
//
// A Command is constructed fresh for every invocation and must not be reused
// after [Command.Run] or [Command.Start] returned.
type Command struct {
	// Path is the program to run. It is resolved against PATH if it does not
	// contain a path separator.
	Path string

	// Args is the argument vector, not including the program name.
	Args []string

	// Dir is the working directory of the child process. Empty means the
	// caller's working directory.
	Dir string

	// SuppressStderr discards the child's stderr instead of forwarding it.
	SuppressStderr bool

	// Stdin is connected to the child's stdin. If nil, the child reads
	// from the null device. Only honored by [Command.Run]; a detached
	// child must not share the caller's terminal.
	Stdin io.Reader

	// Stdout and Stderr receive the child's output. If nil, the output is
	// discarded.
	Stdout io.Writer
	Stderr io.Writer
}

// Run starts the command and blocks until it exits.
//
// A non-zero exit status is returned as [CommandError] carrying the complete
// argument vector, so callers never mistake a failed step for a successful
// one.
func (c *Command) Run(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdin = c.Stdin

	var drain errgroup.Group

	if c.Stdout != nil {
		out, err := cmd.StdoutPipe()
		if err != nil {
			return fmt.Errorf("stdout pipe: %w", err)
		}

		drain.Go(func() error {
			_, err := io.Copy(c.Stdout, out)
			return err
		})
	}

	if c.Stderr != nil && !c.SuppressStderr {
		errOut, err := cmd.StderrPipe()
		if err != nil {
			return fmt.Errorf("stderr pipe: %w", err)
		}

		drain.Go(func() error {
			_, err := io.Copy(c.Stderr, errOut)
			return err
		})
	}

	if err := cmd.Start(); err != nil {
		return &CommandError{Path: c.Path, Args: c.Args, Err: err}
	}

	drainErr := drain.Wait()

	if err := cmd.Wait(); err != nil {
		cmdErr := &CommandError{Path: c.Path, Args: c.Args, Err: err}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cmdErr.ExitCode = exitErr.ExitCode()
		}

		return cmdErr
	}

	if drainErr != nil {
		return fmt.Errorf("drain output: %w", drainErr)
	}

	return nil
}

// Start spawns the command and returns without waiting for it to exit. The
// child process keeps running after the caller's process terminated.
//
// The context is only consulted before the spawn. Deliberately, no handle on
// the running process is returned: detached processes are owned by the
// operator, not by the pipeline.
func (c *Command) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err //nolint:wrapcheck
	}

	// Not CommandContext: a cancelled context must not tear down a process
	// that was handed over to the operator.
	cmd := exec.Command(c.Path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdout = c.Stdout

	if !c.SuppressStderr {
		cmd.Stderr = c.Stderr
	}

	if err := cmd.Start(); err != nil {
		return &CommandError{Path: c.Path, Args: c.Args, Err: err}
	}

	return cmd.Process.Release() //nolint:wrapcheck
}

// String returns the command line in human readable form for diagnostics.
func (c *Command) String() string {
	s := c.Path
	for _, arg := range c.Args {
		s += " " + arg
	}

	return s
}
