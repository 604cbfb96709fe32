// SPDX-License-Identifier: MIT

package qemu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"

	"github.com/ugo-os/bootrun/internal/proc"
)

// CommandSpec defines the parameters for a [Command] booting the staged
// image.
type CommandSpec struct {
	// Path to the qemu-system binary.
	Executable string

	// Path to the UEFI firmware image that starts the boot chain.
	Firmware string

	// Path to the image root directory. It is mounted as a FAT formatted
	// read/write drive.
	ImageDir string

	// Path of the file interrupt diagnostics are logged to.
	LogFile string

	// Disable KVM acceleration even if the host supports it.
	NoKVM bool

	// Debug exposes the GDB remote stub and halts the guest at the first
	// instruction, awaiting a debugger attach.
	Debug bool

	// ShowErrors forwards the emulator's stderr instead of discarding it.
	// QEMU emits known-benign warnings on some hosts, so the default is to
	// suppress it.
	ShowErrors bool

	// ExtraArgs are extra arguments passed to the QEMU command. They must
	// not collide with the essential arguments set by the command itself or
	// an error is returned by [NewCommand].
	ExtraArgs []Argument
}

// arguments compiles the argument list for the QEMU command.
//
// The debug argument list is a strict superset of the normal one: the "-s"
// GDB stub and the "-S" halt-on-start flag are appended, nothing else
// changes.
func (s *CommandSpec) arguments() []Argument {
	args := []Argument{
		UniqueArg("bios", s.Firmware),
		// The guest has no business on the network.
		RepeatableArg("net", "none"),
		RepeatableArg("drive", "file=fat:rw:"+s.ImageDir, "format=raw"),
		// Keep the monitor on stdio so a wedged guest can be inspected.
		UniqueArg("monitor", "stdio"),
		UniqueArg("D", s.LogFile),
		UniqueArg("d", "int"),
		// A crashed guest must stay around for inspection instead of
		// silently restarting.
		UniqueArg("no-reboot"),
		UniqueArg("action", "shutdown=pause"),
	}

	if !s.NoKVM {
		args = append(args, UniqueArg("enable-kvm"))
	}

	args = append(args, s.ExtraArgs...)

	if s.Debug {
		args = append(args,
			UniqueArg("s"),
			UniqueArg("S"),
		)
	}

	return args
}

// Validate checks that the external collaborators of the run are actually
// present: the QEMU binary on the search path and the firmware image on
// disk. A missing firmware image fails here with a clear message instead of
// surfacing as an obscure QEMU error.
func (s *CommandSpec) Validate() error {
	if _, err := exec.LookPath(s.Executable); err != nil {
		return fmt.Errorf("check qemu binary: %w", err)
	}

	if _, err := os.Stat(s.Firmware); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrFirmwareNotFound, s.Firmware)
	} else if err != nil {
		return fmt.Errorf("check firmware image: %w", err)
	}

	return nil
}

// Command is a runnable QEMU command.
type Command struct {
	name string
	args []string

	debug      bool
	showErrors bool
}

// NewCommand builds a new [Command] from the given spec. It fails if the
// compiled argument list violates an argument uniqueness constraint.
func NewCommand(spec CommandSpec) (*Command, error) {
	args, err := BuildArgumentStrings(spec.arguments())
	if err != nil {
		return nil, fmt.Errorf("build arguments: %w", err)
	}

	cmd := &Command{
		name:       spec.Executable,
		args:       args,
		debug:      spec.Debug,
		showErrors: spec.ShowErrors,
	}

	return cmd, nil
}

// Args returns the complete argument vector of the command.
func (c *Command) Args() []string {
	return c.args
}

// String returns the command line in human readable form.
func (c *Command) String() string {
	return (&proc.Command{Path: c.name, Args: c.args}).String()
}

// Run launches QEMU.
//
// In normal mode it blocks until the emulator exits and propagates a
// non-zero exit status as error. The monitor sits on the emulator's stdio,
// so stdin is connected to the child and serves as the monitor's input. In
// debug mode Run returns immediately after the spawn, leaving the halted
// guest running detached and without stdin, so a debugger can be attached
// concurrently.
func (c *Command) Run(
	ctx context.Context,
	stdin io.Reader,
	stdout, stderr io.Writer,
) error {
	cmd := &proc.Command{
		Path:           c.name,
		Args:           c.args,
		SuppressStderr: !c.showErrors,
		Stdin:          stdin,
		Stdout:         stdout,
		Stderr:         stderr,
	}

	if c.debug {
		return cmd.Start(ctx)
	}

	return cmd.Run(ctx)
}
