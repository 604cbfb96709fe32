// SPDX-License-Identifier: MIT

package bootrun

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ugo-os/bootrun/internal/config"
	"github.com/ugo-os/bootrun/internal/image"
	"github.com/ugo-os/bootrun/internal/proc"
	"github.com/ugo-os/bootrun/internal/qemu"
)

// BuildTarget is one independently buildable component of the OS.
type BuildTarget struct {
	// Name identifies the component in messages.
	Name string

	// Dir is the directory the build command runs in.
	Dir string

	// Command and Args form the build invocation.
	Command string
	Args    []string
}

// Build invokes the component's build command and blocks until it exits.
// The build tool's output is forwarded to the given writers.
func (t BuildTarget) Build(
	ctx context.Context,
	stdout, stderr io.Writer,
) error {
	cmd := &proc.Command{
		Path:   t.Command,
		Args:   t.Args,
		Dir:    t.Dir,
		Stdout: stdout,
		Stderr: stderr,
	}

	slog.Debug("Building component",
		slog.String("name", t.Name),
		slog.String("command", cmd.String()),
		slog.String("dir", t.Dir))

	if err := cmd.Run(ctx); err != nil {
		return fmt.Errorf("build %s: %w", t.Name, err)
	}

	return nil
}

// Pipeline runs the build, install and run stages against one [Config].
type Pipeline struct {
	cfg config.Config

	// Stdin is connected to the emulator so its stdio monitor accepts
	// operator input. Build tools do not read from it.
	Stdin io.Reader

	// Stdout and Stderr receive the output of the spawned build tool and
	// emulator processes.
	Stdout io.Writer
	Stderr io.Writer

	// NoKVM disables KVM acceleration for the emulator.
	NoKVM bool

	// ShowEmulatorErrors forwards QEMU's stderr instead of discarding it.
	ShowEmulatorErrors bool
}

// New returns a [Pipeline] for the given configuration.
func New(cfg config.Config) *Pipeline {
	return &Pipeline{cfg: cfg}
}

// Targets returns the build targets in their fixed build order: bootloader
// first, then kernel. The two builds are independent; the strict sequencing
// keeps runs deterministic.
func (p *Pipeline) Targets() []BuildTarget {
	return []BuildTarget{
		{
			Name:    "bootloader",
			Dir:     p.cfg.BootloaderPath(),
			Command: p.cfg.BuildCommand,
			Args:    p.cfg.BuildArgs,
		},
		{
			Name:    "kernel",
			Dir:     p.cfg.KernelPath(),
			Command: p.cfg.BuildCommand,
			Args:    p.cfg.BuildArgs,
		},
	}
}

// Mappings returns the staging mappings from build outputs to image slots.
func (p *Pipeline) Mappings() []image.Mapping {
	return []image.Mapping{
		{
			Name:        "bootloader",
			Source:      p.cfg.BootloaderPath(p.cfg.Bootloader.Artifact),
			Destination: p.cfg.ImagePath(p.cfg.Image.BootSlot),
		},
		{
			Name:        "kernel",
			Source:      p.cfg.KernelPath(p.cfg.Kernel.Artifact),
			Destination: p.cfg.ImagePath(p.cfg.Image.KernelSlot),
		},
	}
}

// Build builds all components in their fixed order. The first failing build
// aborts the pipeline; later components are not attempted.
func (p *Pipeline) Build(ctx context.Context) error {
	for _, target := range p.Targets() {
		if err := target.Build(ctx, p.Stdout, p.Stderr); err != nil {
			return err
		}
	}

	return nil
}

// Install builds all components and stages the produced artifacts into the
// image root. If the build fails, nothing is staged: staging a stale or
// missing artifact is worse than doing nothing.
func (p *Pipeline) Install(ctx context.Context) error {
	if err := p.Build(ctx); err != nil {
		return err
	}

	if err := image.Stage(p.Mappings()); err != nil {
		return fmt.Errorf("install: %w", err)
	}

	return nil
}

// Run installs the image and launches QEMU on it.
//
// With debug set, the emulator exposes its GDB stub, halts the guest at the
// first instruction and is left running detached, so the caller can start a
// debugger right away. Without debug, Run blocks until the emulator exits.
func (p *Pipeline) Run(ctx context.Context, debug bool) error {
	if err := p.Install(ctx); err != nil {
		return err
	}

	spec := qemu.CommandSpec{
		Executable: p.cfg.Qemu.Executable,
		Firmware:   p.cfg.FirmwarePath(),
		ImageDir:   p.cfg.ImagePath(),
		LogFile:    p.cfg.Qemu.LogFile,
		NoKVM:      p.NoKVM || !qemu.KVMAvailable(),
		Debug:      debug,
		ShowErrors: p.ShowEmulatorErrors,
	}

	if err := spec.Validate(); err != nil {
		return fmt.Errorf("run: %w", err)
	}

	cmd, err := qemu.NewCommand(spec)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	slog.Debug("QEMU command", slog.String("command", cmd.String()))

	if err := cmd.Run(ctx, p.Stdin, p.Stdout, p.Stderr); err != nil {
		return fmt.Errorf("qemu: %w", err)
	}

	return nil
}
