// SPDX-License-Identifier: MIT

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/ugo-os/bootrun/internal/bootrun"
	"github.com/ugo-os/bootrun/internal/config"
)

const configFileName = "bootrun.toml"

type options struct {
	io IO

	configFile string
	root       string
	verbose    bool

	noKVM              bool
	showEmulatorErrors bool
}

// newPipeline builds the immutable configuration for this invocation and
// returns a pipeline bound to it. Precedence, lowest first: defaults, config
// file, environment, flags.
func (o *options) newPipeline() (*bootrun.Pipeline, error) {
	root := o.root
	if root == "" {
		var err error

		root, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("determine project root: %w", err)
		}
	}

	configFile := o.configFile
	if configFile == "" {
		configFile = filepath.Join(root, configFileName)
	}

	cfg, err := config.New(root).Load(configFile)
	if err != nil {
		return nil, err
	}

	cfg = cfg.WithEnvOverrides()

	pipeline := bootrun.New(cfg)
	pipeline.Stdin = o.io.Stdin
	pipeline.Stdout = o.io.Stdout
	pipeline.Stderr = o.io.Stderr
	pipeline.NoKVM = o.noKVM
	pipeline.ShowEmulatorErrors = o.showEmulatorErrors

	return pipeline, nil
}

func (o *options) step(msg string) {
	fmt.Fprintln(o.io.Stdout, color.Info.Sprint("==> "+msg))
}

func newRootCommand(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:   "bootrun",
		Short: "Build, stage and boot the OS image",
		Long: "bootrun builds the bootloader and kernel, stages the" +
			" artifacts into the boot image and runs the result in QEMU.",
		PersistentPreRun: func(*cobra.Command, []string) {
			setupLogging(opts.io.Stderr, opts.verbose)
		},
		RunE: func(*cobra.Command, []string) error {
			return errors.New(
				"expected one of: build, install, run, debug, version",
			)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(
		&opts.configFile,
		"config",
		"",
		"config file (default: <root>/"+configFileName+")",
	)
	root.PersistentFlags().StringVar(
		&opts.root,
		"root",
		"",
		"project root directory (default: working directory)",
	)
	root.PersistentFlags().BoolVarP(
		&opts.verbose,
		"verbose",
		"v",
		false,
		"enable debug output",
	)

	root.AddCommand(
		newBuildCommand(opts),
		newInstallCommand(opts),
		newRunCommand(opts),
		newDebugCommand(opts),
		newVersionCommand(opts),
	)

	return root
}

func newBuildCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Build the bootloader and the kernel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pipeline, err := opts.newPipeline()
			if err != nil {
				return &pipelineError{err}
			}

			opts.step("Building OS components")

			if err := pipeline.Build(cmd.Context()); err != nil {
				return &pipelineError{err}
			}

			return nil
		},
	}
}

func newInstallCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Build and stage the artifacts into the boot image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pipeline, err := opts.newPipeline()
			if err != nil {
				return &pipelineError{err}
			}

			opts.step("Installing boot image")

			if err := pipeline.Install(cmd.Context()); err != nil {
				return &pipelineError{err}
			}

			return nil
		},
	}
}

func newRunCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build, install and boot the image in QEMU",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pipeline, err := opts.newPipeline()
			if err != nil {
				return &pipelineError{err}
			}

			opts.step("Booting image")

			if err := pipeline.Run(cmd.Context(), false); err != nil {
				return &pipelineError{err}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(
		&opts.noKVM,
		"no-kvm",
		false,
		"disable KVM acceleration",
	)
	cmd.Flags().BoolVar(
		&opts.showEmulatorErrors,
		"show-emulator-errors",
		false,
		"forward QEMU's stderr instead of discarding it",
	)

	return cmd
}

func newDebugCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "debug",
		Short: "Boot the image halted, awaiting a debugger attach",
		Long: "Like run, but QEMU exposes its GDB remote stub, halts the" +
			" guest at the first instruction and is left running detached" +
			" so a debugger session can be started right away.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pipeline, err := opts.newPipeline()
			if err != nil {
				return &pipelineError{err}
			}

			opts.step("Booting image for debugging")

			if err := pipeline.Run(cmd.Context(), true); err != nil {
				return &pipelineError{err}
			}

			opts.step("Guest halted, attach a debugger to continue")

			return nil
		},
	}
}

func newVersionCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the bootrun version",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			buildInfo, ok := debug.ReadBuildInfo()
			if !ok {
				return ErrReadBuildInfo
			}

			fmt.Fprintf(
				opts.io.Stdout,
				"bootrun %s\n",
				buildInfo.Main.Version,
			)

			return nil
		},
	}
}
