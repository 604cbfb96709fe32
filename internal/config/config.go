// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Environment variables that override the corresponding [Config] fields.
// They follow the same pattern as the QEMU_KERNEL override known from other
// QEMU wrappers: set once in the developer's shell, forgotten afterwards.
const (
	EnvQemuExecutable = "BOOTRUN_QEMU"
	EnvFirmware       = "BOOTRUN_FIRMWARE"
)

// Component describes one independently buildable part of the OS. Dir is
// relative to the project root, Artifact is relative to Dir.
type Component struct {
	Dir      string `toml:"dir"`
	Artifact string `toml:"artifact"`
}

// Image describes the staging directory presented to QEMU as a FAT drive.
// BootSlot and KernelSlot are relative to Dir.
type Image struct {
	Dir        string `toml:"dir"`
	BootSlot   string `toml:"boot-slot"`
	KernelSlot string `toml:"kernel-slot"`
}

// Qemu describes the emulator invocation parameters that are fixed per
// project.
type Qemu struct {
	Executable string `toml:"executable"`
	Firmware   string `toml:"firmware"`
	LogFile    string `toml:"log-file"`
}

// Config collects all paths and commands the pipeline works with. It is
// built once at startup and never mutated afterwards, so tests can point an
// entire pipeline at a temporary directory tree.
type Config struct {
	// Root is the project root directory all other paths are relative to.
	Root string `toml:"-"`

	// BuildCommand is the build tool invoked in each component directory.
	BuildCommand string   `toml:"build-command"`
	BuildArgs    []string `toml:"build-args"`

	Bootloader Component `toml:"bootloader"`
	Kernel     Component `toml:"kernel"`
	Image      Image     `toml:"image"`
	Qemu       Qemu      `toml:"qemu"`
}

// New returns the default [Config] for the given project root. The defaults
// match the conventional project layout: cargo workspaces in bootloader/ and
// kernel/, the staging tree in bootimg/ and an OVMF image in ovmf/.
func New(root string) Config {
	return Config{
		Root:         root,
		BuildCommand: "cargo",
		BuildArgs:    []string{"build"},
		Bootloader: Component{
			Dir:      "bootloader",
			Artifact: filepath.Join(
				"target", "x86_64-unknown-uefi", "debug", "ugo-os.efi",
			),
		},
		Kernel: Component{
			Dir:      "kernel",
			Artifact: filepath.Join("target", "kernel", "debug", "kernel"),
		},
		Image: Image{
			Dir:        "bootimg",
			BootSlot:   filepath.Join("EFI", "BOOT", "BOOTX64.efi"),
			KernelSlot: "ugo-os.elf",
		},
		Qemu: Qemu{
			Executable: "qemu-system-x86_64",
			Firmware:   filepath.Join("ovmf", "OVMF-pure-efi.fd"),
			LogFile:    "qemu.log",
		},
	}
}

// Load reads the TOML file at path into a copy of the receiver and returns
// the result. A missing file is not an error so projects without a config
// file run on the defaults.
func (c Config) Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}

	if err != nil {
		return c, fmt.Errorf("read config file: %w", err)
	}

	if err := toml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return c, nil
}

// WithEnvOverrides returns a copy of the receiver with the supported
// environment variable overrides applied.
func (c Config) WithEnvOverrides() Config {
	if v := os.Getenv(EnvQemuExecutable); v != "" {
		c.Qemu.Executable = v
	}

	if v := os.Getenv(EnvFirmware); v != "" {
		c.Qemu.Firmware = v
	}

	return c
}

// BootloaderPath joins the given path fragments to the bootloader project
// directory.
func (c Config) BootloaderPath(elem ...string) string {
	return c.path(c.Bootloader.Dir, elem)
}

// KernelPath joins the given path fragments to the kernel project directory.
func (c Config) KernelPath(elem ...string) string {
	return c.path(c.Kernel.Dir, elem)
}

// ImagePath joins the given path fragments to the image root directory.
func (c Config) ImagePath(elem ...string) string {
	return c.path(c.Image.Dir, elem)
}

// FirmwarePath returns the path to the UEFI firmware image.
func (c Config) FirmwarePath() string {
	if filepath.IsAbs(c.Qemu.Firmware) {
		return c.Qemu.Firmware
	}

	return filepath.Join(c.Root, c.Qemu.Firmware)
}

func (c Config) path(base string, elem []string) string {
	return filepath.Join(append([]string{c.Root, base}, elem...)...)
}
