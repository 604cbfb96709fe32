// SPDX-License-Identifier: MIT

package qemu_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugo-os/bootrun/internal/qemu"
)

func newTestSpec() qemu.CommandSpec {
	return qemu.CommandSpec{
		Executable: "qemu-system-x86_64",
		Firmware:   "ovmf/OVMF-pure-efi.fd",
		ImageDir:   "bootimg",
		LogFile:    "qemu.log",
		NoKVM:      true,
	}
}

func TestNewCommandArgs(t *testing.T) {
	cmd, err := qemu.NewCommand(newTestSpec())
	require.NoError(t, err)

	expected := []string{
		"-bios", "ovmf/OVMF-pure-efi.fd",
		"-net", "none",
		"-drive", "file=fat:rw:bootimg,format=raw",
		"-monitor", "stdio",
		"-D", "qemu.log",
		"-d", "int",
		"-no-reboot",
		"-action", "shutdown=pause",
	}

	assert.Equal(t, expected, cmd.Args())
}

func TestNewCommandKVM(t *testing.T) {
	spec := newTestSpec()
	spec.NoKVM = false

	cmd, err := qemu.NewCommand(spec)
	require.NoError(t, err)

	assert.Contains(t, cmd.Args(), "-enable-kvm")
}

func TestNewCommandDebugArgsSuperset(t *testing.T) {
	normal, err := qemu.NewCommand(newTestSpec())
	require.NoError(t, err)

	debugSpec := newTestSpec()
	debugSpec.Debug = true

	debug, err := qemu.NewCommand(debugSpec)
	require.NoError(t, err)

	// Debug adds exactly the GDB stub and the halt-on-start flag, nothing
	// else changes.
	expected := append(normal.Args(), "-s", "-S")
	assert.Equal(t, expected, debug.Args())
}

func TestNewCommandExtraArgs(t *testing.T) {
	t.Run("appended", func(t *testing.T) {
		spec := newTestSpec()
		spec.ExtraArgs = []qemu.Argument{
			qemu.UniqueArg("m", "256"),
		}

		cmd, err := qemu.NewCommand(spec)
		require.NoError(t, err)
		assert.Contains(t, cmd.Args(), "-m")
	})

	t.Run("collision with essential args", func(t *testing.T) {
		spec := newTestSpec()
		spec.ExtraArgs = []qemu.Argument{
			qemu.UniqueArg("bios", "other.fd"),
		}

		_, err := qemu.NewCommand(spec)
		assert.ErrorIs(t, err, qemu.ErrArgumentCollision)
	})
}

func TestCommandSpecValidate(t *testing.T) {
	firmware := filepath.Join(t.TempDir(), "OVMF.fd")
	require.NoError(t, os.WriteFile(firmware, []byte{0}, 0o644))

	t.Run("valid", func(t *testing.T) {
		spec := newTestSpec()
		// Any binary that is guaranteed to be on the search path.
		spec.Executable = "sh"
		spec.Firmware = firmware

		assert.NoError(t, spec.Validate())
	})

	t.Run("missing emulator binary", func(t *testing.T) {
		spec := newTestSpec()
		spec.Executable = "bootrun-test-does-not-exist"
		spec.Firmware = firmware

		assert.Error(t, spec.Validate())
	})

	t.Run("missing firmware", func(t *testing.T) {
		spec := newTestSpec()
		spec.Executable = "sh"
		spec.Firmware = filepath.Join(t.TempDir(), "nonexistent.fd")

		assert.ErrorIs(t, spec.Validate(), qemu.ErrFirmwareNotFound)
	})
}
