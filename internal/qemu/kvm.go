// SPDX-License-Identifier: MIT

package qemu

import (
	"os"
	"runtime"
)

// KVMAvailable checks if KVM acceleration is available on the host. The
// image is built for x86_64, so on any other host architecture QEMU runs in
// full emulation.
func KVMAvailable() bool {
	if runtime.GOARCH != "amd64" {
		return false
	}

	f, err := os.OpenFile("/dev/kvm", os.O_WRONLY, 0)
	_ = f.Close()

	return err == nil
}
