// SPDX-License-Identifier: MIT

// Package qemu composes and runs the QEMU invocation that boots the staged
// image.
//
// Arguments are modeled explicitly so the debug and non-debug variants of
// the invocation stay a data difference instead of divergent command lines,
// and so conflicting extra arguments are caught before the process is
// spawned.
package qemu
