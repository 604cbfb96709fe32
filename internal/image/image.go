// SPDX-License-Identifier: MIT

// Package image stages built artifacts into the boot image directory tree.
//
// The image root is a plain directory that QEMU presents to the guest as a
// FAT formatted drive. Staging is incremental: file modification timestamps
// double as the build cache, so an artifact is only copied when the staged
// copy is missing or older.
package image
