// SPDX-License-Identifier: MIT

// Package bootrun orchestrates the build, install and run pipeline for the
// OS boot image.
//
// The pipeline is strictly sequential and layered: components are built in a
// fixed order, then the artifacts are staged into the image root, then QEMU
// is launched on the result. A failing step stops the pipeline at the next
// sequencing boundary; nothing is retried.
//
// The image root is the only shared mutable resource. Concurrent pipeline
// invocations racing on the same staging directory are not supported.
package bootrun
