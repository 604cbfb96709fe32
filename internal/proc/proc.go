// SPDX-License-Identifier: MIT

// Package proc runs external commands with explicit argument vectors.
//
// Commands are never passed through a shell, so arguments containing spaces
// or shell metacharacters are handed to the child process unchanged.
package proc
