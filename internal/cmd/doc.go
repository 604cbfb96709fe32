// SPDX-License-Identifier: MIT

// Package cmd provides the bootrun command line interface.
package cmd
