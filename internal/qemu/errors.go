// SPDX-License-Identifier: MIT

package qemu

import "errors"

var (
	// ErrArgumentCollision is returned if two [Argument]s are considered
	// equal.
	ErrArgumentCollision = errors.New("colliding args")

	// ErrFirmwareNotFound is returned if the UEFI firmware image is not
	// present at the configured path.
	ErrFirmwareNotFound = errors.New("firmware image not found")
)
