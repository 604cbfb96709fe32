// SPDX-License-Identifier: MIT

package image

import (
	"errors"
	"fmt"
)

// Mapping maps a built artifact to its slot inside the image root.
type Mapping struct {
	// Name identifies the mapping in messages, like "bootloader" or
	// "kernel".
	Name string

	// Source is the path of the built artifact.
	Source string

	// Destination is the path inside the image root the artifact must land
	// at for the firmware or bootloader to find it.
	Destination string
}

// Stage copies the artifact into its slot if the staged copy is missing or
// stale. It reports whether a copy took place.
func (m Mapping) Stage() (bool, error) {
	copied, err := CopyIfNewer(m.Source, m.Destination)
	if err != nil {
		return false, fmt.Errorf("stage %s: %w", m.Name, err)
	}

	return copied, nil
}

// Stage stages all given mappings.
//
// The mappings are independent: a failing mapping does not prevent the
// remaining ones from being staged, but any failure is reported in the
// joined error.
func Stage(mappings []Mapping) error {
	var errs []error

	for _, mapping := range mappings {
		if _, err := mapping.Stage(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
