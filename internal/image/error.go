// SPDX-License-Identifier: MIT

package image

// MissingArtifactError is returned if a staging copy was attempted but the
// source artifact does not exist. Usually this means the build step did not
// produce it.
type MissingArtifactError struct {
	Path string
}

// Error implements the [error] interface.
func (e *MissingArtifactError) Error() string {
	return "missing artifact: " + e.Path
}

// Is implements the [errors.Is] interface.
func (*MissingArtifactError) Is(other error) bool {
	_, ok := other.(*MissingArtifactError)
	return ok
}
