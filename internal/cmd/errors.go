// SPDX-License-Identifier: MIT

package cmd

import "errors"

// ErrReadBuildInfo is returned if the binary's build info is unreadable.
var ErrReadBuildInfo = errors.New("failed to read build info")

// pipelineError marks failures of the build, install or run pipeline so
// they can be told apart from usage errors when choosing the process exit
// code.
type pipelineError struct {
	err error
}

func (e *pipelineError) Error() string {
	return e.err.Error()
}

func (e *pipelineError) Is(other error) bool {
	_, ok := other.(*pipelineError)
	return ok
}

func (e *pipelineError) Unwrap() error {
	return e.err
}
