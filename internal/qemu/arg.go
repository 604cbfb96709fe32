// SPDX-License-Identifier: MIT

package qemu

import (
	"fmt"
	"slices"
	"strings"
)

// Argument is one "-name value" pair of the emulator command line.
//
// Whether two arguments with the same name may coexist depends on the
// constructor: [UniqueArg] names must not repeat at all, [RepeatableArg]
// names may repeat as long as the values differ.
type Argument struct {
	name       string
	value      string
	repeatable bool
}

// UniqueArg returns an argument whose name may appear only once per command
// line. Multiple values are joined with "," as QEMU expects for sub-options.
func UniqueArg(name string, value ...string) Argument {
	return Argument{name: name, value: strings.Join(value, ",")}
}

// RepeatableArg returns an argument whose name may appear multiple times
// with different values. Multiple values are joined with ",".
func RepeatableArg(name string, value ...string) Argument {
	arg := UniqueArg(name, value...)
	arg.repeatable = true

	return arg
}

// String implements [fmt.Stringer].
func (a Argument) String() string {
	if a.value == "" {
		return "-" + a.name
	}

	return "-" + a.name + " " + a.value
}

// collides reports whether a must not share a command line with other.
func (a Argument) collides(other Argument) bool {
	if a.name != other.name {
		return false
	}

	return !a.repeatable || a.value == other.value
}

// BuildArgumentStrings flattens the arguments into the string slice handed
// to [os/exec.Command]. It fails with [ErrArgumentCollision] if an argument
// violates the uniqueness rule of an earlier one.
func BuildArgumentStrings(args []Argument) ([]string, error) {
	argStrings := make([]string, 0, len(args))

	for idx, arg := range args {
		if i := slices.IndexFunc(args[:idx], arg.collides); i != -1 {
			return nil, fmt.Errorf(
				"%w: %s, %s",
				ErrArgumentCollision, arg, args[i],
			)
		}

		argStrings = append(argStrings, "-"+arg.name)

		if arg.value != "" {
			argStrings = append(argStrings, arg.value)
		}
	}

	return argStrings, nil
}
