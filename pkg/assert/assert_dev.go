//go:build !release

// Package assert checks internal invariants. A failed assertion is a bug in this repository, never
// a user error, so it panics in development builds. Release builds compile it away.
package assert

import "fmt"

func That(cond bool, format string, args ...any) { //nolint:goprintffuncname // it's ok
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
