package impulse

import "fmt"

// assertInvariant guards invariants whose violation means a bug in the caller or in a
// collaborating subsystem, not a recoverable condition.
func assertInvariant(truth bool, msg ...interface{}) {
	if !truth {
		panic(fmt.Sprint("Assertion failed: ", msg))
	}
}
