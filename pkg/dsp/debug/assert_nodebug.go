//go:build !debug

package debug

// Enabled reports whether contract checks are compiled in.
const Enabled = false

// Assert is a no-op when not in debug mode
func Assert(cond bool, msg string) {}

// AssertNoError is a no-op when not in debug mode
func AssertNoError(err error, msg string) {}

// CheckBlock is a no-op when not in debug mode
func CheckBlock(block [][]float32, maxLen int, name string) {}
