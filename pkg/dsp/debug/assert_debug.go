//go:build debug

package debug

import "fmt"

// Enabled reports whether contract checks are compiled in.
const Enabled = true

// Assert panics with msg when cond is false.
func Assert(cond bool, msg string) {
	if !cond {
		panic("contract violation: " + msg)
	}
}

// AssertNoError panics when err is non-nil.
func AssertNoError(err error, msg string) {
	if err != nil {
		panic(fmt.Sprintf("contract violation: %s: %v", msg, err))
	}
}

// CheckBlock verifies that every channel of block has the same length and
// that the block fits within maxLen samples.
func CheckBlock(block [][]float32, maxLen int, name string) {
	if len(block) == 0 {
		panic(fmt.Sprintf("contract violation: block %s has no channels", name))
	}
	n := len(block[0])
	if n > maxLen {
		panic(fmt.Sprintf("contract violation: block %s has %d samples, max %d", name, n, maxLen))
	}
	for ch := range block {
		if len(block[ch]) != n {
			panic(fmt.Sprintf("contract violation: block %s channel %d has %d samples, want %d",
				name, ch, len(block[ch]), n))
		}
	}
}
