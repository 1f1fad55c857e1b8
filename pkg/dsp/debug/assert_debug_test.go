//go:build debug

package debug

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssert(t *testing.T) {
	assert.True(t, Enabled)
	assert.NotPanics(t, func() { Assert(true, "fine") })
	assert.PanicsWithValue(t, "contract violation: broken", func() { Assert(false, "broken") })
}

func TestAssertNoError(t *testing.T) {
	assert.NotPanics(t, func() { AssertNoError(nil, "write") })
	assert.Panics(t, func() { AssertNoError(errors.New("boom"), "write") })
}

func TestCheckBlock(t *testing.T) {
	assert.NotPanics(t, func() { CheckBlock([][]float32{{1, 2}, {3, 4}}, 2, "in") })
	assert.Panics(t, func() { CheckBlock(nil, 2, "in") })
	assert.Panics(t, func() { CheckBlock([][]float32{{1, 2, 3}}, 2, "in") })
	assert.Panics(t, func() { CheckBlock([][]float32{{1, 2}, {3}}, 2, "in") })
}
