package param

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSmoother(t *testing.T) {
	t.Run("ReachesTargetAfterRamp", func(t *testing.T) {
		s := NewSmoother(100)
		s.Reset(0)
		s.SetTarget(1)

		start, end := s.Advance(25)
		assert.Equal(t, 0.0, start)
		assert.InDelta(t, 0.25, end, 1e-9)

		start, end = s.Advance(50)
		assert.InDelta(t, 0.25, start, 1e-9)
		assert.InDelta(t, 0.75, end, 1e-9)

		_, end = s.Advance(50)
		assert.Equal(t, 1.0, end)

		start, end = s.Advance(50)
		assert.Equal(t, 1.0, start)
		assert.Equal(t, 1.0, end)
	})

	t.Run("RetargetMidRamp", func(t *testing.T) {
		s := NewSmoother(10)
		s.Reset(0)
		s.SetTarget(1)
		s.Advance(5)

		s.SetTarget(0)
		_, end := s.Advance(10)
		assert.Equal(t, 0.0, end)
	})

	t.Run("SameTargetKeepsRamp", func(t *testing.T) {
		s := NewSmoother(10)
		s.Reset(0)
		s.SetTarget(1)
		s.Advance(5)
		s.SetTarget(1)
		_, end := s.Advance(5)
		assert.Equal(t, 1.0, end)
	})

	t.Run("ZeroRampJumps", func(t *testing.T) {
		s := NewSmoother(0)
		s.Reset(0.2)
		s.SetTarget(0.8)
		assert.Equal(t, 0.8, s.Target())

		start, end := s.Advance(4)
		assert.Equal(t, 0.8, start)
		assert.Equal(t, 0.8, end)
	})
}
