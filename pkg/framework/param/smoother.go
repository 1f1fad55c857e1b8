package param

// Smoother moves a value linearly towards its target over a fixed number of
// samples. It advances a whole block at a time and hands back the gain at
// both ends of the block, which is what a ramped block write needs.
type Smoother struct {
	current float64
	target  float64
	step    float64
	samples int
	left    int
}

// NewSmoother creates a smoother that takes rampSamples samples to reach a
// new target. A ramp of zero or less jumps immediately.
func NewSmoother(rampSamples int) *Smoother {
	return &Smoother{samples: rampSamples}
}

// SetRampSamples changes the ramp length for future targets.
func (s *Smoother) SetRampSamples(n int) {
	s.samples = n
}

// Reset jumps straight to value.
func (s *Smoother) Reset(value float64) {
	s.current = value
	s.target = value
	s.step = 0
	s.left = 0
}

// SetTarget starts a ramp towards target. Setting the same target again
// does not restart the ramp.
func (s *Smoother) SetTarget(target float64) {
	if target == s.target {
		return
	}
	s.target = target
	if s.samples <= 0 {
		s.Reset(target)
		return
	}
	s.left = s.samples
	s.step = (target - s.current) / float64(s.samples)
}

// Target returns the value being approached.
func (s *Smoother) Target() float64 {
	return s.target
}

// Advance moves the smoother on by n samples and returns the values at the
// start and end of that span.
func (s *Smoother) Advance(n int) (start, end float64) {
	start = s.current
	if s.left <= 0 || n <= 0 {
		return start, s.current
	}
	if n >= s.left {
		s.current = s.target
		s.left = 0
		s.step = 0
		return start, s.current
	}
	s.current += s.step * float64(n)
	s.left -= n
	return start, s.current
}
