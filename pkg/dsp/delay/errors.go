package delay

import "errors"

// Contract violations reported by Engine. Process and ReadDelayed return these
// values unwrapped so the audio path never allocates; Prepare wraps
// ErrInvalidConfiguration with the offending value.
var (
	ErrInvalidConfiguration = errors.New("delay: invalid configuration")
	ErrInvalidBlockLength   = errors.New("delay: invalid block length")
	ErrChannelMismatch      = errors.New("delay: channel mismatch")
	ErrNotPrepared          = errors.New("delay: engine not prepared")
)
