// Package debug provides contract checks for real-time audio code.
//
// The checks are only active when building with the 'debug' build tag:
//
//	go test -tags debug ./...
//
// In a debug build a failed check panics with the supplied message, so a
// broken host/processor contract shows up immediately in tests. In a
// production build every function is a no-op and the caller is expected to
// degrade gracefully (for example by passing audio through unmodified).
//
//	if err := engine.Process(block, g0, g1); err != nil {
//	    debug.Assert(false, "delay write rejected block")
//	    ctx.PassThrough()
//	    return
//	}
package debug
