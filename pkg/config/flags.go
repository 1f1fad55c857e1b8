package config

import (
	"flag"
	"fmt"

	"github.com/justyntemme/tapdelay/pkg/framework/debug"
)

// Flags holds command-line overrides registered on a FlagSet.
type Flags struct {
	fs *flag.FlagSet

	blockSize  int
	sampleRate float64
	channels   int
	delayMs    float64
	feedback   float64
	mix        float64
	gainDB     float64
	logLevel   string
	logFile    string
}

// RegisterFlags adds the shared tap delay flags to fs. Stream format flags
// (rate, channels) are only added when stream is true. Defaults shown in
// help text are the built-in defaults.
func RegisterFlags(fs *flag.FlagSet, stream bool) *Flags {
	d := Default()
	f := &Flags{fs: fs}

	fs.IntVar(&f.blockSize, "block", d.BlockSize, "block size in frames")
	if stream {
		fs.Float64Var(&f.sampleRate, "rate", d.SampleRate, "sample rate in Hz")
		fs.IntVar(&f.channels, "channels", d.Channels, "channel count (1 or 2)")
	}
	fs.Float64Var(&f.delayMs, "delay", d.DelayMs, "delay time in ms (0-1000)")
	fs.Float64Var(&f.feedback, "feedback", d.Feedback, "feedback in percent (0-95)")
	fs.Float64Var(&f.mix, "mix", d.Mix, "wet mix in percent (0-100)")
	fs.Float64Var(&f.gainDB, "gain", d.InputGainDB, "input gain in dB (-60-0)")
	fs.StringVar(&f.logLevel, "log-level", d.LogLevel.String(), "log level: debug, info, warn, error, off")
	fs.StringVar(&f.logFile, "log-file", "", "append logs to this file instead of stderr")
	return f
}

// Apply copies every flag the user set explicitly onto c and validates the
// result.
func (f *Flags) Apply(c *Config) error {
	var err error
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "block":
			c.BlockSize = f.blockSize
		case "rate":
			c.SampleRate = f.sampleRate
		case "channels":
			c.Channels = f.channels
		case "delay":
			c.DelayMs = f.delayMs
		case "feedback":
			c.Feedback = f.feedback
		case "mix":
			c.Mix = f.mix
		case "gain":
			c.InputGainDB = f.gainDB
		case "log-level":
			level, perr := debug.ParseLevel(f.logLevel)
			if perr != nil && err == nil {
				err = fmt.Errorf("-log-level: %w", perr)
			}
			c.LogLevel = level
		case "log-file":
			c.LogFile = f.logFile
		}
	})
	if err != nil {
		return err
	}
	return c.Validate()
}
