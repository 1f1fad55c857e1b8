// Package config loads tap delay settings from .env files and TAPDELAY_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/justyntemme/tapdelay/pkg/framework/debug"
	"github.com/justyntemme/tapdelay/pkg/framework/param"
)

// EnvPrefix is prepended to every variable name.
const EnvPrefix = "TAPDELAY_"

// Config holds stream, parameter and logging settings.
type Config struct {
	BlockSize  int
	SampleRate float64
	Channels   int

	DelayMs     float64
	Feedback    float64
	Mix         float64
	InputGainDB float64

	LogLevel debug.LogLevel
	LogFile  string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		BlockSize:   512,
		SampleRate:  48000,
		Channels:    2,
		DelayMs:     250,
		Feedback:    30,
		Mix:         50,
		InputGainDB: -1.94,
		LogLevel:    debug.LogLevelInfo,
	}
}

// Load reads the given .env files, or ".env" when none are named, and then
// the environment. A missing default .env is not an error; a missing named
// file is. Variables already set in the environment win over file values.
func Load(paths ...string) (Config, error) {
	if err := godotenv.Load(paths...); err != nil {
		if len(paths) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load env file: %w", err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from defaults overridden by TAPDELAY_* variables.
func FromEnv() (Config, error) {
	c := Default()

	var err error
	if c.BlockSize, err = envInt("BLOCK_SIZE", c.BlockSize); err != nil {
		return Config{}, err
	}
	if c.SampleRate, err = envFloat("SAMPLE_RATE", c.SampleRate); err != nil {
		return Config{}, err
	}
	if c.Channels, err = envInt("CHANNELS", c.Channels); err != nil {
		return Config{}, err
	}
	if c.DelayMs, err = envFloat("DELAY_MS", c.DelayMs); err != nil {
		return Config{}, err
	}
	if c.Feedback, err = envFloat("FEEDBACK", c.Feedback); err != nil {
		return Config{}, err
	}
	if c.Mix, err = envFloat("MIX", c.Mix); err != nil {
		return Config{}, err
	}
	if c.InputGainDB, err = envFloat("INPUT_GAIN_DB", c.InputGainDB); err != nil {
		return Config{}, err
	}
	if v, ok := os.LookupEnv(EnvPrefix + "LOG_LEVEL"); ok {
		if c.LogLevel, err = debug.ParseLevel(v); err != nil {
			return Config{}, fmt.Errorf("%sLOG_LEVEL: %w", EnvPrefix, err)
		}
	}
	if v, ok := os.LookupEnv(EnvPrefix + "LOG_FILE"); ok {
		c.LogFile = v
	}

	return c, c.Validate()
}

// Validate checks every field against its allowed range.
func (c Config) Validate() error {
	switch {
	case c.BlockSize <= 0:
		return fmt.Errorf("block size %d must be positive", c.BlockSize)
	case c.SampleRate <= 0:
		return fmt.Errorf("sample rate %g must be positive", c.SampleRate)
	case c.Channels != 1 && c.Channels != 2:
		return fmt.Errorf("channels %d must be 1 or 2", c.Channels)
	case c.DelayMs < 0 || c.DelayMs > 1000:
		return fmt.Errorf("delay %g ms outside 0..1000", c.DelayMs)
	case c.Feedback < 0 || c.Feedback > 95:
		return fmt.Errorf("feedback %g%% outside 0..95", c.Feedback)
	case c.Mix < 0 || c.Mix > 100:
		return fmt.Errorf("mix %g%% outside 0..100", c.Mix)
	case c.InputGainDB < -60 || c.InputGainDB > 0:
		return fmt.Errorf("input gain %g dB outside -60..0", c.InputGainDB)
	}
	return nil
}

// Apply copies the parameter settings into a registry by state key.
// Parameters the registry does not have are skipped.
func (c Config) Apply(params *param.Registry) {
	for key, v := range map[string]float64{
		"delay_time": c.DelayMs,
		"feedback":   c.Feedback,
		"mix":        c.Mix,
		"input_gain": c.InputGainDB,
	} {
		if p := params.Lookup(key); p != nil {
			p.SetPlainValue(v)
		}
	}
}

func envInt(name string, def int) (int, error) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
	}
	return n, nil
}

func envFloat(name string, def float64) (float64, error) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok || v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
	}
	return f, nil
}

// NewLogger returns a logger at the configured level, writing to LogFile
// when set and to stderr otherwise. The closer is nil for stderr.
func (c Config) NewLogger(prefix string) (*debug.Logger, io.Closer, error) {
	if c.LogFile == "" {
		l := debug.New(os.Stderr, prefix, debug.DefaultFlags)
		l.SetLevel(c.LogLevel)
		return l, nil, nil
	}
	l, closer, err := debug.NewFileLogger(c.LogFile, prefix, debug.DefaultFlags)
	if err != nil {
		return nil, nil, err
	}
	l.SetLevel(c.LogLevel)
	return l, closer, nil
}
