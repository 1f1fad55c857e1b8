// Command tapdelay-render runs a WAV file through the tap delay and writes
// the result, echo tail included.
//
// Usage:
//
//	tapdelay-render input.wav output.wav
//	tapdelay-render -delay 375 -feedback 55 -mix 40 input.wav output.wav
//	tapdelay-render -state preset.tds -save-state last.tds input.wav output.wav
//
// Settings come from a .env file and TAPDELAY_* variables first; flags
// override them.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/justyntemme/tapdelay/pkg/config"
	"github.com/justyntemme/tapdelay/pkg/host"
	"github.com/justyntemme/tapdelay/pkg/host/wavfile"
	"github.com/justyntemme/tapdelay/pkg/tapdelay"
)

const minRequiredArgs = 2

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() (err error) {
	fs := flag.CommandLine
	envFile := fs.String("env", "", "load settings from this .env file")
	bitDepth := fs.Int("bits", 0, "output bit depth (8, 16, 24, 32); 0 keeps the input depth")
	statePath := fs.String("state", "", "load parameter state from this file before rendering")
	savePath := fs.String("save-state", "", "write the parameter state used to this file")
	overrides := config.RegisterFlags(fs, false)
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.wav output.wav\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		return fmt.Errorf("insufficient arguments")
	}

	var cfg config.Config
	if *envFile != "" {
		cfg, err = config.Load(*envFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if err := overrides.Apply(&cfg); err != nil {
		return err
	}

	logger, closer, err := cfg.NewLogger("render")
	if err != nil {
		return err
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	p := tapdelay.New()
	cfg.Apply(p.Parameters())
	if *statePath != "" {
		if err := loadState(p, *statePath); err != nil {
			return err
		}
		logger.Info("loaded state from %s", *statePath)
	}

	input, err := wavfile.Open(args[0])
	if err != nil {
		return err
	}
	defer func() { _ = input.Close() }()

	depth := *bitDepth
	if depth == 0 {
		depth = input.BitDepth()
	}
	output, err := wavfile.Create(args[1], int(input.SampleRate()), depth, input.Channels())
	if err != nil {
		return err
	}
	// The header is only final once Close succeeds.
	defer func() {
		if closeErr := output.Close(); err == nil {
			err = closeErr
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	driver := host.NewDriver(input, output, cfg.BlockSize, logger)
	if err := driver.Run(ctx, p); err != nil {
		return fmt.Errorf("render %s: %w", args[0], err)
	}
	logger.Info("wrote %s (%d-bit): %s", args[1], depth, driver.Profile())

	if *savePath != "" {
		if err := saveState(p, *savePath); err != nil {
			return err
		}
	}
	return nil
}

func loadState(p *tapdelay.Processor, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open state: %w", err)
	}
	defer func() { _ = f.Close() }()
	return p.LoadState(f)
}

func saveState(p *tapdelay.Processor, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create state: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()
	return p.SaveState(f)
}
