// Command tapdelay-live runs the tap delay on the default duplex audio
// device until interrupted.
//
// Usage:
//
//	tapdelay-live
//	tapdelay-live -rate 44100 -block 256 -delay 300 -feedback 45
//
// Send SIGHUP to reload the .env file and environment: parameter changes
// apply at once, and a new rate or block size restarts the device.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/justyntemme/tapdelay/pkg/config"
	"github.com/justyntemme/tapdelay/pkg/framework/debug"
	"github.com/justyntemme/tapdelay/pkg/host/device"
	"github.com/justyntemme/tapdelay/pkg/tapdelay"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	fs := flag.CommandLine
	envFile := fs.String("env", "", "load settings from this .env file")
	overrides := config.RegisterFlags(fs, true)
	flag.Parse()

	load := func() (config.Config, error) {
		var paths []string
		if *envFile != "" {
			paths = append(paths, *envFile)
		}
		cfg, err := config.Load(paths...)
		if err != nil {
			return cfg, err
		}
		return cfg, overrides.Apply(&cfg)
	}

	cfg, err := load()
	if err != nil {
		return err
	}
	logger, closer, err := cfg.NewLogger("live")
	if err != nil {
		return err
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	p := tapdelay.New()
	cfg.Apply(p.Parameters())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := device.New(cfg.SampleRate, cfg.BlockSize, cfg.Channels, logger)
	go reloadOnHangup(ctx, h, p, cfg, load, logger)

	return h.Run(ctx, p)
}

// reloadOnHangup re-reads the configuration on every SIGHUP.
func reloadOnHangup(ctx context.Context, h *device.Host, p *tapdelay.Processor, cur config.Config,
	load func() (config.Config, error), logger *debug.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
		}

		next, err := load()
		if err != nil {
			logger.Error("reload: %v", err)
			continue
		}
		next.Apply(p.Parameters())
		if next.SampleRate != cur.SampleRate || next.BlockSize != cur.BlockSize {
			if err := h.Reconfigure(next.SampleRate, next.BlockSize); err != nil {
				logger.Error("reconfigure: %v", err)
				continue
			}
		}
		if next.Channels != cur.Channels {
			logger.Warn("channel count changes need a restart; keeping %d", cur.Channels)
			next.Channels = cur.Channels
		}
		logger.Info("reloaded: delay %.0f ms, feedback %.0f%%, mix %.0f%%", next.DelayMs, next.Feedback, next.Mix)
		cur = next
	}
}
