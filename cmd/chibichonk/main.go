// cmd/chibichonk/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zorkian/chibichonk/internal/config"
	"github.com/zorkian/chibichonk/internal/monitor"
	"github.com/zorkian/chibichonk/internal/notify"
)

const shutdownTimeout = 5 * time.Second

func main() {
	var arg string
	if len(os.Args) > 1 {
		arg = os.Args[1]
	}
	cfgPath := config.ResolvePath(arg)

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}

	config.Normalize(cfg)

	logger := log.New(os.Stdout, "", log.LstdFlags)

	// --------------------
	// Shared notifier (one sink, many printers)
	// --------------------

	notifier := notify.NewWebhook(cfg.Discord.WebhookURL, notify.Dependencies{Logger: logger})
	if _, disabled := notifier.(notify.Noop); disabled {
		logger.Printf("webhook delivery disabled (no webhook_url configured)")
	}

	// --------------------
	// Build per-printer workers
	// --------------------

	workers := make([]*monitor.Worker, 0, len(cfg.Printers))
	for _, p := range cfg.Printers {
		w, err := monitor.Build(p, *cfg, notifier, monitor.Dependencies{Logger: logger})
		if err != nil {
			log.Fatalf("worker build failed (printer=%s): %v", p.Name, err)
		}
		workers = append(workers, w)
	}

	logger.Printf("starting monitoring for %d printer(s)", len(cfg.Printers))
	logger.Printf("update intervals: time=%ds progress=%d%%",
		cfg.Discord.UpdateTimeInterval, cfg.Discord.PercentInterval())

	// --------------------
	// Run until signalled, then bounded shutdown
	// --------------------

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	for _, w := range workers {
		w := w
		g.Go(func() error {
			return w.Run(gctx)
		})
	}

	<-ctx.Done()
	logger.Printf("shutting down all printer monitors...")

	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Printf("all monitors stopped")
	case <-time.After(shutdownTimeout):
		// Workers are daemon-style: past the timeout they are abandoned,
		// not force-joined.
		logger.Printf("shutdown timed out after %s, abandoning remaining monitors", shutdownTimeout)
	}
}
