// internal/monitor/worker.go
package monitor

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/zorkian/chibichonk/internal/notify"
	"github.com/zorkian/chibichonk/internal/snapshot"
	"github.com/zorkian/chibichonk/internal/telemetry"
)

// WorkerConfig is the minimal runtime config one worker needs.
type WorkerConfig struct {
	Printer    string
	PingUserID string
	Debug      bool

	PollInterval time.Duration

	// Warm-up: keep polling within Budget until a status arrives, or until
	// temperatures are present and at least Grace has elapsed.
	WarmupBudget time.Duration
	WarmupStep   time.Duration
	WarmupGrace  time.Duration

	Engine EngineConfig
}

// Dependencies allow test overrides for clock and logging.
type Dependencies struct {
	Logger *log.Logger
	Now    func() time.Time
}

// Worker monitors a single printer on its own timeline.
// It owns its Engine exclusively; nothing is shared across printers.
type Worker struct {
	cfg      WorkerConfig
	source   telemetry.Source
	notifier notify.Notifier
	console  *notify.Console
	logger   *log.Logger
	now      func() time.Time
}

const (
	defaultPollInterval = 500 * time.Millisecond
	defaultWarmupBudget = 30 * time.Second
	defaultWarmupStep   = 500 * time.Millisecond
	defaultWarmupGrace  = 5 * time.Second
)

// NewWorker creates a worker with immutable config.
func NewWorker(cfg WorkerConfig, src telemetry.Source, notifier notify.Notifier, deps Dependencies) (*Worker, error) {
	if cfg.Printer == "" {
		return nil, errors.New("worker: printer name required")
	}
	if src == nil {
		return nil, errors.New("worker: telemetry source required")
	}
	if notifier == nil {
		notifier = notify.Noop{}
	}

	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.WarmupBudget <= 0 {
		cfg.WarmupBudget = defaultWarmupBudget
	}
	if cfg.WarmupStep <= 0 {
		cfg.WarmupStep = defaultWarmupStep
	}
	if cfg.WarmupGrace <= 0 {
		cfg.WarmupGrace = defaultWarmupGrace
	}

	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	return &Worker{
		cfg:      cfg,
		source:   src,
		notifier: notifier,
		console:  notify.NewConsole(logger),
		logger:   logger,
		now:      now,
	}, nil
}

// Run connects, warms up, and monitors until ctx is cancelled.
// All failures are contained here: a broken printer takes down its own
// worker only, and the source is always disconnected on the way out.
func (w *Worker) Run(ctx context.Context) error {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Printf("[%s] worker failure: %v", w.cfg.Printer, r)
		}
		w.logger.Printf("[%s] disconnecting...", w.cfg.Printer)
		if err := w.source.Close(); err != nil {
			w.logger.Printf("[%s] disconnect: %v", w.cfg.Printer, err)
		}
		w.logger.Printf("[%s] disconnected", w.cfg.Printer)
	}()

	w.logger.Printf("[%s] connecting...", w.cfg.Printer)
	if err := w.source.Connect(); err != nil {
		w.logger.Printf("[%s] connect failed: %v", w.cfg.Printer, err)
		return nil
	}
	w.logger.Printf("[%s] connected, waiting for printer data...", w.cfg.Printer)

	// Ask for a full state push; older firmware rejects this, which is fine.
	if err := w.source.RequestRefresh(); err != nil {
		w.logger.Printf("[%s] full refresh unsupported: %v", w.cfg.Printer, err)
	}

	first, ok := w.warmUp(ctx)
	if !ok {
		return nil // cancelled mid warm-up
	}

	engine, dec := NewEngine(w.cfg.Engine, first, w.now())
	w.dispatch(ctx, dec, first, first.Partial())

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(w.cfg.PollInterval):
		}

		snap := w.read()
		dec := engine.Evaluate(snap, w.now())
		w.dispatch(ctx, dec, snap, false)
	}
}

// read pulls and normalizes the latest field map. A read error degrades to
// an entirely absent snapshot; the loop continues.
func (w *Worker) read() snapshot.Snapshot {
	fields, err := w.source.Fields()
	if err != nil {
		w.logger.Printf("[%s] telemetry read: %v", w.cfg.Printer, err)
		return snapshot.Snapshot{}
	}
	if w.cfg.Debug {
		w.logger.Printf("[%s] raw fields: %v", w.cfg.Printer, fields)
	}
	return snapshot.Normalize(fields)
}

// warmUp polls until the snapshot is usable or the budget is spent.
// Budget exhaustion is a warning, never fatal: monitoring proceeds with
// whatever was last observed. ok is false only on cancellation.
func (w *Worker) warmUp(ctx context.Context) (snap snapshot.Snapshot, ok bool) {
	start := w.now()
	deadline := start.Add(w.cfg.WarmupBudget)

	for {
		select {
		case <-ctx.Done():
			return snap, false
		case <-time.After(w.cfg.WarmupStep):
		}

		snap = w.read()
		elapsed := w.now().Sub(start)

		hasStatus := snap.Status != snapshot.StatusUnknown
		hasTemps := snap.BedTemp != nil && snap.NozzleTemp != nil

		if hasStatus || (hasTemps && elapsed >= w.cfg.WarmupGrace) {
			w.logger.Printf("[%s] data received after %s", w.cfg.Printer, elapsed.Round(100*time.Millisecond))
			return snap, true
		}

		if !w.now().Before(deadline) {
			w.logger.Printf("[%s] warning: no usable data after %s, continuing anyway", w.cfg.Printer, w.cfg.WarmupBudget)
			return snap, true
		}
	}
}

// dispatch is the single point that turns a Decision into output.
func (w *Worker) dispatch(ctx context.Context, dec Decision, snap snapshot.Snapshot, waiting bool) {
	if dec.Action == ActionNone {
		return
	}

	if dec.Action == ActionPeriodic {
		w.logger.Printf("[%s] periodic update (%s)", w.cfg.Printer, dec.Reason)
	} else {
		w.logger.Printf("[%s] state change (%s)", w.cfg.Printer, dec.Reason)
	}

	ev := notify.Event{
		Printer:        w.cfg.Printer,
		Snapshot:       snap,
		StateChange:    dec.Action == ActionStateChange,
		WaitingForData: waiting,
		PingUserID:     w.cfg.PingUserID,
	}

	w.console.Report(ev)

	// At-most-once: a failed delivery is logged and dropped.
	if err := w.notifier.Notify(ctx, ev); err != nil {
		w.logger.Printf("[%s] notification failed: %v", w.cfg.Printer, err)
	}
}
