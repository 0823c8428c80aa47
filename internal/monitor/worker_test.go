// internal/monitor/worker_test.go
package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/zorkian/chibichonk/internal/notify"
	"github.com/zorkian/chibichonk/internal/snapshot"
)

// ---- fakes ----

type fakeSource struct {
	mu         sync.Mutex
	fields     map[string]any
	readErr    error
	connectErr error
	refreshErr error
	refreshed  bool
	closed     bool
}

func (f *fakeSource) Connect() error { return f.connectErr }

func (f *fakeSource) RequestRefresh() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshed = true
	return f.refreshErr
}

func (f *fakeSource) Fields() (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, f.readErr
	}
	out := make(map[string]any, len(f.fields))
	for k, v := range f.fields {
		out[k] = v
	}
	return out, nil
}

func (f *fakeSource) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeSource) set(fields map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields = fields
}

func (f *fakeSource) wasClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []notify.Event
	err    error
	ch     chan notify.Event
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{ch: make(chan notify.Event, 32)}
}

func (f *fakeNotifier) Notify(_ context.Context, ev notify.Event) error {
	f.mu.Lock()
	f.events = append(f.events, ev)
	f.mu.Unlock()
	select {
	case f.ch <- ev:
	default:
	}
	return f.err
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

// ---- helpers ----

func testWorkerConfig() WorkerConfig {
	return WorkerConfig{
		Printer:      "voron",
		PollInterval: 2 * time.Millisecond,
		WarmupBudget: 50 * time.Millisecond,
		WarmupStep:   time.Millisecond,
		WarmupGrace:  time.Millisecond,
		Engine: EngineConfig{
			TimeInterval:    time.Hour,
			PercentInterval: 25,
		},
	}
}

func runningFields() map[string]any {
	return map[string]any{
		"gcode_state":       "RUNNING",
		"mc_percent":        float64(10),
		"layer_num":         float64(5),
		"total_layer_num":   float64(100),
		"mc_remaining_time": float64(120),
	}
}

func waitEvent(t *testing.T, n *fakeNotifier) notify.Event {
	t.Helper()
	select {
	case ev := <-n.ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for notification")
		return notify.Event{}
	}
}

func runWorker(t *testing.T, w *Worker) (cancel func(), done chan struct{}) {
	t.Helper()
	ctx, cancelCtx := context.WithCancel(context.Background())
	done = make(chan struct{})
	go func() {
		defer close(done)
		if err := w.Run(ctx); err != nil {
			t.Errorf("Run err=%v", err)
		}
	}()
	return cancelCtx, done
}

func waitDone(t *testing.T, done chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("worker did not stop")
	}
}

// ---- tests ----

func TestWorker_InitialNotificationForActivePrinter(t *testing.T) {
	src := &fakeSource{fields: runningFields()}
	n := newFakeNotifier()

	w, err := NewWorker(testWorkerConfig(), src, n, Dependencies{})
	if err != nil {
		t.Fatalf("NewWorker err=%v", err)
	}

	cancel, done := runWorker(t, w)

	ev := waitEvent(t, n)
	if !ev.StateChange {
		t.Fatalf("initial notification should be a state change")
	}
	if ev.Snapshot.Status != snapshot.StatusRunning {
		t.Fatalf("initial snapshot status: %q", ev.Snapshot.Status)
	}
	if ev.WaitingForData {
		t.Fatalf("complete snapshot should not be flagged waiting")
	}

	cancel()
	waitDone(t, done)

	if !src.wasClosed() {
		t.Fatalf("source not disconnected on shutdown")
	}
}

func TestWorker_WarmupBudgetExhaustedProceeds(t *testing.T) {
	src := &fakeSource{} // never produces data
	n := newFakeNotifier()

	cfg := testWorkerConfig()
	cfg.WarmupBudget = 10 * time.Millisecond

	w, err := NewWorker(cfg, src, n, Dependencies{})
	if err != nil {
		t.Fatalf("NewWorker err=%v", err)
	}

	cancel, done := runWorker(t, w)

	// The empty snapshot is partial, so an initial waiting notification
	// still fires after the budget runs out.
	ev := waitEvent(t, n)
	if !ev.StateChange || !ev.WaitingForData {
		t.Fatalf("expected waiting state-change, got %+v", ev)
	}

	cancel()
	waitDone(t, done)
}

func TestWorker_ConnectFailureIsContained(t *testing.T) {
	src := &fakeSource{connectErr: errors.New("boom")}
	n := newFakeNotifier()

	w, err := NewWorker(testWorkerConfig(), src, n, Dependencies{})
	if err != nil {
		t.Fatalf("NewWorker err=%v", err)
	}

	// Run must return nil (the failure is logged, not propagated) and
	// still disconnect.
	if err := w.Run(context.Background()); err != nil {
		t.Fatalf("Run err=%v", err)
	}
	if !src.wasClosed() {
		t.Fatalf("source not closed after connect failure")
	}
	if n.count() != 0 {
		t.Fatalf("no notifications expected, got %d", n.count())
	}
}

func TestWorker_RefreshFailureIgnored(t *testing.T) {
	src := &fakeSource{fields: runningFields(), refreshErr: errors.New("unsupported")}
	n := newFakeNotifier()

	w, err := NewWorker(testWorkerConfig(), src, n, Dependencies{})
	if err != nil {
		t.Fatalf("NewWorker err=%v", err)
	}

	cancel, done := runWorker(t, w)

	waitEvent(t, n) // still reaches the initial notification

	cancel()
	waitDone(t, done)
}

func TestWorker_ReadErrorsKeepLoopAlive(t *testing.T) {
	src := &fakeSource{fields: runningFields()}
	n := newFakeNotifier()

	w, err := NewWorker(testWorkerConfig(), src, n, Dependencies{})
	if err != nil {
		t.Fatalf("NewWorker err=%v", err)
	}

	cancel, done := runWorker(t, w)
	waitEvent(t, n)

	// Telemetry starts failing; each failed read degrades to an absent
	// snapshot and the loop keeps going.
	src.mu.Lock()
	src.readErr = errors.New("link down")
	src.mu.Unlock()

	time.Sleep(20 * time.Millisecond)

	cancel()
	waitDone(t, done)

	if !src.wasClosed() {
		t.Fatalf("source not closed")
	}
}

func TestWorker_StatusChangeNotifies(t *testing.T) {
	src := &fakeSource{fields: runningFields()}
	n := newFakeNotifier()

	w, err := NewWorker(testWorkerConfig(), src, n, Dependencies{})
	if err != nil {
		t.Fatalf("NewWorker err=%v", err)
	}

	cancel, done := runWorker(t, w)
	waitEvent(t, n) // initial RUNNING

	fields := runningFields()
	fields["gcode_state"] = "FINISH"
	fields["mc_percent"] = float64(100)
	src.set(fields)

	ev := waitEvent(t, n)
	if !ev.StateChange {
		t.Fatalf("expected state-change notification")
	}
	if ev.Snapshot.Status != snapshot.StatusFinish {
		t.Fatalf("expected FINISH snapshot, got %q", ev.Snapshot.Status)
	}

	cancel()
	waitDone(t, done)
}

func TestWorker_NotifierFailureDoesNotStopWorker(t *testing.T) {
	src := &fakeSource{fields: runningFields()}
	n := newFakeNotifier()
	n.err = errors.New("webhook down")

	w, err := NewWorker(testWorkerConfig(), src, n, Dependencies{})
	if err != nil {
		t.Fatalf("NewWorker err=%v", err)
	}

	cancel, done := runWorker(t, w)
	waitEvent(t, n)

	// Trigger another notification; the previous failure must not have
	// killed the loop.
	fields := runningFields()
	fields["gcode_state"] = "PAUSE"
	src.set(fields)
	waitEvent(t, n)

	cancel()
	waitDone(t, done)
}

type panickyNotifier struct{}

func (panickyNotifier) Notify(context.Context, notify.Event) error { panic("kaboom") }

func TestWorker_PanicIsContainedAndSourceClosed(t *testing.T) {
	src := &fakeSource{fields: runningFields()}

	w, err := NewWorker(testWorkerConfig(), src, panickyNotifier{}, Dependencies{})
	if err != nil {
		t.Fatalf("NewWorker err=%v", err)
	}

	if err := w.Run(context.Background()); err != nil {
		t.Fatalf("Run err=%v", err)
	}
	if !src.wasClosed() {
		t.Fatalf("source not closed after panic")
	}
}
