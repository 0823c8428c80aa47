// internal/notify/notifier.go
package notify

import (
	"context"

	"github.com/zorkian/chibichonk/internal/snapshot"
)

// Event is one notification-worthy evaluation result.
// It carries everything needed to derive the outbound message; the
// notifier itself holds no monitoring state and makes no decisions.
type Event struct {
	Printer  string
	Snapshot snapshot.Snapshot

	// StateChange distinguishes transition notifications from periodic
	// "still going" updates. Mentions are only ever attached to the former.
	StateChange bool

	// WaitingForData forces the waiting rendering even before the engine
	// has classified the snapshot (used for the initial partial send).
	WaitingForData bool

	// PingUserID is the recipient to mention, empty when unconfigured.
	PingUserID string
}

// Notifier is the delivery-only contract for notifications.
// It receives an event and delivers it verbatim.
// No logic, no state, no interpretation.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// Noop is returned when no webhook is configured; the monitor keeps its
// dispatch path identical either way.
type Noop struct{}

func (Noop) Notify(context.Context, Event) error { return nil }
