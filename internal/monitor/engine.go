// internal/monitor/engine.go
package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/zorkian/chibichonk/internal/snapshot"
)

// EngineConfig holds the throttling thresholds. Passed in per engine so
// tests can run with distinct thresholds; never process-wide.
type EngineConfig struct {
	// TimeInterval is the minimum quiet period between periodic updates.
	TimeInterval time.Duration

	// PercentInterval is the progress milestone width in percent.
	// 0 disables milestone triggers.
	PercentInterval int
}

// Engine is the per-printer transition and throttle state machine.
// Owned exclusively by one worker; no locking, no IO.
type Engine struct {
	cfg EngineConfig

	status        string
	lastNotify    time.Time
	lastMilestone int
	lastProgress  int
	hadPartial    bool
}

// NewEngine initializes monitor state from the first stabilized snapshot
// and returns the initial-connection decision: notify when the snapshot is
// partial (to signal "still waiting") or already in a terminal or active
// status, stay silent in transitional states.
func NewEngine(cfg EngineConfig, first snapshot.Snapshot, now time.Time) (*Engine, Decision) {
	e := &Engine{
		cfg:          cfg,
		status:       first.EffectiveStatus(),
		lastNotify:   now,
		lastProgress: first.ProgressOrZero(),
		hadPartial:   first.Partial(),
	}
	e.lastMilestone = e.milestone(e.lastProgress)

	if first.Partial() {
		return e, Decision{Action: ActionStateChange, Reason: "initial connection, waiting for data"}
	}
	if snapshot.IsTerminal(e.status) || snapshot.IsActive(e.status) {
		return e, Decision{Action: ActionStateChange, Reason: "initial connection"}
	}
	return e, none()
}

// Status returns the last recorded status.
func (e *Engine) Status() string { return e.status }

// Evaluate classifies one snapshot against recorded state, mutates the
// state accordingly, and returns what (if anything) to send.
//
// Priority order is fixed: partial-recovery, then status change, then
// time/milestone throttling.
func (e *Engine) Evaluate(s snapshot.Snapshot, now time.Time) Decision {
	cur := s.EffectiveStatus()
	progress := s.ProgressOrZero()

	// 1. Partial → progress recovery. Fires at most once per recovery:
	// the flag clears here and only a status change can set it again.
	if e.hadPartial && s.HasProgressData() && e.lastProgress == 0 {
		e.hadPartial = false
		e.status = cur
		e.lastNotify = now
		e.lastMilestone = e.milestone(progress)
		e.lastProgress = progress
		return Decision{Action: ActionStateChange, Reason: "received progress data"}
	}

	// 2. Status change. State is always updated; whether anyone hears
	// about it depends on where the transition lands.
	if cur != e.status {
		prev := e.status
		e.status = cur
		e.lastNotify = now
		e.lastMilestone = e.milestone(progress)
		e.lastProgress = progress
		e.hadPartial = s.Partial()

		// Transitional hops (PREPARE, unknown strings) stay silent unless
		// pause is involved or the printer just became active.
		notify := snapshot.IsTerminal(cur) ||
			cur == snapshot.StatusPause ||
			prev == snapshot.StatusPause ||
			(snapshot.IsActive(cur) && !snapshot.IsActive(prev))

		if notify {
			return Decision{
				Action: ActionStateChange,
				Reason: fmt.Sprintf("status %s -> %s", displayStatus(prev), displayStatus(cur)),
			}
		}
		return none()
	}

	// 3. Same status: periodic throttling.
	timeElapsed := now.Sub(e.lastNotify) >= e.cfg.TimeInterval

	curMilestone := e.milestone(progress)
	crossed := e.cfg.PercentInterval > 0 && curMilestone > e.lastMilestone

	if snapshot.IsTerminal(cur) {
		// No periodic chatter for a finished/failed/idle printer, but the
		// timer keeps moving so leaving the terminal state later does not
		// release a burst of queued triggers.
		if timeElapsed {
			e.lastNotify = now
		}
		return none()
	}

	if timeElapsed || crossed {
		var reasons []string
		if timeElapsed {
			reasons = append(reasons, fmt.Sprintf("time (%ds elapsed)", int(e.cfg.TimeInterval.Seconds())))
		}
		if crossed {
			reasons = append(reasons, fmt.Sprintf(
				"progress (%d%% -> %d%%)",
				e.lastMilestone*e.cfg.PercentInterval,
				curMilestone*e.cfg.PercentInterval,
			))
			e.lastMilestone = curMilestone
		}
		e.lastNotify = now
		e.lastProgress = progress
		return Decision{Action: ActionPeriodic, Reason: strings.Join(reasons, ", ")}
	}

	return none()
}

// milestone maps a progress percentage onto the milestone scale.
// Strictly monotonic within a run: Evaluate only ever advances it.
func (e *Engine) milestone(progress int) int {
	if e.cfg.PercentInterval <= 0 {
		return 0
	}
	return progress / e.cfg.PercentInterval
}

func displayStatus(status string) string {
	if status == snapshot.StatusUnknown {
		return "(none)"
	}
	return status
}
