// internal/monitor/decision.go
package monitor

// Action classifies the outcome of one snapshot evaluation.
type Action int

const (
	// ActionNone records state silently; nothing is sent.
	ActionNone Action = iota

	// ActionStateChange notifies about a status transition (or the
	// partial-to-complete recovery event).
	ActionStateChange

	// ActionPeriodic notifies because of elapsed time or a crossed
	// progress milestone, without any status transition.
	ActionPeriodic
)

// Decision is the tagged result of Engine.Evaluate. Exactly one dispatch
// point consumes it; the engine itself never sends anything.
type Decision struct {
	Action Action
	Reason string
}

func none() Decision { return Decision{Action: ActionNone} }
