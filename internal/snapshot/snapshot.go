// internal/snapshot/snapshot.go
package snapshot

// Snapshot is one normalized telemetry reading.
// It contains no logic and no memory of the past beyond current state.
//
// Pointer fields distinguish "absent" from a legitimate zero: a printer at
// 0% progress with a cold bed is a valid reading, a printer that has not
// reported progress yet is not the same thing.
type Snapshot struct {
	Status string // "" means the printer has not reported a status

	BedTemp      *float64 // °C
	BedTarget    *float64 // °C
	NozzleTemp   *float64 // °C
	NozzleTarget *float64 // °C

	Progress         *int // 0–100
	CurrentLayer     *int
	TotalLayers      *int
	RemainingMinutes *int

	PrintSpeed *int // percent
	FanSpeed   *int // percent

	Filename string // "" means no active file reported
}

// Partial reports whether the reading is missing any of the fields the
// monitor needs to describe a print: status, progress, current layer, or
// remaining time.
func (s Snapshot) Partial() bool {
	return s.Status == StatusUnknown ||
		s.Progress == nil ||
		s.CurrentLayer == nil ||
		s.RemainingMinutes == nil
}

// EffectiveStatus returns the reported status, or RUNNING when the status
// field is absent but progress, layer and remaining time are all present.
// Some firmware revisions delay gcode_state well past the progress fields.
func (s Snapshot) EffectiveStatus() string {
	if s.Status != StatusUnknown {
		return s.Status
	}
	if s.Progress != nil && s.CurrentLayer != nil && s.RemainingMinutes != nil {
		return StatusRunning
	}
	return StatusUnknown
}

// HasProgressData reports whether progress, current layer and remaining
// time are all present.
func (s Snapshot) HasProgressData() bool {
	return s.Progress != nil && s.CurrentLayer != nil && s.RemainingMinutes != nil
}

// Empty reports whether the reading carries nothing worth forwarding:
// no status, no temperatures, no progress.
func (s Snapshot) Empty() bool {
	return s.Status == StatusUnknown &&
		s.BedTemp == nil &&
		s.NozzleTemp == nil &&
		s.Progress == nil
}

// ProgressOrZero returns the progress value, treating absent as 0.
func (s Snapshot) ProgressOrZero() int {
	if s.Progress == nil {
		return 0
	}
	return *s.Progress
}
