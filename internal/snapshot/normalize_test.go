// internal/snapshot/normalize_test.go
package snapshot

import (
	"testing"
)

func TestNormalize_AbsentFieldsStayAbsent(t *testing.T) {
	s := Normalize(map[string]any{
		"gcode_state": "RUNNING",
	})

	if s.Status != "RUNNING" {
		t.Fatalf("status: got %q", s.Status)
	}
	if s.Progress != nil {
		t.Fatalf("absent progress must stay absent, got %d", *s.Progress)
	}
	if s.BedTemp != nil || s.NozzleTemp != nil {
		t.Fatalf("absent temperatures must stay absent")
	}
	if s.CurrentLayer != nil || s.RemainingMinutes != nil {
		t.Fatalf("absent layer/remaining must stay absent")
	}
}

func TestNormalize_ZeroIsAValue(t *testing.T) {
	s := Normalize(map[string]any{
		"mc_percent": float64(0),
		"bed_temper": float64(0),
	})

	if s.Progress == nil || *s.Progress != 0 {
		t.Fatalf("zero progress must be present-and-zero, got %v", s.Progress)
	}
	if s.BedTemp == nil || *s.BedTemp != 0 {
		t.Fatalf("zero bed temp must be present-and-zero, got %v", s.BedTemp)
	}
}

func TestNormalize_FullReading(t *testing.T) {
	s := Normalize(map[string]any{
		"gcode_state":          "RUNNING",
		"bed_temper":           float64(60.5),
		"bed_target_temper":    float64(65),
		"nozzle_temper":        float64(219.8),
		"nozzle_target_temper": float64(220),
		"mc_percent":           float64(42),
		"layer_num":            float64(130),
		"total_layer_num":      float64(500),
		"mc_remaining_time":    float64(95),
		"spd_mag":              float64(100),
		"cooling_fan_speed":    "90",
		"subtask_name":         "benchy.3mf",
	})

	if s.Status != "RUNNING" || s.Filename != "benchy.3mf" {
		t.Fatalf("string fields: status=%q file=%q", s.Status, s.Filename)
	}
	if s.BedTemp == nil || *s.BedTemp != 60.5 {
		t.Fatalf("bed temp: %v", s.BedTemp)
	}
	if s.Progress == nil || *s.Progress != 42 {
		t.Fatalf("progress: %v", s.Progress)
	}
	if s.CurrentLayer == nil || *s.CurrentLayer != 130 || s.TotalLayers == nil || *s.TotalLayers != 500 {
		t.Fatalf("layers: %v / %v", s.CurrentLayer, s.TotalLayers)
	}
	if s.RemainingMinutes == nil || *s.RemainingMinutes != 95 {
		t.Fatalf("remaining: %v", s.RemainingMinutes)
	}
	if s.FanSpeed == nil || *s.FanSpeed != 90 {
		t.Fatalf("fan speed string not coerced: %v", s.FanSpeed)
	}
}

func TestNormalize_FanSpeedNumericAndString(t *testing.T) {
	s := Normalize(map[string]any{"cooling_fan_speed": "70"})
	if s.FanSpeed == nil || *s.FanSpeed != 70 {
		t.Fatalf("string fan speed: %v", s.FanSpeed)
	}

	s = Normalize(map[string]any{"cooling_fan_speed": float64(55)})
	if s.FanSpeed == nil || *s.FanSpeed != 55 {
		t.Fatalf("numeric fan speed: %v", s.FanSpeed)
	}
}

func TestNormalize_MalformedFieldIsIsolated(t *testing.T) {
	s := Normalize(map[string]any{
		"gcode_state":       "RUNNING",
		"mc_percent":        map[string]any{"oops": true}, // garbage
		"cooling_fan_speed": "not-a-number",
		"layer_num":         float64(12),
	})

	if s.Progress != nil {
		t.Fatalf("malformed progress should be absent, got %v", s.Progress)
	}
	if s.FanSpeed != nil {
		t.Fatalf("malformed fan speed should be absent, got %v", s.FanSpeed)
	}
	// The rest of the reading survives.
	if s.Status != "RUNNING" {
		t.Fatalf("status lost: %q", s.Status)
	}
	if s.CurrentLayer == nil || *s.CurrentLayer != 12 {
		t.Fatalf("layer lost: %v", s.CurrentLayer)
	}
}

func TestNormalize_NilMap(t *testing.T) {
	s := Normalize(nil)
	if !s.Empty() || !s.Partial() {
		t.Fatalf("nil map should yield an empty, partial snapshot")
	}
}

func TestSnapshot_Partial(t *testing.T) {
	full := Snapshot{
		Status:           StatusRunning,
		Progress:         intp(10),
		CurrentLayer:     intp(5),
		RemainingMinutes: intp(60),
	}
	if full.Partial() {
		t.Fatalf("complete snapshot classified partial")
	}

	missing := full
	missing.RemainingMinutes = nil
	if !missing.Partial() {
		t.Fatalf("missing remaining time should be partial")
	}

	noStatus := full
	noStatus.Status = StatusUnknown
	if !noStatus.Partial() {
		t.Fatalf("missing status should be partial")
	}
}

func TestSnapshot_EffectiveStatusInference(t *testing.T) {
	s := Snapshot{
		Progress:         intp(10),
		CurrentLayer:     intp(5),
		RemainingMinutes: intp(120),
	}
	if got := s.EffectiveStatus(); got != StatusRunning {
		t.Fatalf("expected inferred RUNNING, got %q", got)
	}

	// Reported status always wins over inference.
	s.Status = StatusPause
	if got := s.EffectiveStatus(); got != StatusPause {
		t.Fatalf("expected reported PAUSE, got %q", got)
	}

	// Missing any progress field blocks inference.
	s = Snapshot{Progress: intp(10), CurrentLayer: intp(5)}
	if got := s.EffectiveStatus(); got != StatusUnknown {
		t.Fatalf("expected unknown, got %q", got)
	}
}

func TestStatusCategories(t *testing.T) {
	for _, s := range []string{StatusFinish, StatusFailed, StatusIdle} {
		if !IsTerminal(s) {
			t.Errorf("%s should be terminal", s)
		}
		if IsActive(s) {
			t.Errorf("%s should not be active", s)
		}
	}
	for _, s := range []string{StatusRunning, StatusPause} {
		if !IsActive(s) {
			t.Errorf("%s should be active", s)
		}
		if IsTerminal(s) {
			t.Errorf("%s should not be terminal", s)
		}
	}
	for _, s := range []string{StatusPrepare, StatusUnknown, "SLICING"} {
		if IsActive(s) || IsTerminal(s) {
			t.Errorf("%s should be transitional", s)
		}
	}
	for _, s := range []string{StatusFinish, StatusFailed, StatusPause} {
		if !PingWorthy(s) {
			t.Errorf("%s should be ping-worthy", s)
		}
	}
	if PingWorthy(StatusRunning) || PingWorthy(StatusIdle) {
		t.Errorf("RUNNING/IDLE should not be ping-worthy")
	}
}

func intp(v int) *int { return &v }
