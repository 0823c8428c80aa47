// internal/snapshot/normalize.go
package snapshot

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Raw field names as they appear in the printer's MQTT "print" report.
const (
	FieldStatus        = "gcode_state"
	FieldBedTemp       = "bed_temper"
	FieldBedTarget     = "bed_target_temper"
	FieldNozzleTemp    = "nozzle_temper"
	FieldNozzleTarget  = "nozzle_target_temper"
	FieldProgress      = "mc_percent"
	FieldCurrentLayer  = "layer_num"
	FieldTotalLayers   = "total_layer_num"
	FieldRemainingTime = "mc_remaining_time"
	FieldPrintSpeed    = "spd_mag"
	FieldFanSpeed      = "cooling_fan_speed"
	FieldFilename      = "subtask_name"
)

// Normalize maps a raw telemetry field map into a Snapshot.
// Extraction is isolated per field: one malformed value degrades to
// "absent" without touching the rest of the reading. A nil or empty map
// yields the zero Snapshot.
func Normalize(raw map[string]any) Snapshot {
	var s Snapshot
	if len(raw) == 0 {
		return s
	}

	if v, ok := asString(raw[FieldStatus]); ok {
		s.Status = v
	}

	s.BedTemp = asFloat(raw[FieldBedTemp])
	s.BedTarget = asFloat(raw[FieldBedTarget])
	s.NozzleTemp = asFloat(raw[FieldNozzleTemp])
	s.NozzleTarget = asFloat(raw[FieldNozzleTarget])

	s.Progress = asInt(raw[FieldProgress])
	s.CurrentLayer = asInt(raw[FieldCurrentLayer])
	s.TotalLayers = asInt(raw[FieldTotalLayers])
	s.RemainingMinutes = asInt(raw[FieldRemainingTime])

	s.PrintSpeed = asInt(raw[FieldPrintSpeed])

	// Fan speed arrives as a numeric string on most firmware.
	s.FanSpeed = asInt(raw[FieldFanSpeed])

	if v, ok := asString(raw[FieldFilename]); ok {
		s.Filename = v
	}

	return s
}

// ---- per-field coercion (nil in, nil out; failure is "absent") ----

func asString(v any) (string, bool) {
	str, ok := v.(string)
	if !ok || str == "" {
		return "", false
	}
	return str, true
}

func asFloat(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case float32:
		f := float64(n)
		return &f
	case int:
		f := float64(n)
		return &f
	case int64:
		f := float64(n)
		return &f
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return nil
		}
		return &f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil
		}
		return &f
	}
	return nil
}

func asInt(v any) *int {
	switch n := v.(type) {
	case int:
		return &n
	case int64:
		i := int(n)
		return &i
	case float64:
		i := int(n)
		return &i
	case float32:
		i := int(n)
		return &i
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return nil
		}
		i := int(f)
		return &i
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return nil
		}
		return &i
	}
	return nil
}
