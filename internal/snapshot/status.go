// internal/snapshot/status.go
package snapshot

// Printer status vocabulary as reported over MQTT (gcode_state).
// These values come from the printer firmware and MUST NOT be configurable.

// ---- STATUS CODES ----

const StatusRunning = "RUNNING"
const StatusPause = "PAUSE"
const StatusFinish = "FINISH"
const StatusFailed = "FAILED"
const StatusIdle = "IDLE"
const StatusPrepare = "PREPARE"

// StatusUnknown is the absent-status sentinel. The printer never sends it.
const StatusUnknown = ""

// ---- CATEGORIES ----

// IsTerminal reports whether a status ends or suspends the monitoring
// cadence: no periodic updates are worth sending while in one of these.
func IsTerminal(status string) bool {
	switch status {
	case StatusFinish, StatusFailed, StatusIdle:
		return true
	}
	return false
}

// IsActive reports whether the printer is actively working a job.
func IsActive(status string) bool {
	switch status {
	case StatusRunning, StatusPause:
		return true
	}
	return false
}

// PingWorthy reports whether arriving at this status justifies mentioning
// the configured recipient. Only ever consulted on state changes.
func PingWorthy(status string) bool {
	switch status {
	case StatusFinish, StatusFailed, StatusPause:
		return true
	}
	return false
}
