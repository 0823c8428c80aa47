// internal/notify/console.go
package notify

import (
	"fmt"
	"io"
	"log"
	"strings"
)

// Console mirrors notifications to the process log as a multi-line
// human-readable block.
type Console struct {
	logger *log.Logger
}

func NewConsole(logger *log.Logger) *Console {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Console{logger: logger}
}

// Report writes the status block for one event.
func (c *Console) Report(ev Event) {
	s := ev.Snapshot

	status := s.Status
	if status == "" {
		status = "(no status)"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] Status: %s\n", ev.Printer, status)
	b.WriteString(strings.Repeat("-", 50) + "\n")

	if s.Filename != "" {
		fmt.Fprintf(&b, "  File: %s\n", s.Filename)
	}
	if s.BedTemp != nil {
		fmt.Fprintf(&b, "  Bed Temperature: %s\n", tempText(*s.BedTemp, s.BedTarget))
	}
	if s.NozzleTemp != nil {
		fmt.Fprintf(&b, "  Nozzle Temperature: %s\n", tempText(*s.NozzleTemp, s.NozzleTarget))
	}
	if s.Progress != nil {
		fmt.Fprintf(&b, "  Print progress: %d%%\n", *s.Progress)
	}
	if s.CurrentLayer != nil && s.TotalLayers != nil {
		fmt.Fprintf(&b, "  Layer: %d/%d\n", *s.CurrentLayer, *s.TotalLayers)
	}
	if s.RemainingMinutes != nil {
		fmt.Fprintf(&b, "  Time Remaining: %s\n", FormatRemaining(*s.RemainingMinutes))
	}
	if s.PrintSpeed != nil {
		fmt.Fprintf(&b, "  Print Speed: %d%%\n", *s.PrintSpeed)
	}
	if s.FanSpeed != nil {
		fmt.Fprintf(&b, "  Fan Speed: %d%%\n", *s.FanSpeed)
	}

	b.WriteString(strings.Repeat("-", 50))
	c.logger.Print(b.String())
}
