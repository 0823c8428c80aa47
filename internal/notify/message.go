// internal/notify/message.go
package notify

import (
	"fmt"
	"strings"

	"github.com/zorkian/chibichonk/internal/snapshot"
)

// Status markers and embed colors, keyed by status.
// Layout is contract with the Discord side. No IO. No side effects.

const (
	markerActive   = "🟢"
	markerPaused   = "🟠"
	markerFailed   = "🔴"
	markerFinished = "🔵"
	markerIdle     = "⚪"
	markerUnknown  = "🟡"
)

const (
	colorActive   = 0x00ff00
	colorPaused   = 0xffa500
	colorFailed   = 0xff0000
	colorFinished = 0x3498db
	colorIdle     = 0x95a5a6
	colorUnknown  = 0xffbf00 // partial or unrecognized state
)

const unknownToken = "unknown"

const waitingStatusText = "Waiting for data..."

func markerFor(status string) string {
	switch status {
	case snapshot.StatusRunning, snapshot.StatusPrepare:
		return markerActive
	case snapshot.StatusPause:
		return markerPaused
	case snapshot.StatusFailed:
		return markerFailed
	case snapshot.StatusFinish:
		return markerFinished
	case snapshot.StatusIdle:
		return markerIdle
	}
	return markerUnknown
}

func colorFor(status string) int {
	switch status {
	case snapshot.StatusRunning, snapshot.StatusPrepare:
		return colorActive
	case snapshot.StatusPause:
		return colorPaused
	case snapshot.StatusFailed:
		return colorFailed
	case snapshot.StatusFinish:
		return colorFinished
	case snapshot.StatusIdle:
		return colorIdle
	}
	return colorUnknown
}

// ContentLine derives the one-line summary carried in the webhook
// "content" field, including the mention token when the event qualifies.
func ContentLine(ev Event) string {
	s := ev.Snapshot

	statusText := s.EffectiveStatus()
	if ev.WaitingForData || statusText == snapshot.StatusUnknown {
		statusText = waitingStatusText
	}

	progress := unknownToken
	layer := unknownToken
	remaining := unknownToken
	if s.Progress != nil {
		progress = fmt.Sprintf("%d%%", *s.Progress)
	}
	if s.CurrentLayer != nil {
		if s.TotalLayers != nil {
			layer = fmt.Sprintf("%d/%d", *s.CurrentLayer, *s.TotalLayers)
		} else {
			layer = fmt.Sprintf("%d", *s.CurrentLayer)
		}
	}
	if s.RemainingMinutes != nil {
		remaining = FormatRemaining(*s.RemainingMinutes)
	}

	line := fmt.Sprintf("%s [%s] %s | progress %s | layer %s | remaining %s",
		markerFor(ev.Snapshot.EffectiveStatus()), ev.Printer, statusText, progress, layer, remaining)

	if ev.StateChange && ev.PingUserID != "" && snapshot.PingWorthy(s.EffectiveStatus()) {
		line += fmt.Sprintf(" <@%s>", ev.PingUserID)
	}

	return line
}

// FormatRemaining renders minutes as "2h 15m" or "45m".
func FormatRemaining(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	h := minutes / 60
	m := minutes % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// ---- embed derivation (Discord payload layout) ----

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embed struct {
	Title     string       `json:"title"`
	Color     int          `json:"color"`
	Fields    []embedField `json:"fields"`
	Timestamp string       `json:"timestamp,omitempty"`
}

type webhookPayload struct {
	Content string  `json:"content"`
	Embeds  []embed `json:"embeds"`
}

// buildEmbed mirrors the snapshot into embed fields, omitting absent
// values entirely rather than rendering zeros.
func buildEmbed(ev Event, timestamp string) embed {
	s := ev.Snapshot

	title := fmt.Sprintf("🖨️ %s - Update", ev.Printer)
	if ev.StateChange {
		title = fmt.Sprintf("🖨️ %s - Status Change", ev.Printer)
	}

	e := embed{
		Title:     title,
		Color:     colorFor(s.Status),
		Timestamp: timestamp,
	}

	if s.Status != snapshot.StatusUnknown {
		e.Fields = append(e.Fields, embedField{Name: "Status", Value: s.Status, Inline: true})
	} else if s.BedTemp != nil || s.NozzleTemp != nil {
		e.Fields = append(e.Fields, embedField{Name: "Status", Value: "Active (partial data)", Inline: true})
	}

	if s.BedTemp != nil {
		e.Fields = append(e.Fields, embedField{Name: "Bed Temperature", Value: tempText(*s.BedTemp, s.BedTarget), Inline: true})
	}
	if s.NozzleTemp != nil {
		e.Fields = append(e.Fields, embedField{Name: "Nozzle Temperature", Value: tempText(*s.NozzleTemp, s.NozzleTarget), Inline: true})
	}

	if s.Filename != "" {
		// Code block so Discord does not interpret underscores as markdown.
		e.Fields = append(e.Fields, embedField{Name: "File", Value: "`" + s.Filename + "`", Inline: false})
	}

	if s.Progress != nil {
		e.Fields = append(e.Fields, embedField{Name: "Progress", Value: fmt.Sprintf("%d%%", *s.Progress), Inline: true})
	}
	if s.CurrentLayer != nil && s.TotalLayers != nil {
		e.Fields = append(e.Fields, embedField{Name: "Layer", Value: fmt.Sprintf("%d / %d", *s.CurrentLayer, *s.TotalLayers), Inline: true})
	}
	if s.RemainingMinutes != nil {
		e.Fields = append(e.Fields, embedField{Name: "Time Remaining", Value: FormatRemaining(*s.RemainingMinutes), Inline: true})
	}
	if s.PrintSpeed != nil {
		e.Fields = append(e.Fields, embedField{Name: "Print Speed", Value: fmt.Sprintf("%d%%", *s.PrintSpeed), Inline: true})
	}
	if s.FanSpeed != nil {
		e.Fields = append(e.Fields, embedField{Name: "Fan Speed", Value: fmt.Sprintf("%d%%", *s.FanSpeed), Inline: true})
	}

	return e
}

func tempText(actual float64, target *float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%g°C", actual)
	if target != nil {
		fmt.Fprintf(&b, " / %g°C", *target)
	}
	return b.String()
}
