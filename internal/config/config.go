// internal/config/config.go
package config

type Config struct {
	Discord  DiscordConfig   `yaml:"discord"`
	Printers []PrinterConfig `yaml:"printers"`

	// PollIntervalMs is the monitor loop sleep between evaluations.
	PollIntervalMs int `yaml:"poll_interval_ms"`
}

// ---- DISCORD ----

type DiscordConfig struct {
	WebhookURL string `yaml:"webhook_url"`

	// UpdateTimeInterval is the periodic-update threshold in seconds.
	UpdateTimeInterval int `yaml:"update_time_interval"`

	// UpdatePercentInterval is the progress milestone width in percent.
	// Absent means default; an explicit 0 disables milestone updates.
	UpdatePercentInterval *int `yaml:"update_percent_interval"`
}

// PercentInterval returns the effective milestone width.
// Only meaningful after Normalize().
func (d DiscordConfig) PercentInterval() int {
	if d.UpdatePercentInterval == nil {
		return 0
	}
	return *d.UpdatePercentInterval
}

// ---- PRINTER ----

type PrinterConfig struct {
	Name       string `yaml:"name"`
	IP         string `yaml:"ip"`
	Serial     string `yaml:"serial"`
	AccessCode string `yaml:"access_code"`

	// PingUserID is the Discord user to mention on ping-worthy state
	// changes. Optional.
	PingUserID string `yaml:"ping_user_id"`

	// Debug logs the raw telemetry field map on every poll.
	Debug bool `yaml:"debug"`
}
