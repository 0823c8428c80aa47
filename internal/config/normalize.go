// internal/config/normalize.go
package config

// Defaults applied by Normalize.
const (
	DefaultTimeIntervalSeconds = 3600
	DefaultPercentInterval     = 25
	DefaultPollIntervalMs      = 500
)

// Normalize applies post-validation defaulting.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Discord.UpdateTimeInterval == 0 {
		cfg.Discord.UpdateTimeInterval = DefaultTimeIntervalSeconds
	}

	// Absent percent interval gets the default; an explicit 0 is a
	// deliberate opt-out and stays 0.
	if cfg.Discord.UpdatePercentInterval == nil {
		v := DefaultPercentInterval
		cfg.Discord.UpdatePercentInterval = &v
	}

	if cfg.PollIntervalMs == 0 {
		cfg.PollIntervalMs = DefaultPollIntervalMs
	}
}
