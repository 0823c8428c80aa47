// internal/config/validate.go
package config

import (
	"fmt"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	// ------------------------------------------------------------
	// PRINTER VALIDATION
	// ------------------------------------------------------------

	if len(cfg.Printers) == 0 {
		return fmt.Errorf("config: no printers configured")
	}

	names := make(map[string]struct{}, len(cfg.Printers))

	for i, p := range cfg.Printers {
		if p.Name == "" {
			return fmt.Errorf("config: printer %d: name required", i)
		}
		if p.IP == "" {
			return fmt.Errorf("config: printer %q: ip required", p.Name)
		}
		if p.Serial == "" {
			return fmt.Errorf("config: printer %q: serial required", p.Name)
		}
		if p.AccessCode == "" {
			return fmt.Errorf("config: printer %q: access_code required", p.Name)
		}

		if _, exists := names[p.Name]; exists {
			return fmt.Errorf("config: duplicate printer name %q", p.Name)
		}
		names[p.Name] = struct{}{}
	}

	// ------------------------------------------------------------
	// NOTIFICATION THRESHOLD VALIDATION
	// ------------------------------------------------------------

	if cfg.Discord.UpdateTimeInterval < 0 {
		return fmt.Errorf("config: update_time_interval must not be negative")
	}

	if v := cfg.Discord.UpdatePercentInterval; v != nil {
		if *v < 0 || *v > 100 {
			return fmt.Errorf("config: update_percent_interval must be between 0 and 100, got %d", *v)
		}
	}

	if cfg.PollIntervalMs < 0 {
		return fmt.Errorf("config: poll_interval_ms must not be negative")
	}

	return nil
}
