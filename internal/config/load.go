// internal/config/load.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is used when no path is given on the command line or via
// the CONFIG_PATH environment variable.
const DefaultPath = "config.yaml"

// mountedPath is the Docker-style mounted location checked when the
// primary path does not exist.
const mountedPath = "config/config.yaml"

// ResolvePath picks the config file location: explicit argument, then
// CONFIG_PATH, then DefaultPath, falling back to the mounted location when
// the chosen file is missing.
func ResolvePath(arg string) string {
	path := arg
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = DefaultPath
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if _, err := os.Stat(mountedPath); err == nil {
			return mountedPath
		}
	}
	return path
}

// Load reads and parses a config file. It performs no validation and no
// defaulting; callers MUST run Validate then Normalize on the result.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return &cfg, nil
}
