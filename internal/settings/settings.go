// Package settings holds the user-editable blocking configuration.
// The settings UI writes the YAML file; the agent observes changes
// through Watch so blocking rules recompute without a timer command.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings controls the site-blocking policy.
type Settings struct {
	BlockingEnabled     bool     `yaml:"blocking_enabled"`
	BlockDuringWorkOnly bool     `yaml:"block_during_work_only"`
	BlockedSites        []string `yaml:"blocked_sites"`
}

// Default returns the out-of-the-box policy: blocking on, work
// sessions only, the usual suspects.
func Default() Settings {
	return Settings{
		BlockingEnabled:     true,
		BlockDuringWorkOnly: true,
		BlockedSites: []string{
			"facebook.com",
			"twitter.com",
			"instagram.com",
			"youtube.com",
			"reddit.com",
			"tiktok.com",
		},
	}
}

// Load reads settings from path. A missing file yields defaults; a
// file that parses but omits blocked_sites keeps the default list.
func Load(path string) (Settings, error) {
	defaults := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaults, nil
		}
		return defaults, fmt.Errorf("read settings file: %w", err)
	}

	parsed := defaults
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return defaults, fmt.Errorf("parse settings yaml: %w", err)
	}
	if len(parsed.BlockedSites) == 0 {
		parsed.BlockedSites = defaults.BlockedSites
	}
	return parsed, nil
}

// Save writes settings to path, creating parent directories as needed.
func Save(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	raw, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}
