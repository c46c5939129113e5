package config

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

var runModes = []string{"serve", "dev", "tui", "audit"}

const defaultWatchDebounce = 250 * time.Millisecond

func knownMode(m string) bool {
	return slices.Contains(runModes, m)
}

// ApplyRunMode applies a run-mode preset to the config.
// Supported modes:
// - serve: HTTP API on, configured data settings
// - dev:   HTTP API on, watch data files, lenient validation
// - tui:   terminal dashboard only, watch data files
// - audit: no API, no watching, strict validation
func ApplyRunMode(cfg *Config, mode string) error {
	m := strings.ToLower(strings.TrimSpace(mode))
	if m == "" {
		return nil
	}

	switch m {
	case "serve":
		cfg.API.Enabled = true
	case "dev", "development":
		m = "dev"
		cfg.API.Enabled = true
		cfg.Data.Watch = true
		cfg.Data.Strict = false
		clampMinDuration(&cfg.Data.WatchDebounce, defaultWatchDebounce)
	case "tui", "terminal":
		m = "tui"
		cfg.API.Enabled = false
		cfg.Data.Watch = true
		clampMinDuration(&cfg.Data.WatchDebounce, defaultWatchDebounce)
		if cfg.LogFile == "" {
			cfg.LogFile = "vestdash.log"
		}
	case "audit", "strict":
		m = "audit"
		cfg.API.Enabled = false
		cfg.Data.Watch = false
		cfg.Data.Strict = true
	default:
		return fmt.Errorf("unknown run mode %q (supported: %s)", mode, strings.Join(runModes, "|"))
	}

	cfg.RunMode = m
	return nil
}

func clampMinDuration(v *time.Duration, min time.Duration) {
	if *v <= 0 {
		*v = min
	}
}
