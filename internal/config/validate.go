package config

import (
	"fmt"
	"strings"

	"github.com/GoPolymarket/vesting-dashboard/internal/vesting"
)

// Validate checks the settings every run mode depends on.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Data.PureSource) == "" {
		return fmt.Errorf("data.pure_source must be set")
	}
	if strings.TrimSpace(c.Data.HybridSource) == "" {
		return fmt.Errorf("data.hybrid_source must be set")
	}
	if c.Data.WatchDebounce < 0 {
		return fmt.Errorf("data.watch_debounce must be >= 0, got %v", c.Data.WatchDebounce)
	}
	if c.Data.LoadTimeout <= 0 {
		return fmt.Errorf("data.load_timeout must be > 0, got %v", c.Data.LoadTimeout)
	}

	if c.API.Enabled && strings.TrimSpace(c.API.Addr) == "" {
		return fmt.Errorf("api.addr must be set when api.enabled is true")
	}

	if c.TUI.SearchDebounce < 0 {
		return fmt.Errorf("tui.search_debounce must be >= 0, got %v", c.TUI.SearchDebounce)
	}
	if _, err := vesting.ParseApproach(c.TUI.DefaultApproach); err != nil {
		return fmt.Errorf("tui.default_approach: %w", err)
	}

	if c.Telegram.Enabled && (c.Telegram.BotToken == "" || c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id are required when telegram.enabled is true")
	}

	mode := strings.ToLower(strings.TrimSpace(c.RunMode))
	if mode != "" && !knownMode(mode) {
		return fmt.Errorf("run_mode must be one of %s, got %q", strings.Join(runModes, "|"), c.RunMode)
	}
	return nil
}
