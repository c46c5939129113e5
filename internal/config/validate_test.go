package config

import (
	"strings"
	"testing"
)

func TestValidateRejectsInvalidSettings(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty pure source", func(c *Config) { c.Data.PureSource = " " }, "data.pure_source"},
		{"empty hybrid source", func(c *Config) { c.Data.HybridSource = "" }, "data.hybrid_source"},
		{"negative watch debounce", func(c *Config) { c.Data.WatchDebounce = -1 }, "data.watch_debounce"},
		{"zero load timeout", func(c *Config) { c.Data.LoadTimeout = 0 }, "data.load_timeout"},
		{"api without addr", func(c *Config) { c.API.Addr = "" }, "api.addr"},
		{"bad approach", func(c *Config) { c.TUI.DefaultApproach = "linear" }, "tui.default_approach"},
		{"telegram without token", func(c *Config) { c.Telegram.Enabled = true }, "telegram.bot_token"},
		{"unknown run mode", func(c *Config) { c.RunMode = "batch" }, "run_mode"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestValidateAllowsDisabledAPIWithoutAddr(t *testing.T) {
	cfg := Default()
	cfg.API.Enabled = false
	cfg.API.Addr = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}
