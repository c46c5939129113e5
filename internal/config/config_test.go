package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Data.PureSource == "" || cfg.Data.HybridSource == "" {
		t.Fatal("expected default dataset sources")
	}
	if cfg.Data.Strict {
		t.Fatal("expected strict validation off by default")
	}
	if cfg.Data.LoadTimeout <= 0 {
		t.Fatal("expected positive load timeout")
	}
	if !cfg.API.Enabled || cfg.API.Addr != ":8080" {
		t.Fatalf("expected api on :8080 by default, got %+v", cfg.API)
	}
	if cfg.TUI.SearchDebounce != 300*time.Millisecond {
		t.Fatalf("expected search_debounce=300ms by default, got %v", cfg.TUI.SearchDebounce)
	}
	if cfg.Telegram.Enabled {
		t.Fatal("expected telegram disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadFromYAML(t *testing.T) {
	yaml := `
run_mode: dev
data:
  pure_source: https://example.com/pure.json
  strict: true
  watch_debounce: 1s
api:
  addr: 127.0.0.1:9090
tui:
  search_debounce: 500ms
  default_approach: hybrid
`
	f, err := os.CreateTemp(t.TempDir(), "cfg-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString(yaml); err != nil {
		t.Fatal(err)
	}
	f.Close()

	cfg, err := LoadFile(f.Name())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RunMode != "dev" {
		t.Fatalf("expected run_mode=dev, got %q", cfg.RunMode)
	}
	if cfg.Data.PureSource != "https://example.com/pure.json" {
		t.Fatalf("unexpected pure source %q", cfg.Data.PureSource)
	}
	if cfg.Data.HybridSource != Default().Data.HybridSource {
		t.Fatalf("expected default hybrid source to survive, got %q", cfg.Data.HybridSource)
	}
	if !cfg.Data.Strict || cfg.Data.WatchDebounce != time.Second {
		t.Fatalf("unexpected data config %+v", cfg.Data)
	}
	if cfg.API.Addr != "127.0.0.1:9090" || !cfg.API.Enabled {
		t.Fatalf("unexpected api config %+v", cfg.API)
	}
	if cfg.TUI.SearchDebounce != 500*time.Millisecond || cfg.TUI.DefaultApproach != "hybrid" {
		t.Fatalf("unexpected tui config %+v", cfg.TUI)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile("does-not-exist.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("VESTDASH_PURE_SOURCE", "/tmp/pure.json")
	t.Setenv("VESTDASH_STRICT", "true")
	t.Setenv("VESTDASH_API_ENABLED", "false")
	t.Setenv("VESTDASH_SEARCH_DEBOUNCE", "150ms")
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_ID", "42")

	cfg := Default()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if cfg.Data.PureSource != "/tmp/pure.json" {
		t.Fatalf("expected env pure source, got %q", cfg.Data.PureSource)
	}
	if cfg.Data.HybridSource != Default().Data.HybridSource {
		t.Fatal("unset variable must not override")
	}
	if !cfg.Data.Strict {
		t.Fatal("expected strict from env")
	}
	if cfg.API.Enabled {
		t.Fatal("expected api disabled from env")
	}
	if cfg.TUI.SearchDebounce != 150*time.Millisecond {
		t.Fatalf("expected 150ms, got %v", cfg.TUI.SearchDebounce)
	}
	if !cfg.Telegram.Enabled || cfg.Telegram.ChatID != "42" {
		t.Fatalf("expected telegram enabled from env, got %+v", cfg.Telegram)
	}
}

func TestApplyEnvRejectsBadBool(t *testing.T) {
	t.Setenv("VESTDASH_WATCH", "maybe")
	cfg := Default()
	if err := cfg.ApplyEnv(); err == nil {
		t.Fatal("expected parse error for bad bool")
	}
}
