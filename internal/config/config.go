package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	RunMode string `yaml:"run_mode"`
	LogFile string `yaml:"log_file"`

	Data     DataConfig     `yaml:"data"`
	API      APIConfig      `yaml:"api"`
	TUI      TUIConfig      `yaml:"tui"`
	Telegram TelegramConfig `yaml:"telegram"`
}

type DataConfig struct {
	PureSource    string        `yaml:"pure_source"`
	HybridSource  string        `yaml:"hybrid_source"`
	Strict        bool          `yaml:"strict"`
	Watch         bool          `yaml:"watch"`
	WatchDebounce time.Duration `yaml:"watch_debounce"`
	LoadTimeout   time.Duration `yaml:"load_timeout"`
}

type APIConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

type TUIConfig struct {
	SearchDebounce  time.Duration `yaml:"search_debounce"`
	DefaultApproach string        `yaml:"default_approach"`
}

type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`
}

func Default() Config {
	return Config{
		RunMode: "serve",
		Data: DataConfig{
			PureSource:    "data/pure_milestone_allocations.json",
			HybridSource:  "data/hybrid_vesting_allocations.json",
			WatchDebounce: 250 * time.Millisecond,
			LoadTimeout:   30 * time.Second,
		},
		API: APIConfig{
			Enabled: true,
			Addr:    ":8080",
		},
		TUI: TUIConfig{
			SearchDebounce:  300 * time.Millisecond,
			DefaultApproach: "pure",
		},
	}
}

func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// envOverrides lists the environment variables that override file values.
// Unset variables leave the pointer nil.
type envOverrides struct {
	RunMode        *string        `env:"VESTDASH_RUN_MODE"`
	LogFile        *string        `env:"VESTDASH_LOG_FILE"`
	PureSource     *string        `env:"VESTDASH_PURE_SOURCE"`
	HybridSource   *string        `env:"VESTDASH_HYBRID_SOURCE"`
	Strict         *bool          `env:"VESTDASH_STRICT"`
	Watch          *bool          `env:"VESTDASH_WATCH"`
	APIEnabled     *bool          `env:"VESTDASH_API_ENABLED"`
	APIAddr        *string        `env:"VESTDASH_API_ADDR"`
	SearchDebounce *time.Duration `env:"VESTDASH_SEARCH_DEBOUNCE"`
	BotToken       *string        `env:"TELEGRAM_BOT_TOKEN"`
	ChatID         *string        `env:"TELEGRAM_CHAT_ID"`
}

// ApplyEnv overlays environment variables onto c.
func (c *Config) ApplyEnv() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	setString(&c.RunMode, o.RunMode)
	setString(&c.LogFile, o.LogFile)
	setString(&c.Data.PureSource, o.PureSource)
	setString(&c.Data.HybridSource, o.HybridSource)
	setBool(&c.Data.Strict, o.Strict)
	setBool(&c.Data.Watch, o.Watch)
	setBool(&c.API.Enabled, o.APIEnabled)
	setString(&c.API.Addr, o.APIAddr)
	if o.SearchDebounce != nil {
		c.TUI.SearchDebounce = *o.SearchDebounce
	}
	setString(&c.Telegram.BotToken, o.BotToken)
	setString(&c.Telegram.ChatID, o.ChatID)
	if c.Telegram.BotToken != "" && c.Telegram.ChatID != "" && (o.BotToken != nil || o.ChatID != nil) {
		c.Telegram.Enabled = true
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil && *v != "" {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
