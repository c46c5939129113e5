package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GoPolymarket/vesting-dashboard/internal/config"
)

var args struct {
	configPath string
	mode       string
	pure       string
	hybrid     string
	strict     bool
}

var rootCmd = &cobra.Command{
	Use:           "vestdash",
	Short:         "Token vesting dashboard",
	Long:          "Explore pure-milestone and hybrid-vesting token allocations over HTTP, in the terminal, or as text reports.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&args.configPath, "config", "config.yaml", "path to config file")
	pf.StringVar(&args.mode, "mode", "", "run mode preset: serve|dev|tui|audit")
	pf.StringVar(&args.pure, "pure", "", "override data.pure_source (file path or URL)")
	pf.StringVar(&args.hybrid, "hybrid", "", "override data.hybrid_source (file path or URL)")
	pf.BoolVar(&args.strict, "strict", false, "validate dataset proportions and structure on load")

	rootCmd.AddCommand(serveCmd, tuiCmd, reportCmd, generateCmd, validateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config file, then env, flags and the run-mode
// preset, in that order. fallbackMode applies when neither --mode nor
// run_mode names one.
func loadConfig(cmd *cobra.Command, fallbackMode string) (config.Config, error) {
	cfg, err := config.LoadFile(args.configPath)
	if err != nil {
		if cmd.Flags().Changed("config") || !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("config file: %w", err)
		}
		log.Printf("warning: config file: %v, using defaults", err)
		cfg = config.Default()
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	if args.pure != "" {
		cfg.Data.PureSource = args.pure
	}
	if args.hybrid != "" {
		cfg.Data.HybridSource = args.hybrid
	}

	mode := strings.TrimSpace(args.mode)
	if mode == "" {
		mode = cfg.RunMode
	}
	if fallbackMode != "" && !modeFits(mode, fallbackMode) {
		mode = fallbackMode
	}
	if err := config.ApplyRunMode(&cfg, mode); err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("strict") {
		cfg.Data.Strict = args.strict
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// modeFits reports whether mode is usable by a command whose natural
// mode is want. The server accepts any non-terminal preset.
func modeFits(mode, want string) bool {
	m := strings.ToLower(strings.TrimSpace(mode))
	switch want {
	case "serve":
		return m == "serve" || m == "dev" || m == "development"
	case "tui":
		return m == "tui" || m == "terminal"
	}
	return m == want
}

// setupLogging sends the standard logger to path and returns a closer.
func setupLogging(path string) (func(), error) {
	if path == "" {
		return func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(f)
	return func() {
		log.SetOutput(os.Stderr)
		_ = f.Close()
	}, nil
}
