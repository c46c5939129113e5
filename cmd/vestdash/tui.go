package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/GoPolymarket/vesting-dashboard/internal/app"
	"github.com/GoPolymarket/vesting-dashboard/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the terminal dashboard",
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, "tui")
	if err != nil {
		return err
	}
	// Log output would corrupt the screen.
	closeLog, err := setupLogging(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.New(cfg)
	tui.SetupTheme()
	d := tui.New(a, cfg.TUI.SearchDebounce)

	if cfg.Data.Watch {
		go func() {
			if err := a.Watch(ctx); err != nil {
				log.Printf("watch stopped: %v", err)
			}
		}()
	}
	a.NotifyStarted(ctx, cfg.RunMode, "")
	return d.Run(ctx)
}
