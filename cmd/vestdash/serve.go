package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/GoPolymarket/vesting-dashboard/internal/api"
	"github.com/GoPolymarket/vesting-dashboard/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, "serve")
	if err != nil {
		return err
	}
	closeLog, err := setupLogging(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	log.Printf("vestdash starting (mode=%s pure=%s hybrid=%s strict=%t watch=%t addr=%s)",
		cfg.RunMode, cfg.Data.PureSource, cfg.Data.HybridSource, cfg.Data.Strict, cfg.Data.Watch, cfg.API.Addr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	a := app.New(cfg)
	server := api.NewServer(cfg.API.Addr, a)
	if err := server.Start(ctx); err != nil {
		return err
	}

	if err := a.Load(ctx); err != nil {
		log.Printf("warning: datasets unavailable until reload: %v", err)
	}
	a.NotifyStarted(ctx, cfg.RunMode, cfg.API.Addr)

	if cfg.Data.Watch {
		go func() {
			if err := a.Watch(ctx); err != nil {
				log.Printf("watch stopped: %v", err)
			}
		}()
	}

	<-ctx.Done()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("api shutdown: %v", err)
	}
	log.Println("vestdash stopped")
	return nil
}
