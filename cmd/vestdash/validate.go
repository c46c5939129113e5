package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GoPolymarket/vesting-dashboard/internal/app"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load both datasets with strict validation and report problems",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd, "audit")
		if err != nil {
			return err
		}
		a := app.New(cfg)
		if err := a.Load(context.Background()); err != nil {
			return err
		}
		st := a.Status()
		fmt.Fprintf(cmd.OutOrStdout(), "ok: %d pure and %d hybrid allocations (load %s)\n", st.PureCount, st.HybridCount, st.LoadID)
		return nil
	},
}
