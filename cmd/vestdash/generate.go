package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/GoPolymarket/vesting-dashboard/internal/dataset"
	"github.com/GoPolymarket/vesting-dashboard/internal/generate"
)

var generateArgs struct {
	input     string
	pureOut   string
	hybridOut string
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Build both datasets from a funded-proposals CSV",
	RunE:  runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&generateArgs.input, "input", "", "proposals CSV with Proposal, REQUESTED $ and STATUS columns")
	f.StringVar(&generateArgs.pureOut, "pure-out", "", "pure dataset output (default data.pure_source)")
	f.StringVar(&generateArgs.hybridOut, "hybrid-out", "", "hybrid dataset output (default data.hybrid_source)")
	_ = generateCmd.MarkFlagRequired("input")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, "")
	if err != nil {
		return err
	}
	pureOut := generateArgs.pureOut
	if pureOut == "" {
		pureOut = cfg.Data.PureSource
	}
	hybridOut := generateArgs.hybridOut
	if hybridOut == "" {
		hybridOut = cfg.Data.HybridSource
	}
	for _, p := range []string{pureOut, hybridOut} {
		if dataset.Source(p).IsURL() {
			return fmt.Errorf("cannot write dataset to URL %s", p)
		}
	}

	in, err := os.Open(generateArgs.input)
	if err != nil {
		return err
	}
	defer in.Close()
	projects, err := generate.ReadFundedProjects(in)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := writeDatasetFile(pureOut, generate.PureDataset(projects, now)); err != nil {
		return err
	}
	if err := writeDatasetFile(hybridOut, generate.HybridDataset(projects, now)); err != nil {
		return err
	}
	log.Printf("generate: wrote %d projects to %s and %s", len(projects), pureOut, hybridOut)
	return nil
}

func writeDatasetFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := generate.WriteJSON(f, v); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
