package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GoPolymarket/vesting-dashboard/internal/app"
	"github.com/GoPolymarket/vesting-dashboard/internal/charts"
	"github.com/GoPolymarket/vesting-dashboard/internal/comparison"
	"github.com/GoPolymarket/vesting-dashboard/internal/query"
	"github.com/GoPolymarket/vesting-dashboard/internal/report"
	"github.com/GoPolymarket/vesting-dashboard/internal/selection"
	"github.com/GoPolymarket/vesting-dashboard/internal/vesting"
)

var reportArgs struct {
	project  string
	approach string
	index    int
	export   bool
	chart    string
	chartFmt string
	out      string
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print summaries, project tables and comparisons",
	RunE:  runReport,
}

func init() {
	f := reportCmd.Flags()
	f.StringVar(&reportArgs.project, "project", "", "project name; empty reports dataset summaries")
	f.StringVar(&reportArgs.approach, "approach", "pure", "pure|hybrid|comparison")
	f.IntVar(&reportArgs.index, "index", -1, "scenario index (milestones for pure, month for hybrid); -1 means the last")
	f.BoolVar(&reportArgs.export, "export", false, "write the project's comparison export as JSON")
	f.StringVar(&reportArgs.chart, "chart", "", "render a chart instead: timeline|distribution|vesting-rate|comparison|portfolio")
	f.StringVar(&reportArgs.chartFmt, "chart-format", "svg", "chart format: svg|png")
	f.StringVar(&reportArgs.out, "out", "", "output file (default stdout)")
}

func runReport(cmd *cobra.Command, _ []string) error {
	approach, err := vesting.ParseApproach(reportArgs.approach)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, "")
	if err != nil {
		return err
	}
	a := app.New(cfg)
	if err := a.Load(context.Background()); err != nil {
		return err
	}
	store, _ := a.Store()
	engine, _ := a.Engine()

	out := cmd.OutOrStdout()
	if reportArgs.out != "" {
		f, err := os.Create(reportArgs.out)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	name := strings.TrimSpace(reportArgs.project)
	switch {
	case reportArgs.chart != "":
		return writeChart(out, store, name, approach)
	case reportArgs.export:
		return writeExport(out, engine, name)
	case name == "":
		return writeSummaries(out, store, approach)
	}
	return writeProject(out, store, engine, name, approach)
}

func writeChart(w io.Writer, store *query.Store, name string, a vesting.Approach) error {
	kind, err := charts.ParseKind(reportArgs.chart)
	if err != nil {
		return err
	}
	f, err := charts.ParseFormat(reportArgs.chartFmt)
	if err != nil {
		return err
	}
	if kind != charts.KindPortfolio && name == "" {
		return errors.New("--project is required for this chart")
	}
	return charts.Render(w, store, charts.Request{Kind: kind, Project: name, Approach: a}, f)
}

func writeExport(w io.Writer, engine *comparison.Engine, name string) error {
	exp, ok := engine.Export(name)
	if !ok {
		return fmt.Errorf("project %q not found", name)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(exp)
}

func writeSummaries(w io.Writer, store *query.Store, a vesting.Approach) error {
	var blocks []string
	for _, each := range []vesting.Approach{vesting.Pure, vesting.Hybrid} {
		if a != vesting.Comparison && a != each {
			continue
		}
		sum, _ := store.Summary(each)
		p, _ := store.PortfolioAggregate(each)
		blocks = append(blocks, report.RenderSummary(report.BuildSummaryData(each, sum, p)))
	}
	_, err := fmt.Fprintln(w, strings.Join(blocks, "\n\n"))
	return err
}

func writeProject(w io.Writer, store *query.Store, engine *comparison.Engine, name string, a vesting.Approach) error {
	lookup := a
	if lookup == vesting.Comparison {
		lookup = vesting.Pure
	}
	alloc, ok := store.Project(name, lookup)
	if !ok {
		return fmt.Errorf("project %q not found", name)
	}
	index := reportArgs.index
	if index < 0 {
		index = selection.ScenarioMax(a)
	}

	fmt.Fprintln(w, report.RenderProject(alloc))
	fmt.Fprintln(w)
	if a == vesting.Comparison {
		res, ok := engine.Compare(name, index)
		if !ok {
			return fmt.Errorf("no comparison for %q at index %d", name, index)
		}
		fmt.Fprintln(w, report.RenderComparison(res))
		if insights, ok := engine.Insights(name); ok {
			fmt.Fprintln(w)
			fmt.Fprintln(w, report.RenderInsights(insights))
		}
		return nil
	}

	sc, ok := engine.Single(name, index, a)
	if !ok {
		return fmt.Errorf("no %s scenario for %q at index %d", a, name, index)
	}
	fmt.Fprintln(w, report.RenderScenario(sc))
	fmt.Fprintln(w)
	t, _ := store.DataTable(name, a)
	return report.WriteTable(w, t)
}
