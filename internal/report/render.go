// Package report renders dashboard views as plain text for the CLI and as
// Telegram HTML for load notifications.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/GoPolymarket/vesting-dashboard/internal/comparison"
	"github.com/GoPolymarket/vesting-dashboard/internal/format"
	"github.com/GoPolymarket/vesting-dashboard/internal/query"
	"github.com/GoPolymarket/vesting-dashboard/internal/vesting"
)

// SummaryData is the headline block for one approach.
type SummaryData struct {
	Approach       string
	Projects       int
	FundingUSD     float64
	Tokens         float64
	Categories     [3]float64
	TailTokens     float64
	CliffDays      int
	FinalPortfolio float64
}

// BuildSummaryData normalizes a dataset summary into a renderable payload.
func BuildSummaryData(a vesting.Approach, s vesting.Summary, p query.Portfolio) SummaryData {
	return SummaryData{
		Approach:       a.Label(),
		Projects:       s.TotalProjects,
		FundingUSD:     s.TotalFundingUSD,
		Tokens:         s.TotalTokens,
		Categories:     [3]float64{s.TotalProjectTokens, s.TotalParticipantTokens, s.TotalAuditorTokens},
		TailTokens:     s.TotalTailTokens,
		CliffDays:      s.CliffPeriodDays,
		FinalPortfolio: p.Final(),
	}
}

// RenderSummary renders the dataset headline block.
func RenderSummary(d SummaryData) string {
	var b strings.Builder
	b.WriteString(d.Approach + "\n")
	b.WriteString(fmt.Sprintf("Projects: %d\nTotal Funding: %s\nTotal Tokens: %s\n",
		d.Projects, format.Currency(d.FundingUSD), format.Number(d.Tokens)))
	for i, c := range vesting.Categories() {
		b.WriteString(fmt.Sprintf("  %s: %s\n", c.Label(), format.Number(d.Categories[i])))
	}
	if d.TailTokens > 0 {
		b.WriteString(fmt.Sprintf("Tail Reserve: %s\n", format.Number(d.TailTokens)))
	}
	if d.CliffDays > 0 {
		b.WriteString(fmt.Sprintf("Cliff: %d days\n", d.CliffDays))
	}
	b.WriteString(fmt.Sprintf("Portfolio Vested At End: %s\n", format.Number(d.FinalPortfolio)))
	return strings.TrimSpace(b.String())
}

// RenderProject renders the identity block of one project.
func RenderProject(a vesting.Allocation) string {
	var b strings.Builder
	b.WriteString(a.ProposalName + "\n")
	b.WriteString(fmt.Sprintf("Funding: %s (%s)\nTotal Tokens: %s\n",
		format.Currency(a.RequestedFundingUSD), vesting.SizeOf(a.RequestedFundingUSD), format.Number(a.TotalTokens)))
	for _, c := range vesting.Categories() {
		b.WriteString(fmt.Sprintf("  %s: %s\n", c.Label(), format.Number(a.TokenDistribution.Get(c))))
	}
	return strings.TrimSpace(b.String())
}

// WriteTable writes the data table as aligned text columns.
func WriteTable(w io.Writer, t query.DataTable) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Columns(), "\t"))
	for _, rec := range t.Records() {
		fmt.Fprintln(tw, strings.Join(rec, "\t"))
	}
	return tw.Flush()
}

// RenderScenario renders one model's position at its scenario index.
func RenderScenario(s query.Scenario) string {
	var b strings.Builder
	switch s.Approach {
	case vesting.Pure:
		b.WriteString(fmt.Sprintf("Pure Milestone after %d of %d milestones\n", s.MilestonesCompleted, vesting.MilestoneCount))
	default:
		cliff := "in cliff"
		if s.PastCliff {
			cliff = "past cliff"
		}
		b.WriteString(fmt.Sprintf("Hybrid Vesting at month %d (%s)\n", s.Month, cliff))
	}
	b.WriteString(fmt.Sprintf("Vested: %s\nUnvested: %s\nProgress: %s\n",
		format.Number(s.Vested), format.Number(s.Unvested), format.Percent(s.Percentage)))
	if len(s.MilestonesAchieved) > 0 {
		b.WriteString("Milestones this month: " + strings.Join(s.MilestonesAchieved, ", ") + "\n")
	}
	return strings.TrimSpace(b.String())
}

// RenderComparison renders a side-by-side comparison result.
func RenderComparison(r comparison.Result) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Comparison at index %d\n", r.Index))
	b.WriteString(fmt.Sprintf("Pure:   %s (%s)\n", format.Number(r.Pure.Vested), format.Percent(r.Pure.Percentage)))
	b.WriteString(fmt.Sprintf("Hybrid: %s (%s)\n", format.Number(r.Hybrid.Vested), format.Percent(r.Hybrid.Percentage)))
	sign := ""
	if r.Difference > 0 {
		sign = "+"
	}
	b.WriteString(fmt.Sprintf("Difference: %s%s tokens (%s%s)\n", sign, format.Number(r.Difference), sign, format.Percent(r.DiffPercent)))
	switch r.Favours {
	case comparison.FavoursPure:
		b.WriteString("Pure milestone vests faster at this point.\n")
	case comparison.FavoursHybrid:
		b.WriteString("Hybrid vesting vests faster at this point.\n")
	default:
		b.WriteString("Both models have vested the same amount.\n")
	}
	return strings.TrimSpace(b.String())
}

// RenderInsights renders the insight list as bullets.
func RenderInsights(insights []comparison.Insight) string {
	var b strings.Builder
	b.WriteString("Insights\n")
	for _, in := range insights {
		b.WriteString(fmt.Sprintf("- %s: %s\n", in.Title, in.Text))
	}
	return strings.TrimSpace(b.String())
}

// LoadData describes one load or reload outcome.
type LoadData struct {
	Trigger        string
	LoadID         string
	LoadedAt       time.Time
	PureProjects   int
	HybridProjects int
	Err            error
}

// RenderLoadHTML renders a load outcome in Telegram HTML parse mode.
func RenderLoadHTML(d LoadData) string {
	var b strings.Builder
	trigger := strings.ToUpper(strings.TrimSpace(d.Trigger))
	if d.Err != nil {
		b.WriteString("<b>Dataset Load Failed</b>\n")
		if trigger != "" {
			b.WriteString("Trigger: " + trigger + "\n")
		}
		b.WriteString("Error: <code>" + escapeHTML(d.Err.Error()) + "</code>\n")
		return strings.TrimSpace(b.String())
	}
	b.WriteString("<b>Datasets Loaded</b>\n")
	if trigger != "" {
		b.WriteString("Trigger: " + trigger + "\n")
	}
	b.WriteString(fmt.Sprintf("Load: <code>%s</code>\n", d.LoadID))
	if !d.LoadedAt.IsZero() {
		b.WriteString("At: " + d.LoadedAt.UTC().Format(time.RFC3339) + "\n")
	}
	b.WriteString(fmt.Sprintf("Pure Projects: %d\nHybrid Projects: %d\n", d.PureProjects, d.HybridProjects))
	return strings.TrimSpace(b.String())
}

func escapeHTML(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
}
