package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/GoPolymarket/vesting-dashboard/internal/comparison"
	"github.com/GoPolymarket/vesting-dashboard/internal/query"
	"github.com/GoPolymarket/vesting-dashboard/internal/vesting"
)

func TestRenderSummary(t *testing.T) {
	data := BuildSummaryData(vesting.Hybrid, vesting.Summary{
		TotalProjects:      3,
		TotalFundingUSD:    168000,
		TotalTokens:        168000,
		TotalProjectTokens: 84000,
		TotalTailTokens:    16800,
		CliffPeriodDays:    30,
	}, query.Portfolio{Values: []float64{0, 168000}})
	msg := RenderSummary(data)

	for _, want := range []string{"Hybrid Vesting", "Projects: 3", "Total Funding: $168,000", "Project (50%): 84,000", "Tail Reserve: 16,800", "Cliff: 30 days"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in summary, got %q", want, msg)
		}
	}
}

func TestRenderProject(t *testing.T) {
	msg := RenderProject(vesting.Allocation{
		ProposalName:        "Alpha",
		RequestedFundingUSD: 10000,
		TotalTokens:         10000,
		TokenDistribution:   vesting.TokenDistribution{ProjectTokens: 5000, ParticipantTokens: 3000, AuditorTokens: 2000},
	})
	if !strings.Contains(msg, "Funding: $10,000 (medium)") {
		t.Fatalf("expected funding line with size, got %q", msg)
	}
	if !strings.Contains(msg, "Auditor (20%): 2,000") {
		t.Fatalf("expected auditor split, got %q", msg)
	}
}

func TestWriteTable(t *testing.T) {
	tbl := query.DataTable{
		Approach: vesting.Hybrid,
		Hybrid: []query.HybridRow{
			{Month: 0, Milestones: "CLIFF"},
			{Month: 1, Milestones: "Milestone 1 (25%)", VestedThisMonth: 1125, Cumulative: 1125, Percent: 11.25},
		},
	}
	var buf bytes.Buffer
	if err := WriteTable(&buf, tbl); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %q", buf.String())
	}
	if !strings.HasPrefix(lines[0], "Month") || !strings.Contains(lines[0], "% Complete") {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[1], "CLIFF") || !strings.Contains(lines[2], "1,125") {
		t.Fatalf("unexpected rows %q", lines[1:])
	}
}

func TestRenderScenarioAndComparison(t *testing.T) {
	msg := RenderScenario(query.Scenario{Approach: vesting.Hybrid, Month: 4, PastCliff: true, Vested: 3500, Unvested: 6500, Percentage: 35})
	if !strings.Contains(msg, "month 4 (past cliff)") || !strings.Contains(msg, "Progress: 35.0%") {
		t.Fatalf("unexpected scenario %q", msg)
	}
	msg = RenderScenario(query.Scenario{Approach: vesting.Pure, MilestonesCompleted: 2, Vested: 5000, Percentage: 50})
	if !strings.Contains(msg, "after 2 of 4 milestones") {
		t.Fatalf("unexpected pure scenario %q", msg)
	}

	msg = RenderComparison(comparison.Result{
		Index:       4,
		Pure:        query.Scenario{Vested: 10000, Percentage: 100},
		Hybrid:      query.Scenario{Vested: 6000, Percentage: 60},
		Difference:  4000,
		DiffPercent: 40,
		Favours:     comparison.FavoursPure,
	})
	if !strings.Contains(msg, "Difference: +4,000 tokens (+40.0%)") || !strings.Contains(msg, "Pure milestone vests faster") {
		t.Fatalf("unexpected comparison %q", msg)
	}
}

func TestRenderInsights(t *testing.T) {
	msg := RenderInsights([]comparison.Insight{{Title: "Maintenance Incentive", Text: "Tail reserve."}})
	if !strings.Contains(msg, "- Maintenance Incentive: Tail reserve.") {
		t.Fatalf("unexpected insights %q", msg)
	}
}

func TestRenderLoadHTML(t *testing.T) {
	msg := RenderLoadHTML(LoadData{
		Trigger:        "reload",
		LoadID:         "abc",
		LoadedAt:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		PureProjects:   4,
		HybridProjects: 4,
	})
	if !strings.Contains(msg, "<b>Datasets Loaded</b>") || !strings.Contains(msg, "Trigger: RELOAD") {
		t.Fatalf("unexpected load message %q", msg)
	}
	msg = RenderLoadHTML(LoadData{Trigger: "watch", Err: errors.New("decode <pure>")})
	if !strings.Contains(msg, "Dataset Load Failed") || !strings.Contains(msg, "&lt;pure&gt;") {
		t.Fatalf("expected escaped failure message, got %q", msg)
	}
}
