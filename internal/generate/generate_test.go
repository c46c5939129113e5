package generate

import (
	"bytes"
	"math"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GoPolymarket/vesting-dashboard/internal/vesting"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestParseFunding(t *testing.T) {
	cases := map[string]string{
		"$7,500":     "7500",
		"50000":      "50000",
		" $1,234.50": "1234.5",
		"":           "0",
		"n/a":        "0",
	}
	for in, want := range cases {
		if got := ParseFunding(in); !got.Equal(decimal.RequireFromString(want)) {
			t.Fatalf("ParseFunding(%q): want %s got %s", in, want, got)
		}
	}
}

func TestReadFundedProjectsFiltersStatus(t *testing.T) {
	f, err := os.Open("testdata/proposals.csv")
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	defer f.Close()

	projects, err := ReadFundedProjects(f)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(projects) != 3 {
		t.Fatalf("expected 3 funded projects, got %d", len(projects))
	}
	if projects[0].Name != "Alpha Wallet" {
		t.Fatalf("expected file order, got %q first", projects[0].Name)
	}
	if !projects[1].FundingUSD.Equal(decimal.NewFromInt(25000)) {
		t.Fatalf("expected 25000, got %s", projects[1].FundingUSD)
	}
}

func TestReadFundedProjectsMissingColumns(t *testing.T) {
	_, err := ReadFundedProjects(strings.NewReader("Name,Amount\nx,1\n"))
	if err == nil {
		t.Fatal("expected error for missing columns")
	}
}

func TestPureReleasesQuarterEach(t *testing.T) {
	a := Pure(Project{Name: "Alpha", FundingUSD: decimal.NewFromInt(10000)})
	if a.TotalTokens != 10000 {
		t.Fatalf("expected 10000 tokens, got %v", a.TotalTokens)
	}
	if a.TokenDistribution.ProjectTokens != 5000 || a.TokenDistribution.AuditorTokens != 2000 {
		t.Fatalf("unexpected distribution %+v", a.TokenDistribution)
	}
	for _, m := range vesting.Milestones() {
		rel := a.MilestoneReleases.Get(m)
		if !near(rel.TotalRelease, 2500) || !near(rel.ProjectTokens, 1250) {
			t.Fatalf("%s: unexpected release %+v", m, rel)
		}
	}
}

func TestHybridCumulativeCurve(t *testing.T) {
	a := Hybrid(Project{Name: "Beta", FundingUSD: decimal.NewFromInt(12000)})
	if len(a.MonthlyTimeline) != vesting.HybridMonths {
		t.Fatalf("expected %d months, got %d", vesting.HybridMonths, len(a.MonthlyTimeline))
	}
	want := []float64{0, .1125, .3375, .45, .5625, .675, .7875}
	for m, frac := range want {
		got := a.MonthlyTimeline[m].CumulativeVested.Total()
		if !near(got, frac*12000) {
			t.Fatalf("month %d: want %v got %v", m, frac*12000, got)
		}
	}
	if got := a.MonthlyTimeline[12].CumulativeVested.Total(); !near(got, 12000) {
		t.Fatalf("expected fully vested at month 12, got %v", got)
	}
	if !near(a.MonthlyTimeline[12].VestedPercentages.Total, 100) {
		t.Fatalf("expected 100%% at month 12, got %v", a.MonthlyTimeline[12].VestedPercentages.Total)
	}
	if a.MonthlyTimeline[0].PastCliff || !a.MonthlyTimeline[1].PastCliff {
		t.Fatal("cliff should end at month 1")
	}
	if got := a.MonthlyTimeline[4].MilestonesAchieved; len(got) != 1 || got[0] != vesting.Milestone3.Label() {
		t.Fatalf("expected milestone 3 at month 4, got %v", got)
	}
	if a.MonthlyTimeline[3].HasMilestoneEvent() {
		t.Fatal("month 3 has no milestone unlock")
	}
	if !near(a.VestingStructure.TailTokens, 1200) || !near(a.VestingStructure.MilestoneTokens, 10800) {
		t.Fatalf("unexpected structure %+v", a.VestingStructure)
	}
}

func TestHybridZeroFundingKeepsPercentagesZero(t *testing.T) {
	a := Hybrid(Project{Name: "Empty"})
	for _, snap := range a.MonthlyTimeline {
		if snap.VestedPercentages.Total != 0 {
			t.Fatalf("month %d: expected 0%%, got %v", snap.Month, snap.VestedPercentages.Total)
		}
	}
}

func TestGeneratedDatasetsValidate(t *testing.T) {
	projects := []Project{
		{Name: "Alpha", FundingUSD: decimal.NewFromInt(7500)},
		{Name: "Beta", FundingUSD: decimal.RequireFromString("33333.33")},
		{Name: "Gamma", FundingUSD: decimal.NewFromInt(120000)},
	}
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	pure := PureDataset(projects, now)
	if err := pure.Validate(); err != nil {
		t.Fatalf("pure dataset invalid: %v", err)
	}
	if pure.Metadata.FrameworkVersion != "1.0" || len(pure.Metadata.Milestones) != 4 {
		t.Fatalf("unexpected pure metadata %+v", pure.Metadata)
	}

	hybrid := HybridDataset(projects, now)
	if err := hybrid.Validate(); err != nil {
		t.Fatalf("hybrid dataset invalid: %v", err)
	}
	if hybrid.Summary.CliffPeriodDays != 30 || hybrid.Summary.AvgProjectDurationMonths != 12 {
		t.Fatalf("unexpected hybrid summary %+v", hybrid.Summary)
	}
	if !near(hybrid.Summary.TotalTailTokens, hybrid.Summary.TotalTokens*0.1) {
		t.Fatalf("tail tokens should be 10%% of total, got %v", hybrid.Summary.TotalTailTokens)
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, hybrid); err != nil {
		t.Fatalf("write: %v", err)
	}
	back, err := vesting.DecodeHybrid(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back.Metadata.VestingConfiguration == nil || back.Metadata.VestingConfiguration.TailVestingRatio != 0.1 {
		t.Fatalf("vesting configuration lost: %+v", back.Metadata)
	}
}
