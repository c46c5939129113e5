package comparison

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GoPolymarket/vesting-dashboard/internal/dataset"
	"github.com/GoPolymarket/vesting-dashboard/internal/generate"
	"github.com/GoPolymarket/vesting-dashboard/internal/query"
	"github.com/GoPolymarket/vesting-dashboard/internal/vesting"
)

type mockStore struct {
	snaps map[vesting.Approach]map[int]query.Scenario
}

func (m *mockStore) PureProject(string) (vesting.PureAllocation, bool)     { return vesting.PureAllocation{}, false }
func (m *mockStore) HybridProject(string) (vesting.HybridAllocation, bool) { return vesting.HybridAllocation{}, false }

func (m *mockStore) ScenarioSnapshot(name string, index int, a vesting.Approach) (query.Scenario, bool) {
	if name != "X" {
		return query.Scenario{}, false
	}
	s, ok := m.snaps[a][index]
	return s, ok
}

func engineWith(pure, hybrid map[int]query.Scenario) *Engine {
	return New(&mockStore{snaps: map[vesting.Approach]map[int]query.Scenario{
		vesting.Pure:   pure,
		vesting.Hybrid: hybrid,
	}})
}

func TestCompareFavoursPure(t *testing.T) {
	e := engineWith(
		map[int]query.Scenario{4: {Vested: 10000, Percentage: 100}},
		map[int]query.Scenario{4: {Vested: 6000, Percentage: 60}},
	)
	r, ok := e.Compare("X", 4)
	if !ok {
		t.Fatal("expected comparison")
	}
	if r.Difference != 4000 || r.DiffPercent != 40 || r.Favours != FavoursPure {
		t.Fatalf("unexpected result %+v", r)
	}
}

func TestCompareSignAndMissing(t *testing.T) {
	e := engineWith(
		map[int]query.Scenario{1: {Vested: 100}, 2: {Vested: 300}},
		map[int]query.Scenario{1: {Vested: 200}, 2: {Vested: 300}},
	)
	if r, _ := e.Compare("X", 1); r.Favours != FavoursHybrid || r.Difference != -100 {
		t.Fatalf("expected hybrid favoured, got %+v", r)
	}
	if r, _ := e.Compare("X", 2); r.Favours != FavoursEven {
		t.Fatalf("expected even, got %+v", r)
	}
	if _, ok := e.Compare("X", 3); ok {
		t.Fatal("missing snapshot should not compare")
	}
	if _, ok := e.Compare("Y", 1); ok {
		t.Fatal("unknown project should not compare")
	}
}

func TestInsightsRulesInOrder(t *testing.T) {
	e := engineWith(
		map[int]query.Scenario{0: {Percentage: 25}, 4: {Percentage: 100}},
		map[int]query.Scenario{0: {Percentage: 0}, 4: {Percentage: 56.25}},
	)
	got, ok := e.Insights("X")
	if !ok || len(got) != 3 {
		t.Fatalf("expected 3 insights, got %+v", got)
	}
	titles := []string{got[0].Title, got[1].Title, got[2].Title}
	want := []string{"Speed Protection", "Early Abandonment Protection", "Maintenance Incentive"}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("insight %d: want %s got %s", i, want[i], titles[i])
		}
	}
	if !strings.Contains(got[0].Text, "56.2%") && !strings.Contains(got[0].Text, "56.3%") {
		t.Fatalf("speed insight should cite hybrid percentage, got %q", got[0].Text)
	}
	if got[2].Type != InsightFeatureHybrid {
		t.Fatalf("unexpected maintenance type %s", got[2].Type)
	}
}

func TestInsightsMaintenanceOnly(t *testing.T) {
	e := engineWith(
		map[int]query.Scenario{0: {Percentage: 0}, 4: {Percentage: 80}},
		map[int]query.Scenario{0: {Percentage: 0}, 4: {Percentage: 80}},
	)
	got, ok := e.Insights("X")
	if !ok || len(got) != 1 || got[0].Title != "Maintenance Incentive" {
		t.Fatalf("expected only maintenance insight, got %+v", got)
	}
	if _, ok := e.Insights("Y"); ok {
		t.Fatal("unknown project should have no insights")
	}
}

func generatedEngine(t *testing.T) *Engine {
	t.Helper()
	projects := []generate.Project{{Name: "Alpha", FundingUSD: decimal.NewFromInt(10000)}}
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	return New(query.NewStore(&dataset.Bundle{
		Pure:   generate.PureDataset(projects, now),
		Hybrid: generate.HybridDataset(projects, now),
	}))
}

func TestEngineOverGeneratedData(t *testing.T) {
	e := generatedEngine(t)
	r, ok := e.Compare("Alpha", 4)
	if !ok {
		t.Fatal("expected comparison")
	}
	if r.Favours != FavoursPure || r.Difference < 4374 || r.Difference > 4376 {
		t.Fatalf("expected pure ahead by 4375, got %+v", r)
	}
	insights, _ := e.Insights("Alpha")
	if len(insights) != 2 {
		t.Fatalf("pure has nothing vested at index 0, expected 2 insights, got %+v", insights)
	}
	if s, ok := e.Single("Alpha", 4, vesting.Hybrid); !ok || s.Month != 4 {
		t.Fatalf("unexpected single snapshot %+v", s)
	}
}

func TestExport(t *testing.T) {
	e := generatedEngine(t)
	ex, ok := e.Export("Alpha")
	if !ok {
		t.Fatal("expected export")
	}
	if ex.Funding != 10000 || ex.Pure.TotalTokens != 10000 || len(ex.Hybrid.Timeline) != 13 {
		t.Fatalf("unexpected export %+v", ex)
	}
	raw, err := json.Marshal(ex)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"project":"Alpha"`, `"milestones":{"Milestone 1 (25%)"`, `"vesting_structure"`, `"timeline"`} {
		if !strings.Contains(string(raw), key) {
			t.Fatalf("export json missing %s: %s", key, raw)
		}
	}
	if _, ok := e.Export("Nope"); ok {
		t.Fatal("unknown project should not export")
	}
}
