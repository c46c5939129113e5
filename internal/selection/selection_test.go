package selection

import (
	"testing"

	"github.com/GoPolymarket/vesting-dashboard/internal/vesting"
)

func alloc(name string, funding float64) vesting.Allocation {
	return vesting.Allocation{
		ProposalName:        name,
		RequestedFundingUSD: funding,
		TotalTokens:         funding,
		TokenDistribution: vesting.TokenDistribution{
			ProjectTokens:     funding * 0.5,
			ParticipantTokens: funding * 0.3,
			AuditorTokens:     funding * 0.2,
		},
	}
}

func names(ps []vesting.Allocation) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ProposalName
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func fixture() []vesting.Allocation {
	return []vesting.Allocation{
		alloc("Delta Bridge", 50001),
		alloc("alpha wallet", 9999),
		alloc("Beta Oracle", 10000),
		alloc("Gamma Indexer", 50000),
		alloc("beta tools", 10000),
	}
}

func TestFilterSizePartition(t *testing.T) {
	ps := fixture()
	small := Filter(ps, Criteria{Size: vesting.SizeSmall})
	medium := Filter(ps, Criteria{Size: vesting.SizeMedium})
	large := Filter(ps, Criteria{Size: vesting.SizeLarge})
	if len(small)+len(medium)+len(large) != len(ps) {
		t.Fatalf("size buckets must partition the list: %d+%d+%d", len(small), len(medium), len(large))
	}
	if !equal(names(medium), []string{"Beta Oracle", "Gamma Indexer", "beta tools"}) {
		t.Fatalf("unexpected medium bucket %v", names(medium))
	}
	if !equal(names(large), []string{"Delta Bridge"}) {
		t.Fatalf("unexpected large bucket %v", names(large))
	}
}

func TestFilterSearchCaseInsensitive(t *testing.T) {
	got := Filter(fixture(), Criteria{Search: "BETA"})
	if !equal(names(got), []string{"Beta Oracle", "beta tools"}) {
		t.Fatalf("unexpected search result %v", names(got))
	}
	got = Filter(fixture(), Criteria{Search: "beta", Size: vesting.SizeLarge})
	if len(got) != 0 {
		t.Fatalf("expected no large beta projects, got %v", names(got))
	}
}

func TestFilterSearchKeepsSpaces(t *testing.T) {
	got := Filter(fixture(), Criteria{Search: " "})
	if !equal(names(got), []string{"Delta Bridge", "alpha wallet", "Beta Oracle", "Gamma Indexer", "beta tools"}) {
		t.Fatalf("expected every multi-word name to match a space, got %v", names(got))
	}
	got = Filter(fixture(), Criteria{Search: "   "})
	if len(got) != 0 {
		t.Fatalf("expected no name to contain three spaces, got %v", names(got))
	}
	got = Filter(fixture(), Criteria{Search: "a t"})
	if !equal(names(got), []string{"beta tools"}) {
		t.Fatalf("expected inner space to be matched literally, got %v", names(got))
	}
}

func TestSortByMissingKeysSortLast(t *testing.T) {
	withTail := func(name string, tail float64) vesting.HybridAllocation {
		return vesting.HybridAllocation{
			Allocation:       alloc(name, tail),
			VestingStructure: &vesting.VestingStructure{TailTokens: tail},
		}
	}
	bare := func(name string) vesting.HybridAllocation {
		return vesting.HybridAllocation{Allocation: alloc(name, 0)}
	}
	items := []vesting.HybridAllocation{
		bare("x1"), withTail("c", 30), bare("x2"), withTail("a", 10), withTail("b", 20), bare("x3"),
	}
	SortBy(items, "vesting_structure.tail_tokens", true)
	var got []string
	for _, it := range items {
		got = append(got, it.ProposalName)
	}
	if want := []string{"a", "b", "c", "x1", "x2", "x3"}; !equal(got, want) {
		t.Fatalf("ascending: want %v got %v", want, got)
	}

	SortBy(items, "vesting_structure.tail_tokens", false)
	got = got[:0]
	for _, it := range items {
		got = append(got, it.ProposalName)
	}
	if want := []string{"c", "b", "a", "x1", "x2", "x3"}; !equal(got, want) {
		t.Fatalf("descending: want %v got %v", want, got)
	}
}

func TestSortByIsStable(t *testing.T) {
	ps := fixture()
	SortBy(ps, "requested_funding_usd", true)
	want := []string{"alpha wallet", "Beta Oracle", "beta tools", "Gamma Indexer", "Delta Bridge"}
	if !equal(names(ps), want) {
		t.Fatalf("want %v got %v", want, names(ps))
	}
	SortBy(ps, "requested_funding_usd", false)
	want = []string{"Delta Bridge", "Gamma Indexer", "Beta Oracle", "beta tools", "alpha wallet"}
	if !equal(names(ps), want) {
		t.Fatalf("descending ties must keep order: want %v got %v", want, names(ps))
	}
}

func TestSortByStringsAndNestedKeys(t *testing.T) {
	ps := fixture()
	SortBy(ps, "proposal_name", true)
	want := []string{"alpha wallet", "Beta Oracle", "beta tools", "Delta Bridge", "Gamma Indexer"}
	if !equal(names(ps), want) {
		t.Fatalf("want %v got %v", want, names(ps))
	}

	SortBy(ps, "token_distribution.auditor_tokens", false)
	if ps[0].ProposalName != "Delta Bridge" || ps[4].ProposalName != "alpha wallet" {
		t.Fatalf("unexpected nested order %v", names(ps))
	}

	before := names(ps)
	SortBy(ps, "no.such.key", true)
	if !equal(names(ps), before) {
		t.Fatalf("unknown key must not reorder: %v", names(ps))
	}
}

func TestSortByEmbeddedFields(t *testing.T) {
	items := []vesting.PureAllocation{
		{Allocation: alloc("B", 2)},
		{Allocation: alloc("A", 1)},
	}
	SortBy(items, "total_tokens", true)
	if items[0].ProposalName != "A" {
		t.Fatalf("expected embedded field lookup, got %s first", items[0].ProposalName)
	}
}

func TestApplySortOptions(t *testing.T) {
	cases := map[SortOption]string{
		SortName:        "alpha wallet",
		SortFundingAsc:  "alpha wallet",
		SortFundingDesc: "Delta Bridge",
		SortTokens:      "Delta Bridge",
	}
	for opt, first := range cases {
		got := Apply(fixture(), Criteria{Sort: opt})
		if got[0].ProposalName != first {
			t.Fatalf("%s: expected %s first, got %s", opt, first, got[0].ProposalName)
		}
	}
	if _, err := ParseSortOption("random"); err == nil {
		t.Fatal("expected error for unknown sort")
	}
}

func TestSelectorFallsBackToAll(t *testing.T) {
	s := NewSelector(fixture())
	if got := s.Select("Beta Oracle"); got != "Beta Oracle" {
		t.Fatalf("expected Beta Oracle, got %s", got)
	}
	if got := s.Select("Unknown"); got != All {
		t.Fatalf("unknown project should fall back to all, got %s", got)
	}

	s.Select("Delta Bridge")
	s.SetSize(vesting.SizeSmall)
	if s.Project() != All {
		t.Fatalf("filtered-out project should reset to all, got %s", s.Project())
	}
	if len(s.Visible()) != 1 {
		t.Fatalf("expected one small project, got %v", names(s.Visible()))
	}

	s.SetSize(vesting.SizeAll)
	s.Select("Gamma Indexer")
	s.SetProjects(fixture()[:2])
	if s.Project() != All {
		t.Fatalf("project missing after reload should reset, got %s", s.Project())
	}
}

func TestSelectorCyclesAndScenario(t *testing.T) {
	s := NewSelector(fixture())
	if got := s.CycleSize(); got != vesting.SizeSmall {
		t.Fatalf("expected small, got %s", got)
	}
	if got := s.CycleSort(); got != SortFundingAsc {
		t.Fatalf("expected funding-asc, got %s", got)
	}

	s.SetApproach(vesting.Hybrid)
	if got := s.SetScenarioIndex(20); got != 12 {
		t.Fatalf("expected hybrid clamp to 12, got %d", got)
	}
	s.SetApproach(vesting.Pure)
	if s.ScenarioIndex() != 4 {
		t.Fatalf("switching to pure should clamp to 4, got %d", s.ScenarioIndex())
	}
	if got := s.StepScenario(-10); got != 0 {
		t.Fatalf("expected clamp to 0, got %d", got)
	}
	st := s.Snapshot()
	if st.Approach != vesting.Pure || st.Total != 5 || st.Criteria.Size != vesting.SizeSmall {
		t.Fatalf("unexpected snapshot %+v", st)
	}
}
