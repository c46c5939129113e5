package selection

import (
	"sync"

	"github.com/GoPolymarket/vesting-dashboard/internal/vesting"
)

// All is the project key meaning "no single project selected".
const All = "all"

// ScenarioMax is the largest scenario index for an approach: the milestone
// count for pure, the last month otherwise.
func ScenarioMax(a vesting.Approach) int {
	if a == vesting.Pure {
		return vesting.MilestoneCount
	}
	return vesting.HybridMonths - 1
}

// State is a copy of the selection at one instant.
type State struct {
	Project       string           `json:"project"`
	Approach      vesting.Approach `json:"approach"`
	Criteria      Criteria         `json:"criteria"`
	ScenarioIndex int              `json:"scenario_index"`
	Visible       int              `json:"visible"`
	Total         int              `json:"total"`
}

// Selector owns the mutable dashboard selection. Every change recomputes
// the visible list and re-checks the current project against it.
type Selector struct {
	mu       sync.RWMutex
	all      []vesting.Allocation
	visible  []vesting.Allocation
	criteria Criteria
	project  string
	approach vesting.Approach
	scenario int
}

func NewSelector(projects []vesting.Allocation) *Selector {
	s := &Selector{
		criteria: Criteria{Size: vesting.SizeAll, Sort: SortName},
		project:  All,
		approach: vesting.Pure,
	}
	s.all = append([]vesting.Allocation(nil), projects...)
	s.applyLocked()
	return s
}

// SetProjects replaces the full list, e.g. after a reload.
func (s *Selector) SetProjects(projects []vesting.Allocation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.all = append([]vesting.Allocation(nil), projects...)
	s.applyLocked()
}

// Apply recomputes the visible list and returns a copy of it.
func (s *Selector) Apply() []vesting.Allocation {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyLocked()
	return append([]vesting.Allocation(nil), s.visible...)
}

func (s *Selector) applyLocked() {
	s.visible = Apply(s.all, s.criteria)
	if s.project != All && !s.visibleLocked(s.project) {
		s.project = All
	}
}

func (s *Selector) visibleLocked(name string) bool {
	for _, p := range s.visible {
		if p.ProposalName == name {
			return true
		}
	}
	return false
}

// Visible returns a copy of the current filtered, sorted list.
func (s *Selector) Visible() []vesting.Allocation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]vesting.Allocation(nil), s.visible...)
}

// Select makes name current. Names absent from the visible list fall back
// to All. It returns the effective selection.
func (s *Selector) Select(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name == "" || name == All || !s.visibleLocked(name) {
		s.project = All
	} else {
		s.project = name
	}
	return s.project
}

func (s *Selector) Project() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.project
}

func (s *Selector) SetSearch(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria.Search = q
	s.applyLocked()
}

func (s *Selector) SetSize(b vesting.SizeBucket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria.Size = b
	s.applyLocked()
}

func (s *Selector) SetSort(o SortOption) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria.Sort = o
	s.applyLocked()
}

// CycleSize advances to the next size bucket and returns it.
func (s *Selector) CycleSize() vesting.SizeBucket {
	s.mu.Lock()
	defer s.mu.Unlock()
	buckets := vesting.SizeBuckets()
	s.criteria.Size = buckets[(int(s.criteria.Size)+1)%len(buckets)]
	s.applyLocked()
	return s.criteria.Size
}

// CycleSort advances to the next sort option and returns it.
func (s *Selector) CycleSort() SortOption {
	s.mu.Lock()
	defer s.mu.Unlock()
	opts := SortOptions()
	next := 0
	for i, o := range opts {
		if o == s.criteria.Sort {
			next = (i + 1) % len(opts)
		}
	}
	s.criteria.Sort = opts[next]
	s.applyLocked()
	return s.criteria.Sort
}

func (s *Selector) Criteria() Criteria {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.criteria
}

// SetApproach switches the approach and clamps the scenario index into its
// range.
func (s *Selector) SetApproach(a vesting.Approach) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.approach = a
	s.scenario = min(s.scenario, ScenarioMax(a))
}

func (s *Selector) Approach() vesting.Approach {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.approach
}

// SetScenarioIndex clamps i into [0, ScenarioMax] and returns the result.
func (s *Selector) SetScenarioIndex(i int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scenario = min(max(i, 0), ScenarioMax(s.approach))
	return s.scenario
}

// StepScenario moves the scenario index by delta.
func (s *Selector) StepScenario(delta int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scenario = min(max(s.scenario+delta, 0), ScenarioMax(s.approach))
	return s.scenario
}

func (s *Selector) ScenarioIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scenario
}

// Snapshot copies the whole selection.
func (s *Selector) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		Project:       s.project,
		Approach:      s.approach,
		Criteria:      s.criteria,
		ScenarioIndex: s.scenario,
		Visible:       len(s.visible),
		Total:         len(s.all),
	}
}
