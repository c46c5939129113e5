// Package query answers read-only questions about a loaded dataset bundle.
// Every lookup returns (value, ok); ok is false when the project, index or
// approach does not resolve to data.
package query

import (
	"fmt"

	"github.com/GoPolymarket/vesting-dashboard/internal/dataset"
	"github.com/GoPolymarket/vesting-dashboard/internal/vesting"
)

// Store indexes one immutable bundle. It never mutates the bundle and is
// safe for concurrent readers.
type Store struct {
	bundle    *dataset.Bundle
	pureIdx   map[string]int
	hybridIdx map[string]int
}

func NewStore(b *dataset.Bundle) *Store {
	s := &Store{
		bundle:    b,
		pureIdx:   make(map[string]int, len(b.Pure.Allocations)),
		hybridIdx: make(map[string]int, len(b.Hybrid.Allocations)),
	}
	for i, a := range b.Pure.Allocations {
		if _, dup := s.pureIdx[a.ProposalName]; !dup {
			s.pureIdx[a.ProposalName] = i
		}
	}
	for i, a := range b.Hybrid.Allocations {
		if _, dup := s.hybridIdx[a.ProposalName]; !dup {
			s.hybridIdx[a.ProposalName] = i
		}
	}
	return s
}

// Bundle returns the underlying snapshot.
func (s *Store) Bundle() *dataset.Bundle { return s.bundle }

// PureProject returns the pure-milestone record for name.
func (s *Store) PureProject(name string) (vesting.PureAllocation, bool) {
	i, ok := s.pureIdx[name]
	if !ok {
		return vesting.PureAllocation{}, false
	}
	return s.bundle.Pure.Allocations[i], true
}

// HybridProject returns the hybrid-vesting record for name.
func (s *Store) HybridProject(name string) (vesting.HybridAllocation, bool) {
	i, ok := s.hybridIdx[name]
	if !ok {
		return vesting.HybridAllocation{}, false
	}
	return s.bundle.Hybrid.Allocations[i], true
}

// Project returns the base allocation of name under a dataset approach.
func (s *Store) Project(name string, a vesting.Approach) (vesting.Allocation, bool) {
	switch a {
	case vesting.Pure:
		p, ok := s.PureProject(name)
		return p.Allocation, ok
	case vesting.Hybrid:
		h, ok := s.HybridProject(name)
		return h.Allocation, ok
	}
	return vesting.Allocation{}, false
}

// Projects lists every project in pure dataset order.
func (s *Store) Projects() []vesting.Allocation {
	out := make([]vesting.Allocation, 0, len(s.bundle.Pure.Allocations))
	for _, a := range s.bundle.Pure.Allocations {
		out = append(out, a.Allocation)
	}
	return out
}

func (s *Store) Summary(a vesting.Approach) (vesting.Summary, bool) {
	switch a {
	case vesting.Pure:
		return s.bundle.Pure.Summary, true
	case vesting.Hybrid:
		return s.bundle.Hybrid.Summary, true
	}
	return vesting.Summary{}, false
}

func (s *Store) Metadata(a vesting.Approach) (vesting.Metadata, bool) {
	switch a {
	case vesting.Pure:
		return s.bundle.Pure.Metadata, true
	case vesting.Hybrid:
		return s.bundle.Hybrid.Metadata, true
	}
	return vesting.Metadata{}, false
}

// TimelinePoint is one cumulative position on a vesting curve.
type TimelinePoint struct {
	Label       string  `json:"label"`
	Project     float64 `json:"project"`
	Participant float64 `json:"participant"`
	Auditor     float64 `json:"auditor"`
	Total       float64 `json:"total"`
}

// TimelineSeries is M1..M4 running release sums for pure and the M0..M12
// cumulative_vested curve for hybrid.
func (s *Store) TimelineSeries(name string, a vesting.Approach) ([]TimelinePoint, bool) {
	switch a {
	case vesting.Pure:
		p, ok := s.PureProject(name)
		if !ok {
			return nil, false
		}
		points := make([]TimelinePoint, 0, vesting.MilestoneCount)
		var cur TimelinePoint
		for _, m := range vesting.Milestones() {
			rel := p.MilestoneReleases.Get(m)
			cur.Label = m.Short()
			cur.Project += rel.ProjectTokens
			cur.Participant += rel.ParticipantTokens
			cur.Auditor += rel.AuditorTokens
			cur.Total += rel.TotalRelease
			points = append(points, cur)
		}
		return points, true
	case vesting.Hybrid:
		h, ok := s.HybridProject(name)
		if !ok {
			return nil, false
		}
		points := make([]TimelinePoint, 0, len(h.MonthlyTimeline))
		for _, snap := range h.MonthlyTimeline {
			c := snap.CumulativeVested
			points = append(points, TimelinePoint{
				Label:       fmt.Sprintf("M%d", snap.Month),
				Project:     c.Project,
				Participant: c.Participant,
				Auditor:     c.Auditor,
				Total:       c.Total(),
			})
		}
		return points, true
	}
	return nil, false
}

// Slice is one category share of a project's tokens.
type Slice struct {
	Label    string           `json:"label"`
	Category vesting.Category `json:"-"`
	Value    float64          `json:"value"`
}

func (s *Store) DistributionSplit(name string, a vesting.Approach) ([]Slice, bool) {
	p, ok := s.Project(name, a)
	if !ok {
		return nil, false
	}
	out := make([]Slice, 0, 3)
	for _, c := range vesting.Categories() {
		out = append(out, Slice{Label: c.Label(), Category: c, Value: p.TokenDistribution.Get(c)})
	}
	return out, true
}

// RatePoint is the amount vested in one hybrid month.
type RatePoint struct {
	Label          string  `json:"label"`
	Month          int     `json:"month"`
	Total          float64 `json:"total"`
	MilestoneEvent bool    `json:"milestone_event"`
}

// VestingRateSeries is defined for the hybrid model only.
func (s *Store) VestingRateSeries(name string) ([]RatePoint, bool) {
	h, ok := s.HybridProject(name)
	if !ok {
		return nil, false
	}
	out := make([]RatePoint, 0, len(h.MonthlyTimeline))
	for _, snap := range h.MonthlyTimeline {
		out = append(out, RatePoint{
			Label:          fmt.Sprintf("Month %d", snap.Month),
			Month:          snap.Month,
			Total:          snap.VestedThisMonth.Total(),
			MilestoneEvent: snap.HasMilestoneEvent(),
		})
	}
	return out, true
}

// Scenario is a point-in-time vesting position.
type Scenario struct {
	Approach            vesting.Approach `json:"approach"`
	Index               int              `json:"index"`
	TotalTokens         float64          `json:"total_tokens"`
	Vested              float64          `json:"vested"`
	Unvested            float64          `json:"unvested"`
	Percentage          float64          `json:"percentage"`
	MilestonesCompleted int              `json:"milestones_completed"`
	Month               int              `json:"month"`
	PastCliff           bool             `json:"past_cliff"`
	MilestonesAchieved  []string         `json:"milestones_achieved"`
}

// ScenarioSnapshot reads the position at index. For pure the index is a
// completed-milestone count clamped to [0,4]; for hybrid it is a month and
// out of range months are not found.
func (s *Store) ScenarioSnapshot(name string, index int, a vesting.Approach) (Scenario, bool) {
	switch a {
	case vesting.Pure:
		p, ok := s.PureProject(name)
		if !ok {
			return Scenario{}, false
		}
		n := min(max(index, 0), vesting.MilestoneCount)
		var vested float64
		for _, m := range vesting.Milestones()[:n] {
			vested += p.MilestoneReleases.Get(m).TotalRelease
		}
		return Scenario{
			Approach:            a,
			Index:               n,
			TotalTokens:         p.TotalTokens,
			Vested:              vested,
			Unvested:            p.TotalTokens - vested,
			Percentage:          vesting.Percent(vested, p.TotalTokens),
			MilestonesCompleted: n,
			MilestonesAchieved:  []string{},
		}, true
	case vesting.Hybrid:
		h, ok := s.HybridProject(name)
		if !ok || index < 0 || index >= len(h.MonthlyTimeline) {
			return Scenario{}, false
		}
		snap := h.MonthlyTimeline[index]
		vested := snap.CumulativeVested.Total()
		achieved := snap.MilestonesAchieved
		if achieved == nil {
			achieved = []string{}
		}
		return Scenario{
			Approach:           a,
			Index:              index,
			TotalTokens:        h.TotalTokens,
			Vested:             vested,
			Unvested:           h.TotalTokens - vested,
			Percentage:         snap.VestedPercentages.Total,
			Month:              snap.Month,
			PastCliff:          snap.PastCliff,
			MilestonesAchieved: achieved,
		}, true
	}
	return Scenario{}, false
}

// Portfolio is a cumulative series summed across every project.
type Portfolio struct {
	Approach vesting.Approach `json:"approach"`
	Labels   []string         `json:"labels"`
	Values   []float64        `json:"values"`
}

// Final is the last cumulative value, or 0 for an empty series.
func (p Portfolio) Final() float64 {
	if len(p.Values) == 0 {
		return 0
	}
	return p.Values[len(p.Values)-1]
}

func (s *Store) PortfolioAggregate(a vesting.Approach) (Portfolio, bool) {
	switch a {
	case vesting.Pure:
		perMilestone := make([]float64, vesting.MilestoneCount)
		for _, p := range s.bundle.Pure.Allocations {
			for _, m := range vesting.Milestones() {
				perMilestone[m] += p.MilestoneReleases.Get(m).TotalRelease
			}
		}
		labels := make([]string, 0, vesting.MilestoneCount)
		for _, m := range vesting.Milestones() {
			labels = append(labels, m.Short())
		}
		return Portfolio{Approach: a, Labels: labels, Values: vesting.Cumulative(perMilestone)}, true
	case vesting.Hybrid:
		months := vesting.HybridMonths
		for _, h := range s.bundle.Hybrid.Allocations {
			months = max(months, len(h.MonthlyTimeline))
		}
		values := make([]float64, months)
		for _, h := range s.bundle.Hybrid.Allocations {
			for i, snap := range h.MonthlyTimeline {
				values[i] += snap.CumulativeVested.Total()
			}
		}
		labels := make([]string, months)
		for i := range labels {
			labels[i] = fmt.Sprintf("M%d", i)
		}
		return Portfolio{Approach: a, Labels: labels, Values: values}, true
	}
	return Portfolio{}, false
}
