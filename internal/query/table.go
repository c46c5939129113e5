package query

import (
	"strconv"
	"strings"

	"github.com/GoPolymarket/vesting-dashboard/internal/format"
	"github.com/GoPolymarket/vesting-dashboard/internal/vesting"
)

// PureRow is one milestone line of the pure data table.
type PureRow struct {
	Milestone    string  `json:"milestone"`
	Project      float64 `json:"project"`
	Participant  float64 `json:"participant"`
	Auditor      float64 `json:"auditor"`
	TotalRelease float64 `json:"total_release"`
	Cumulative   float64 `json:"cumulative"`
}

// HybridRow is one month line of the hybrid data table.
type HybridRow struct {
	Month           int     `json:"month"`
	Milestones      string  `json:"milestones"`
	VestedThisMonth float64 `json:"vested_this_month"`
	Cumulative      float64 `json:"cumulative"`
	Percent         float64 `json:"percent"`
}

// DataTable is the per-project detail table; exactly one of Pure or Hybrid
// is populated.
type DataTable struct {
	Approach vesting.Approach `json:"approach"`
	Project  string           `json:"project"`
	Pure     []PureRow        `json:"pure,omitempty"`
	Hybrid   []HybridRow      `json:"hybrid,omitempty"`
}

var (
	pureColumns   = []string{"Milestone", "Project", "Participant", "Auditor", "Total Release", "Cumulative"}
	hybridColumns = []string{"Month", "Milestones", "Vested This Month", "Cumulative", "% Complete"}
)

// Columns returns the header for the table's approach.
func (t DataTable) Columns() []string {
	if t.Approach == vesting.Hybrid {
		return hybridColumns
	}
	return pureColumns
}

// Records renders every row with display formatting.
func (t DataTable) Records() [][]string {
	if t.Approach == vesting.Hybrid {
		out := make([][]string, 0, len(t.Hybrid))
		for _, r := range t.Hybrid {
			out = append(out, []string{
				strconv.Itoa(r.Month),
				r.Milestones,
				format.Number(r.VestedThisMonth),
				format.Number(r.Cumulative),
				format.Percent(r.Percent),
			})
		}
		return out
	}
	out := make([][]string, 0, len(t.Pure))
	for _, r := range t.Pure {
		out = append(out, []string{
			r.Milestone,
			format.Number(r.Project),
			format.Number(r.Participant),
			format.Number(r.Auditor),
			format.Number(r.TotalRelease),
			format.Number(r.Cumulative),
		})
	}
	return out
}

// DataTable builds the detail table for name. Month 0 without milestones is
// marked CLIFF; any other month without milestones is "-".
func (s *Store) DataTable(name string, a vesting.Approach) (DataTable, bool) {
	switch a {
	case vesting.Pure:
		p, ok := s.PureProject(name)
		if !ok {
			return DataTable{}, false
		}
		t := DataTable{Approach: a, Project: name}
		var cum float64
		for _, m := range vesting.Milestones() {
			rel := p.MilestoneReleases.Get(m)
			cum += rel.TotalRelease
			t.Pure = append(t.Pure, PureRow{
				Milestone:    m.Label(),
				Project:      rel.ProjectTokens,
				Participant:  rel.ParticipantTokens,
				Auditor:      rel.AuditorTokens,
				TotalRelease: rel.TotalRelease,
				Cumulative:   cum,
			})
		}
		return t, true
	case vesting.Hybrid:
		h, ok := s.HybridProject(name)
		if !ok {
			return DataTable{}, false
		}
		t := DataTable{Approach: a, Project: name}
		for _, snap := range h.MonthlyTimeline {
			label := "-"
			switch {
			case snap.HasMilestoneEvent():
				label = strings.Join(snap.MilestonesAchieved, ", ")
			case snap.Month == 0:
				label = "CLIFF"
			}
			t.Hybrid = append(t.Hybrid, HybridRow{
				Month:           snap.Month,
				Milestones:      label,
				VestedThisMonth: snap.VestedThisMonth.Total(),
				Cumulative:      snap.CumulativeVested.Total(),
				Percent:         snap.VestedPercentages.Total,
			})
		}
		return t, true
	}
	return DataTable{}, false
}
