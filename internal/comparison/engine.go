// Package comparison computes point-in-time positions under one model and
// side-by-side comparisons of the pure and hybrid models.
package comparison

import (
	"fmt"

	"github.com/GoPolymarket/vesting-dashboard/internal/format"
	"github.com/GoPolymarket/vesting-dashboard/internal/query"
	"github.com/GoPolymarket/vesting-dashboard/internal/vesting"
)

// InsightIndex is the time index insights are evaluated at: all milestones
// for pure, month 4 for hybrid.
const InsightIndex = 4

// Store is the part of the query layer the engine reads.
type Store interface {
	PureProject(name string) (vesting.PureAllocation, bool)
	HybridProject(name string) (vesting.HybridAllocation, bool)
	ScenarioSnapshot(name string, index int, a vesting.Approach) (query.Scenario, bool)
}

type Engine struct {
	store Store
}

func New(store Store) *Engine {
	return &Engine{store: store}
}

// Single is the position of one model at index.
func (e *Engine) Single(name string, index int, a vesting.Approach) (query.Scenario, bool) {
	return e.store.ScenarioSnapshot(name, index, a)
}

// Favours names the model that has vested more at the compared index.
type Favours string

const (
	FavoursPure   Favours = "pure"
	FavoursHybrid Favours = "hybrid"
	FavoursEven   Favours = "even"
)

// Result compares both models at one index. A positive Difference means
// the pure model has vested more.
type Result struct {
	Project     string         `json:"project"`
	Index       int            `json:"index"`
	Pure        query.Scenario `json:"pure"`
	Hybrid      query.Scenario `json:"hybrid"`
	Difference  float64        `json:"difference"`
	DiffPercent float64        `json:"diff_percent"`
	Favours     Favours        `json:"favours"`
}

// Compare requires both models to resolve the project at index.
func (e *Engine) Compare(name string, index int) (Result, bool) {
	pure, ok := e.store.ScenarioSnapshot(name, index, vesting.Pure)
	if !ok {
		return Result{}, false
	}
	hybrid, ok := e.store.ScenarioSnapshot(name, index, vesting.Hybrid)
	if !ok {
		return Result{}, false
	}
	r := Result{
		Project:     name,
		Index:       index,
		Pure:        pure,
		Hybrid:      hybrid,
		Difference:  pure.Vested - hybrid.Vested,
		DiffPercent: pure.Percentage - hybrid.Percentage,
		Favours:     FavoursEven,
	}
	switch {
	case r.Difference > 0:
		r.Favours = FavoursPure
	case r.Difference < 0:
		r.Favours = FavoursHybrid
	}
	return r, true
}

// Insight is one observation about the models for a project.
type Insight struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

const (
	InsightAdvantageHybrid = "advantage-hybrid"
	InsightFeatureHybrid   = "feature-hybrid"
)

// Insights evaluates the fixed rules in order. The maintenance incentive is
// always present.
func (e *Engine) Insights(name string) ([]Insight, bool) {
	pure4, ok := e.store.ScenarioSnapshot(name, InsightIndex, vesting.Pure)
	if !ok {
		return nil, false
	}
	hybrid4, ok := e.store.ScenarioSnapshot(name, InsightIndex, vesting.Hybrid)
	if !ok {
		return nil, false
	}
	pure0, _ := e.store.ScenarioSnapshot(name, 0, vesting.Pure)
	hybrid0, _ := e.store.ScenarioSnapshot(name, 0, vesting.Hybrid)

	var out []Insight
	if pure4.Percentage >= 100 && hybrid4.Percentage < 100 {
		out = append(out, Insight{
			Type:  InsightAdvantageHybrid,
			Title: "Speed Protection",
			Text: fmt.Sprintf("Pure milestone allows 100%% vesting if all milestones completed quickly, while hybrid limits to %s at month 4.",
				format.Percent(hybrid4.Percentage)),
		})
	}
	if pure0.Percentage > 0 && hybrid0.Percentage == 0 {
		out = append(out, Insight{
			Type:  InsightAdvantageHybrid,
			Title: "Early Abandonment Protection",
			Text:  "Hybrid vesting includes a cliff period that prevents any vesting in the first month, protecting against immediate abandonment.",
		})
	}
	out = append(out, Insight{
		Type:  InsightFeatureHybrid,
		Title: "Maintenance Incentive",
		Text:  "Hybrid vesting reserves 10% of tokens for tail vesting (months 6-12), incentivizing long-term support.",
	})
	return out, true
}

// PureExport is the pure half of an exported comparison.
type PureExport struct {
	TotalTokens float64                   `json:"total_tokens"`
	Milestones  vesting.MilestoneReleases `json:"milestones"`
}

// HybridExport is the hybrid half of an exported comparison.
type HybridExport struct {
	TotalTokens      float64                   `json:"total_tokens"`
	VestingStructure *vesting.VestingStructure `json:"vesting_structure,omitempty"`
	Timeline         []vesting.MonthlySnapshot `json:"timeline"`
}

// Export is the downloadable side-by-side record for one project.
type Export struct {
	Project string       `json:"project"`
	Funding float64      `json:"funding"`
	Pure    PureExport   `json:"pure"`
	Hybrid  HybridExport `json:"hybrid"`
}

func (e *Engine) Export(name string) (Export, bool) {
	p, ok := e.store.PureProject(name)
	if !ok {
		return Export{}, false
	}
	h, ok := e.store.HybridProject(name)
	if !ok {
		return Export{}, false
	}
	return Export{
		Project: name,
		Funding: p.RequestedFundingUSD,
		Pure: PureExport{
			TotalTokens: p.TotalTokens,
			Milestones:  p.MilestoneReleases,
		},
		Hybrid: HybridExport{
			TotalTokens:      h.TotalTokens,
			VestingStructure: h.VestingStructure,
			Timeline:         h.MonthlyTimeline,
		},
	}, true
}
