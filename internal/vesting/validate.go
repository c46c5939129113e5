package vesting

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ProportionTolerance is the allowed drift of each category share from its
// conventional ratio, as a fraction of total tokens.
const ProportionTolerance = 0.005

func approxEqual(a, b, scale float64) bool {
	return math.Abs(a-b) <= 1e-6*math.Max(1, math.Abs(scale))
}

func validateAllocation(a Allocation) []error {
	var errs []error
	name := a.ProposalName
	if strings.TrimSpace(name) == "" {
		errs = append(errs, errors.New("allocation with empty proposal_name"))
		name = "<unnamed>"
	}
	if a.RequestedFundingUSD < 0 {
		errs = append(errs, fmt.Errorf("%s: requested_funding_usd must be >= 0, got %f", name, a.RequestedFundingUSD))
	}
	if a.TotalTokens < 0 {
		errs = append(errs, fmt.Errorf("%s: total_tokens must be >= 0, got %f", name, a.TotalTokens))
	}
	if sum := a.TokenDistribution.Total(); !approxEqual(sum, a.TotalTokens, a.TotalTokens) {
		errs = append(errs, fmt.Errorf("%s: token_distribution sums to %f, want %f", name, sum, a.TotalTokens))
	}
	if a.TotalTokens > 0 {
		for _, c := range Categories() {
			share := a.TokenDistribution.Get(c) / a.TotalTokens
			if math.Abs(share-c.Ratio()) > ProportionTolerance {
				errs = append(errs, fmt.Errorf("%s: %s share %.4f, want %.2f", name, c, share, c.Ratio()))
			}
		}
	}
	return errs
}

func validateSummary(s Summary, count int, funding, tokens float64) []error {
	var errs []error
	if s.TotalProjects != count {
		errs = append(errs, fmt.Errorf("summary.total_projects = %d, allocations = %d", s.TotalProjects, count))
	}
	if !approxEqual(s.TotalFundingUSD, funding, funding) {
		errs = append(errs, fmt.Errorf("summary.total_funding_usd = %f, allocations sum to %f", s.TotalFundingUSD, funding))
	}
	if !approxEqual(s.TotalTokens, tokens, tokens) {
		errs = append(errs, fmt.Errorf("summary.total_tokens = %f, allocations sum to %f", s.TotalTokens, tokens))
	}
	return errs
}

func checkUnique(seen map[string]bool, name string) error {
	if seen[name] {
		return fmt.Errorf("duplicate proposal_name %q", name)
	}
	seen[name] = true
	return nil
}

// Validate checks the pure dataset's structural invariants and the
// conventional 50/30/20 distribution.
func (d *PureDataset) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(d.Allocations))
	var funding, tokens float64
	for _, a := range d.Allocations {
		if err := checkUnique(seen, a.ProposalName); err != nil {
			errs = append(errs, err)
		}
		errs = append(errs, validateAllocation(a.Allocation)...)
		if sum := a.MilestoneReleases.Total(); !approxEqual(sum, a.TotalTokens, a.TotalTokens) {
			errs = append(errs, fmt.Errorf("%s: milestone releases sum to %f, want %f", a.ProposalName, sum, a.TotalTokens))
		}
		funding += a.RequestedFundingUSD
		tokens += a.TotalTokens
	}
	errs = append(errs, validateSummary(d.Summary, len(d.Allocations), funding, tokens)...)
	return errors.Join(errs...)
}

// Validate checks the hybrid dataset's structural invariants: a 13 month
// non-decreasing timeline that ends fully vested.
func (d *HybridDataset) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(d.Allocations))
	var funding, tokens float64
	for _, a := range d.Allocations {
		if err := checkUnique(seen, a.ProposalName); err != nil {
			errs = append(errs, err)
		}
		errs = append(errs, validateAllocation(a.Allocation)...)
		errs = append(errs, validateTimeline(a)...)
		funding += a.RequestedFundingUSD
		tokens += a.TotalTokens
	}
	errs = append(errs, validateSummary(d.Summary, len(d.Allocations), funding, tokens)...)
	return errors.Join(errs...)
}

func validateTimeline(a HybridAllocation) []error {
	var errs []error
	tl := a.MonthlyTimeline
	if len(tl) != HybridMonths {
		return append(errs, fmt.Errorf("%s: monthly_timeline has %d months, want %d", a.ProposalName, len(tl), HybridMonths))
	}
	var prev TokenSplit
	for i, snap := range tl {
		if snap.Month != i {
			errs = append(errs, fmt.Errorf("%s: timeline entry %d has month %d", a.ProposalName, i, snap.Month))
		}
		for _, c := range Categories() {
			cur := snap.CumulativeVested.Get(c)
			if cur+1e-9 < prev.Get(c) {
				errs = append(errs, fmt.Errorf("%s: cumulative %s decreases at month %d", a.ProposalName, c, snap.Month))
			}
		}
		if snap.VestedPercentages.Total < 0 || snap.VestedPercentages.Total > 100+1e-6 {
			errs = append(errs, fmt.Errorf("%s: vested_percentages.total %f out of range at month %d", a.ProposalName, snap.VestedPercentages.Total, snap.Month))
		}
		prev = snap.CumulativeVested
	}
	if final := tl[len(tl)-1].CumulativeVested.Total(); !approxEqual(final, a.TotalTokens, a.TotalTokens) {
		errs = append(errs, fmt.Errorf("%s: final cumulative vested %f, want %f", a.ProposalName, final, a.TotalTokens))
	}
	return errs
}
