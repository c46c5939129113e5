package vesting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// TokenDistribution is the per-category split of an allocation's tokens.
type TokenDistribution struct {
	ProjectTokens     float64 `json:"project_tokens"`
	ParticipantTokens float64 `json:"participant_tokens"`
	AuditorTokens     float64 `json:"auditor_tokens"`
}

func (d TokenDistribution) Get(c Category) float64 {
	switch c {
	case Project:
		return d.ProjectTokens
	case Participant:
		return d.ParticipantTokens
	case Auditor:
		return d.AuditorTokens
	}
	return 0
}

func (d TokenDistribution) Total() float64 {
	return d.ProjectTokens + d.ParticipantTokens + d.AuditorTokens
}

// TokenSplit is a project/participant/auditor triple used throughout the
// hybrid timeline.
type TokenSplit struct {
	Project     float64 `json:"project"`
	Participant float64 `json:"participant"`
	Auditor     float64 `json:"auditor"`
}

func (s TokenSplit) Get(c Category) float64 {
	switch c {
	case Project:
		return s.Project
	case Participant:
		return s.Participant
	case Auditor:
		return s.Auditor
	}
	return 0
}

func (s TokenSplit) Total() float64 {
	return s.Project + s.Participant + s.Auditor
}

// Allocation is the part of a project record shared by both models.
type Allocation struct {
	ProposalName        string            `json:"proposal_name"`
	RequestedFundingUSD float64           `json:"requested_funding_usd"`
	TotalTokens         float64           `json:"total_tokens"`
	TokenDistribution   TokenDistribution `json:"token_distribution"`
}

// MilestoneRelease is the tranche released when a milestone completes.
type MilestoneRelease struct {
	ProjectTokens     float64 `json:"project_tokens"`
	ParticipantTokens float64 `json:"participant_tokens"`
	AuditorTokens     float64 `json:"auditor_tokens"`
	TotalRelease      float64 `json:"total_release"`
}

// MilestoneReleases holds one release per milestone, indexed by Milestone.
// On the wire it is an object keyed by milestone label.
type MilestoneReleases [MilestoneCount]MilestoneRelease

func (r MilestoneReleases) Get(m Milestone) MilestoneRelease {
	if m < Milestone1 || m > Milestone4 {
		return MilestoneRelease{}
	}
	return r[m]
}

// Total sums total_release over all milestones.
func (r MilestoneReleases) Total() float64 {
	var sum float64
	for _, rel := range r {
		sum += rel.TotalRelease
	}
	return sum
}

func (r MilestoneReleases) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range Milestones() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.Label())
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r[m])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *MilestoneReleases) UnmarshalJSON(b []byte) error {
	var raw map[string]MilestoneRelease
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var out MilestoneReleases
	for label, rel := range raw {
		m, ok := ParseMilestone(label)
		if !ok {
			return fmt.Errorf("unknown milestone label %q", label)
		}
		out[m] = rel
	}
	*r = out
	return nil
}

// PureAllocation vests solely on milestone completion.
type PureAllocation struct {
	Allocation
	MilestoneReleases MilestoneReleases `json:"milestone_releases"`
}

// VestingStructure summarizes a hybrid allocation's schedule parameters.
type VestingStructure struct {
	CliffDays           int     `json:"cliff_days"`
	TotalDurationMonths int     `json:"total_duration_months"`
	MilestoneTokens     float64 `json:"milestone_tokens"`
	TailTokens          float64 `json:"tail_tokens"`
}

// MilestoneSchedule is the unlock pool for one milestone in the hybrid model.
type MilestoneSchedule struct {
	MilestoneName string     `json:"milestone_name"`
	UnlockMonth   int        `json:"unlock_month"`
	PoolSizes     TokenSplit `json:"pool_sizes"`
	VestingMonths int        `json:"vesting_months"`
	MonthlyVest   TokenSplit `json:"monthly_vest"`
}

// VestedPercentages are 0-100 shares of each category already vested.
type VestedPercentages struct {
	Project     float64 `json:"project"`
	Participant float64 `json:"participant"`
	Auditor     float64 `json:"auditor"`
	Total       float64 `json:"total"`
}

// MonthlySnapshot is one month of a hybrid timeline.
type MonthlySnapshot struct {
	Month              int               `json:"month"`
	DaysElapsed        int               `json:"days_elapsed"`
	PastCliff          bool              `json:"past_cliff"`
	MilestonesAchieved []string          `json:"milestones_achieved"`
	NewUnlocked        TokenSplit        `json:"new_unlocked"`
	VestedThisMonth    TokenSplit        `json:"vested_this_month"`
	CumulativeVested   TokenSplit        `json:"cumulative_vested"`
	VestedPercentages  VestedPercentages `json:"vested_percentages"`
}

// HasMilestoneEvent reports whether any milestone was achieved this month.
func (s MonthlySnapshot) HasMilestoneEvent() bool {
	return len(s.MilestonesAchieved) > 0
}

// HybridAllocation vests on a cliff + milestone pools + linear tail schedule.
type HybridAllocation struct {
	Allocation
	VestingStructure  *VestingStructure   `json:"vesting_structure,omitempty"`
	MilestoneSchedule []MilestoneSchedule `json:"milestone_schedule,omitempty"`
	MonthlyTimeline   []MonthlySnapshot   `json:"monthly_timeline"`
}

// Summary is the dataset-level aggregate written by the generator.
type Summary struct {
	TotalProjects            int     `json:"total_projects"`
	TotalFundingUSD          float64 `json:"total_funding_usd"`
	TotalTokens              float64 `json:"total_tokens"`
	TotalProjectTokens       float64 `json:"total_project_tokens"`
	TotalParticipantTokens   float64 `json:"total_participant_tokens"`
	TotalAuditorTokens       float64 `json:"total_auditor_tokens"`
	TotalMilestoneTokens     float64 `json:"total_milestone_tokens,omitempty"`
	TotalTailTokens          float64 `json:"total_tail_tokens,omitempty"`
	AvgProjectDurationMonths float64 `json:"avg_project_duration_months,omitempty"`
	CliffPeriodDays          int     `json:"cliff_period_days,omitempty"`
}

// VestingConfiguration records the hybrid generator parameters.
type VestingConfiguration struct {
	CliffPeriodDays        int     `json:"cliff_period_days"`
	MilestonePeriodMonths  int     `json:"milestone_period_months"`
	TailVestingMonths      int     `json:"tail_vesting_months"`
	TailVestingRatio       float64 `json:"tail_vesting_ratio"`
	MilestoneVestingMonths int     `json:"milestone_vesting_months"`
}

// Metadata describes how a dataset was produced.
type Metadata struct {
	GeneratedAt          string                `json:"generated_at,omitempty"`
	FrameworkVersion     string                `json:"framework_version,omitempty"`
	VestingType          string                `json:"vesting_type,omitempty"`
	TokenConversionRate  float64               `json:"token_conversion_rate,omitempty"`
	DistributionRatios   *TokenDistribution    `json:"distribution_ratios,omitempty"`
	Milestones           []string              `json:"milestones,omitempty"`
	VestingConfiguration *VestingConfiguration `json:"vesting_configuration,omitempty"`
}

// PureDataset is the pure-milestone JSON document.
type PureDataset struct {
	Metadata    Metadata         `json:"metadata"`
	Summary     Summary          `json:"summary"`
	Allocations []PureAllocation `json:"allocations"`
}

// HybridDataset is the hybrid-vesting JSON document.
type HybridDataset struct {
	Metadata    Metadata           `json:"metadata"`
	Summary     Summary            `json:"summary"`
	Allocations []HybridAllocation `json:"allocations"`
}

// DecodePure parses a pure-milestone dataset.
func DecodePure(r io.Reader) (*PureDataset, error) {
	var ds PureDataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode pure dataset: %w", err)
	}
	return &ds, nil
}

// DecodeHybrid parses a hybrid-vesting dataset.
func DecodeHybrid(r io.Reader) (*HybridDataset, error) {
	var ds HybridDataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode hybrid dataset: %w", err)
	}
	return &ds, nil
}
