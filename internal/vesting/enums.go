package vesting

import (
	"fmt"
	"strings"
)

// Approach selects which dataset (or both) a view is computed from.
type Approach int

const (
	Pure Approach = iota
	Hybrid
	Comparison
)

var approachNames = [...]string{"pure", "hybrid", "comparison"}

var approachLabels = [...]string{"Pure Milestone", "Hybrid Vesting", "Comparison Mode"}

// Approaches returns every approach in display order.
func Approaches() []Approach {
	return []Approach{Pure, Hybrid, Comparison}
}

func (a Approach) String() string {
	if a < Pure || a > Comparison {
		return fmt.Sprintf("approach(%d)", int(a))
	}
	return approachNames[a]
}

// Label is the human readable name used in headers.
func (a Approach) Label() string {
	if a < Pure || a > Comparison {
		return approachLabels[Pure]
	}
	return approachLabels[a]
}

// IsDataset reports whether the approach is backed by a single dataset.
func (a Approach) IsDataset() bool {
	return a == Pure || a == Hybrid
}

// ParseApproach accepts "pure", "hybrid" or "comparison" (case-insensitive).
func ParseApproach(s string) (Approach, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pure", "pure-milestone", "milestone":
		return Pure, nil
	case "hybrid", "hybrid-vesting":
		return Hybrid, nil
	case "comparison", "compare":
		return Comparison, nil
	}
	return Pure, fmt.Errorf("unknown approach %q (supported: pure|hybrid|comparison)", s)
}

func (a Approach) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Approach) UnmarshalText(b []byte) error {
	v, err := ParseApproach(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Milestone is one of the four fixed completion checkpoints.
type Milestone int

const (
	Milestone1 Milestone = iota
	Milestone2
	Milestone3
	Milestone4
)

// MilestoneCount is the number of milestones in every allocation.
const MilestoneCount = 4

// HybridMonths is the length of a hybrid monthly timeline (months 0..12).
const HybridMonths = 13

var milestoneLabels = [MilestoneCount]string{
	"Milestone 1 (25%)",
	"Milestone 2 (50%)",
	"Milestone 3 (75%)",
	"Milestone 4 (100%)",
}

// Milestones returns the milestones in release order.
func Milestones() []Milestone {
	return []Milestone{Milestone1, Milestone2, Milestone3, Milestone4}
}

// Label is the key used in the dataset's milestone_releases object.
func (m Milestone) Label() string {
	if m < Milestone1 || m > Milestone4 {
		return fmt.Sprintf("milestone(%d)", int(m))
	}
	return milestoneLabels[m]
}

// Short is the chart axis label, M1..M4.
func (m Milestone) Short() string {
	return fmt.Sprintf("M%d", int(m)+1)
}

// CompletionPct is the cumulative completion the milestone represents.
func (m Milestone) CompletionPct() float64 {
	return float64(int(m)+1) * 25
}

func (m Milestone) String() string { return m.Label() }

// ParseMilestone maps a dataset label back to its milestone.
func ParseMilestone(label string) (Milestone, bool) {
	label = strings.TrimSpace(label)
	for i, l := range milestoneLabels {
		if l == label {
			return Milestone(i), true
		}
	}
	return 0, false
}

// Category is one of the three token recipient groups.
type Category int

const (
	Project Category = iota
	Participant
	Auditor
)

var categoryKeys = [...]string{"project", "participant", "auditor"}

var categoryLabels = [...]string{"Project (50%)", "Participant (30%)", "Auditor (20%)"}

var categoryRatios = [...]float64{0.50, 0.30, 0.20}

// Categories returns the categories in display order.
func Categories() []Category {
	return []Category{Project, Participant, Auditor}
}

func (c Category) String() string {
	if c < Project || c > Auditor {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryKeys[c]
}

// Label includes the conventional share, e.g. "Project (50%)".
func (c Category) Label() string {
	if c < Project || c > Auditor {
		return c.String()
	}
	return categoryLabels[c]
}

// Ratio is the conventional share of total tokens.
func (c Category) Ratio() float64 {
	if c < Project || c > Auditor {
		return 0
	}
	return categoryRatios[c]
}

// SizeBucket groups projects by requested funding.
type SizeBucket int

const (
	SizeAll SizeBucket = iota
	SizeSmall
	SizeMedium
	SizeLarge
)

var sizeNames = [...]string{"all", "small", "medium", "large"}

// SizeBuckets returns the filter options in cycling order.
func SizeBuckets() []SizeBucket {
	return []SizeBucket{SizeAll, SizeSmall, SizeMedium, SizeLarge}
}

func (s SizeBucket) String() string {
	if s < SizeAll || s > SizeLarge {
		return fmt.Sprintf("size(%d)", int(s))
	}
	return sizeNames[s]
}

// ParseSizeBucket accepts all|small|medium|large; empty means all.
func ParseSizeBucket(s string) (SizeBucket, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return SizeAll, nil
	}
	for i, name := range sizeNames {
		if name == v {
			return SizeBucket(i), nil
		}
	}
	return SizeAll, fmt.Errorf("unknown size bucket %q (supported: all|small|medium|large)", s)
}

func (s SizeBucket) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *SizeBucket) UnmarshalText(b []byte) error {
	v, err := ParseSizeBucket(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
