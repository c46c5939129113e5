// Package generate builds the pure-milestone and hybrid-vesting datasets from
// a funded-projects CSV export.
package generate

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GoPolymarket/vesting-dashboard/internal/vesting"
)

const (
	// TokenConversionRate is tokens issued per requested USD.
	TokenConversionRate = 1.0

	CliffPeriodDays        = 30
	MilestonePeriodMonths  = 6
	TailVestingMonths      = 6
	TailVestingRatio       = 0.10
	MilestoneVestingMonths = 2

	daysPerMonth = 30
)

// milestoneUnlockMonths is the hybrid target month for each milestone.
var milestoneUnlockMonths = [vesting.MilestoneCount]int{1, 2, 4, 6}

var (
	decConversion = decimal.NewFromFloat(TokenConversionRate)
	decTailRatio  = decimal.NewFromFloat(TailVestingRatio)
	decOne        = decimal.NewFromInt(1)
	decHundred    = decimal.NewFromInt(100)
)

// Project is one funded proposal from the CSV export.
type Project struct {
	Name       string
	FundingUSD decimal.Decimal
}

// ParseFunding parses amounts like "$7,500" or "50000". Unparseable input
// yields zero.
func ParseFunding(s string) decimal.Decimal {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ReadFundedProjects reads a CSV with Proposal, "REQUESTED $" and STATUS
// columns and returns the FUNDED rows in file order.
func ReadFundedProjects(r io.Reader) ([]Project, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("generate: read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	nameIdx, ok1 := col["Proposal"]
	fundIdx, ok2 := col["REQUESTED $"]
	statusIdx, ok3 := col["STATUS"]
	if !ok1 || !ok2 || !ok3 {
		return nil, errors.New("generate: csv must have Proposal, REQUESTED $ and STATUS columns")
	}

	var projects []Project
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("generate: read row: %w", err)
		}
		if !strings.EqualFold(field(rec, statusIdx), "FUNDED") {
			continue
		}
		projects = append(projects, Project{
			Name:       field(rec, nameIdx),
			FundingUSD: ParseFunding(field(rec, fundIdx)),
		})
	}
	log.Printf("generate: loaded %d funded projects", len(projects))
	return projects, nil
}

func field(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

type split struct {
	project, participant, auditor decimal.Decimal
}

func (s split) add(o split) split {
	return split{s.project.Add(o.project), s.participant.Add(o.participant), s.auditor.Add(o.auditor)}
}

func (s split) mul(f decimal.Decimal) split {
	return split{s.project.Mul(f), s.participant.Mul(f), s.auditor.Mul(f)}
}

func (s split) div(f decimal.Decimal) split {
	return split{s.project.Div(f), s.participant.Div(f), s.auditor.Div(f)}
}

func (s split) total() decimal.Decimal {
	return s.project.Add(s.participant).Add(s.auditor)
}

func (s split) tokenSplit() vesting.TokenSplit {
	return vesting.TokenSplit{
		Project:     s.project.InexactFloat64(),
		Participant: s.participant.InexactFloat64(),
		Auditor:     s.auditor.InexactFloat64(),
	}
}

func distribute(total decimal.Decimal) split {
	return split{
		project:     total.Mul(decimal.NewFromFloat(vesting.Project.Ratio())),
		participant: total.Mul(decimal.NewFromFloat(vesting.Participant.Ratio())),
		auditor:     total.Mul(decimal.NewFromFloat(vesting.Auditor.Ratio())),
	}
}

func baseAllocation(p Project) (vesting.Allocation, decimal.Decimal, split) {
	total := p.FundingUSD.Mul(decConversion)
	dist := distribute(total)
	return vesting.Allocation{
		ProposalName:        p.Name,
		RequestedFundingUSD: p.FundingUSD.InexactFloat64(),
		TotalTokens:         total.InexactFloat64(),
		TokenDistribution: vesting.TokenDistribution{
			ProjectTokens:     dist.project.InexactFloat64(),
			ParticipantTokens: dist.participant.InexactFloat64(),
			AuditorTokens:     dist.auditor.InexactFloat64(),
		},
	}, total, dist
}

// Pure computes the pure-milestone allocation: each milestone releases the
// difference between its completion share and the previous one.
func Pure(p Project) vesting.PureAllocation {
	base, total, dist := baseAllocation(p)
	out := vesting.PureAllocation{Allocation: base}
	prev := decimal.Zero
	for _, m := range vesting.Milestones() {
		pct := decimal.NewFromFloat(m.CompletionPct()).Div(decHundred)
		release := pct.Sub(prev)
		prev = pct
		out.MilestoneReleases[m] = vesting.MilestoneRelease{
			ProjectTokens:     dist.project.Mul(release).InexactFloat64(),
			ParticipantTokens: dist.participant.Mul(release).InexactFloat64(),
			AuditorTokens:     dist.auditor.Mul(release).InexactFloat64(),
			TotalRelease:      total.Mul(release).InexactFloat64(),
		}
	}
	return out
}

type pool struct {
	monthly   split
	remaining int
}

// Hybrid computes the cliff + milestone pool + linear tail allocation.
func Hybrid(p Project) vesting.HybridAllocation {
	base, total, dist := baseAllocation(p)
	milestoneRatio := decOne.Sub(decTailRatio)
	milestonePart := dist.mul(milestoneRatio)
	poolShare := decOne.Div(decimal.NewFromInt(vesting.MilestoneCount))
	vestMonths := decimal.NewFromInt(MilestoneVestingMonths)

	schedule := make([]vesting.MilestoneSchedule, 0, vesting.MilestoneCount)
	pools := make([]split, 0, vesting.MilestoneCount)
	for _, m := range vesting.Milestones() {
		size := milestonePart.mul(poolShare)
		pools = append(pools, size)
		schedule = append(schedule, vesting.MilestoneSchedule{
			MilestoneName: m.Label(),
			UnlockMonth:   milestoneUnlockMonths[m],
			PoolSizes:     size.tokenSplit(),
			VestingMonths: MilestoneVestingMonths,
			MonthlyVest:   size.div(vestMonths).tokenSplit(),
		})
	}

	tailMonthly := dist.mul(decTailRatio).div(decimal.NewFromInt(TailVestingMonths))
	duration := MilestonePeriodMonths + TailVestingMonths

	var (
		active     []*pool
		cumulative split
		timeline   = make([]vesting.MonthlySnapshot, 0, duration+1)
	)
	for month := 0; month <= duration; month++ {
		days := month * daysPerMonth
		pastCliff := days >= CliffPeriodDays
		var unlocked, vested split
		achieved := []string{}

		for _, m := range vesting.Milestones() {
			if milestoneUnlockMonths[m] != month || !pastCliff {
				continue
			}
			active = append(active, &pool{monthly: pools[m].div(vestMonths), remaining: MilestoneVestingMonths})
			unlocked = unlocked.add(pools[m])
			achieved = append(achieved, m.Label())
		}

		if pastCliff && month > 0 {
			keep := active[:0]
			for _, pl := range active {
				if pl.remaining > 0 {
					vested = vested.add(pl.monthly)
					pl.remaining--
				}
				if pl.remaining > 0 {
					keep = append(keep, pl)
				}
			}
			active = keep
			if month > MilestonePeriodMonths {
				vested = vested.add(tailMonthly)
			}
		}

		cumulative = cumulative.add(vested)
		timeline = append(timeline, vesting.MonthlySnapshot{
			Month:              month,
			DaysElapsed:        days,
			PastCliff:          pastCliff,
			MilestonesAchieved: achieved,
			NewUnlocked:        unlocked.tokenSplit(),
			VestedThisMonth:    vested.tokenSplit(),
			CumulativeVested:   cumulative.tokenSplit(),
			VestedPercentages: vesting.VestedPercentages{
				Project:     pct(cumulative.project, dist.project),
				Participant: pct(cumulative.participant, dist.participant),
				Auditor:     pct(cumulative.auditor, dist.auditor),
				Total:       pct(cumulative.total(), dist.total()),
			},
		})
	}

	return vesting.HybridAllocation{
		Allocation: base,
		VestingStructure: &vesting.VestingStructure{
			CliffDays:           CliffPeriodDays,
			TotalDurationMonths: duration,
			MilestoneTokens:     total.Mul(milestoneRatio).InexactFloat64(),
			TailTokens:          total.Mul(decTailRatio).InexactFloat64(),
		},
		MilestoneSchedule: schedule,
		MonthlyTimeline:   timeline,
	}
}

func pct(part, whole decimal.Decimal) float64 {
	if !whole.IsPositive() {
		return 0
	}
	return part.Div(whole).Mul(decHundred).InexactFloat64()
}

func ratios() *vesting.TokenDistribution {
	return &vesting.TokenDistribution{
		ProjectTokens:     vesting.Project.Ratio(),
		ParticipantTokens: vesting.Participant.Ratio(),
		AuditorTokens:     vesting.Auditor.Ratio(),
	}
}

func summarize(allocs []vesting.Allocation) vesting.Summary {
	s := vesting.Summary{TotalProjects: len(allocs)}
	for _, a := range allocs {
		s.TotalFundingUSD += a.RequestedFundingUSD
		s.TotalTokens += a.TotalTokens
		s.TotalProjectTokens += a.TokenDistribution.ProjectTokens
		s.TotalParticipantTokens += a.TokenDistribution.ParticipantTokens
		s.TotalAuditorTokens += a.TokenDistribution.AuditorTokens
	}
	return s
}

// PureDataset generates the pure-milestone document for projects.
func PureDataset(projects []Project, now time.Time) *vesting.PureDataset {
	ds := &vesting.PureDataset{
		Metadata: vesting.Metadata{
			GeneratedAt:         now.Format(time.RFC3339),
			FrameworkVersion:    "1.0",
			TokenConversionRate: TokenConversionRate,
			DistributionRatios:  ratios(),
		},
		Allocations: make([]vesting.PureAllocation, 0, len(projects)),
	}
	for _, m := range vesting.Milestones() {
		ds.Metadata.Milestones = append(ds.Metadata.Milestones, m.Label())
	}
	bases := make([]vesting.Allocation, 0, len(projects))
	for _, p := range projects {
		a := Pure(p)
		ds.Allocations = append(ds.Allocations, a)
		bases = append(bases, a.Allocation)
	}
	ds.Summary = summarize(bases)
	return ds
}

// HybridDataset generates the hybrid-vesting document for projects.
func HybridDataset(projects []Project, now time.Time) *vesting.HybridDataset {
	ds := &vesting.HybridDataset{
		Metadata: vesting.Metadata{
			GeneratedAt:         now.Format(time.RFC3339),
			FrameworkVersion:    "2.0-hybrid",
			VestingType:         "Cliff + Milestone + Linear",
			TokenConversionRate: TokenConversionRate,
			DistributionRatios:  ratios(),
			VestingConfiguration: &vesting.VestingConfiguration{
				CliffPeriodDays:        CliffPeriodDays,
				MilestonePeriodMonths:  MilestonePeriodMonths,
				TailVestingMonths:      TailVestingMonths,
				TailVestingRatio:       TailVestingRatio,
				MilestoneVestingMonths: MilestoneVestingMonths,
			},
		},
		Allocations: make([]vesting.HybridAllocation, 0, len(projects)),
	}
	bases := make([]vesting.Allocation, 0, len(projects))
	for _, p := range projects {
		a := Hybrid(p)
		ds.Allocations = append(ds.Allocations, a)
		bases = append(bases, a.Allocation)
		ds.Summary.TotalMilestoneTokens += a.VestingStructure.MilestoneTokens
		ds.Summary.TotalTailTokens += a.VestingStructure.TailTokens
	}
	s := summarize(bases)
	s.TotalMilestoneTokens = ds.Summary.TotalMilestoneTokens
	s.TotalTailTokens = ds.Summary.TotalTailTokens
	s.AvgProjectDurationMonths = MilestonePeriodMonths + TailVestingMonths
	s.CliffPeriodDays = CliffPeriodDays
	ds.Summary = s
	return ds
}

// WriteJSON writes v as two-space indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("generate: encode: %w", err)
	}
	return nil
}
