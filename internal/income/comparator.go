// internal/income/comparator.go
package income

import (
	"context"
	"fmt"
	"math"
)

// breakpoint maps a national-equivalent income to its percentile.
type breakpoint struct {
	income     float64
	percentile float64
}

var nationalDistribution = []breakpoint{
	{0, 0},
	{15000, 10},
	{30000, 25},
	{52000, 50},
	{85000, 75},
	{130000, 90},
	{175000, 95},
	{400000, 99},
}

// educationLadder orders education levels for career headroom.
var educationLadder = []string{
	"high_school", "some_college", "associates", "bachelors",
	"masters", "doctorate", "professional",
}

const (
	baseConfidence     = 0.95
	missingDemoPenalty = 0.1
)

type peerGroup struct {
	dimension, tag, label string
}

// BenchmarkComparator compares an income against median benchmarks per peer
// group. It is deterministic for a fixed MedianSource.
type BenchmarkComparator struct {
	source MedianSource
}

func NewBenchmarkComparator(source MedianSource) *BenchmarkComparator {
	return &BenchmarkComparator{source: source}
}

// AnalyzeIncome fails when any requested peer group has no benchmark.
func (c *BenchmarkComparator) AnalyzeIncome(ctx context.Context, q Query) (*Analysis, error) {
	if q.UserIncome < 0 {
		return nil, fmt.Errorf("user income must be non-negative, got %d", q.UserIncome)
	}

	national, err := c.source.Median(ctx, DimensionNational, NationalTag)
	if err != nil {
		return nil, err
	}

	groups := []peerGroup{{DimensionNational, NationalTag, "National"}}
	missing := 0
	if q.Location != "" {
		groups = append(groups, peerGroup{DimensionLocation, q.Location, "Location: " + q.Location})
	} else {
		missing++
	}
	if q.EducationLevel != "" {
		groups = append(groups, peerGroup{DimensionEducation, q.EducationLevel, "Education: " + q.EducationLevel})
	} else {
		missing++
	}
	if q.AgeGroup != "" {
		groups = append(groups, peerGroup{DimensionAge, q.AgeGroup, "Age: " + q.AgeGroup})
	} else {
		missing++
	}

	user := float64(q.UserIncome)
	comparisons := make([]Comparison, 0, len(groups))
	var sum float64
	for _, g := range groups {
		median := national
		if g.dimension != DimensionNational {
			if median, err = c.source.Median(ctx, g.dimension, g.tag); err != nil {
				return nil, err
			}
		}
		// Scale into national terms so one distribution serves every group.
		pct := percentileOf(user * national / median)
		gap := median - user
		comparisons = append(comparisons, Comparison{
			Group:         g.dimension,
			Label:         g.label,
			MedianIncome:  median,
			Percentile:    pct,
			IncomeGap:     gap,
			GapPercentage: gap / median * 100,
		})
		sum += pct
	}

	overall := sum / float64(len(comparisons))
	primary := primaryGap(comparisons)

	return &Analysis{
		OverallPercentile:      overall,
		PrimaryGap:             primary,
		CareerOpportunityScore: careerOpportunity(overall, q.EducationLevel),
		Comparisons:            comparisons,
		MotivationalSummary:    summaryFor(overall),
		ActionPlan:             actionPlan(overall, primary),
		NextSteps: []string{
			"Update your resume with measurable results",
			"Compare offers against your peer-group medians",
			"Revisit this comparison after your next pay change",
		},
		ConfidenceLevel: math.Max(0, baseConfidence-missingDemoPenalty*float64(missing)),
	}, nil
}

func percentileOf(income float64) float64 {
	if income <= 0 {
		return 0
	}
	for i := 1; i < len(nationalDistribution); i++ {
		lo, hi := nationalDistribution[i-1], nationalDistribution[i]
		if income <= hi.income {
			frac := (income - lo.income) / (hi.income - lo.income)
			return lo.percentile + frac*(hi.percentile-lo.percentile)
		}
	}
	return nationalDistribution[len(nationalDistribution)-1].percentile
}

// primaryGap returns the comparison with the largest positive gap, or nil when
// the user is at or above every median.
func primaryGap(comparisons []Comparison) *Comparison {
	var best *Comparison
	for i := range comparisons {
		if comparisons[i].IncomeGap <= 0 {
			continue
		}
		if best == nil || comparisons[i].IncomeGap > best.IncomeGap {
			c := comparisons[i]
			best = &c
		}
	}
	return best
}

func careerOpportunity(percentile float64, education string) float64 {
	headroom := 0.5
	for i, lvl := range educationLadder {
		if lvl == education {
			headroom = 1 - float64(i)/float64(len(educationLadder)-1)
			break
		}
	}
	score := 0.7*(100-percentile)/100 + 0.3*headroom
	return math.Min(1, math.Max(0, score))
}

func summaryFor(percentile float64) string {
	switch {
	case percentile >= 80:
		return "You earn more than most of your peers. Focus on protecting and growing what you have."
	case percentile >= 60:
		return "You are ahead of the typical earner in your groups, with room to climb further."
	case percentile >= 40:
		return "Your income is close to the middle of your peer groups."
	case percentile >= 20:
		return "Your income trails your peers, and a few targeted moves can close the gap."
	default:
		return "There is significant room to grow your income relative to your peers."
	}
}

func actionPlan(percentile float64, primary *Comparison) []string {
	var plan []string
	if percentile < 50 && primary != nil {
		plan = append(plan, fmt.Sprintf("Target roles paying at least the %s median of $%.0f", primary.Label, primary.MedianIncome))
	}
	if percentile < 50 {
		plan = append(plan, "Prepare a raise case backed by market data")
	}
	plan = append(plan,
		"Invest in one certification valued in your field",
		"Grow your professional network by one contact a week",
	)
	return plan
}
