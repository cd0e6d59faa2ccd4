// internal/assessment/relationship.go
package assessment

// RelationshipScorer segments financial behavior. Implementations must be pure.
type RelationshipScorer interface {
	Score(in AssessmentInput) RelationshipScore
}

// RelationshipImpactScorer is the points-table RelationshipScorer.
type RelationshipImpactScorer struct {
	tables Tables
}

func NewRelationshipImpactScorer(t Tables) *RelationshipImpactScorer {
	return &RelationshipImpactScorer{tables: t.Clone()}
}

type segmentProfile struct {
	tier            string
	challenges      []string
	recommendations []string
}

var segmentProfiles = map[Segment]segmentProfile{
	SegmentStressFree: {
		tier:       TierBudget,
		challenges: []string{"Keeping spending habits steady through life changes"},
		recommendations: []string{
			"Automate savings to keep your current momentum",
			"Review shared expenses once a quarter",
		},
	},
	SegmentRelationshipSpender: {
		tier: TierMid,
		challenges: []string{
			"Spending to maintain relationship expectations",
			"Irregular discretionary spending",
		},
		recommendations: []string{
			"Set a monthly budget for dates and gifts",
			"Talk openly with your partner about money goals",
		},
	},
	SegmentEmotionalManager: {
		tier: TierMid,
		challenges: []string{
			"Emotion-driven purchases after stressful events",
			"Difficulty sticking to a budget under stress",
		},
		recommendations: []string{
			"Add a 24-hour pause before non-essential purchases",
			"Track spending alongside mood to spot triggers",
		},
	},
	SegmentCrisisMode: {
		tier: TierProfessional,
		challenges: []string{
			"Frequent stress spending that strains essentials",
			"Relationship conflict tied to money",
			"Little or no emergency savings",
		},
		recommendations: []string{
			"Work with a financial coach on a recovery plan",
			"Freeze non-essential spending for 30 days",
			"Build a small emergency buffer before other goals",
		},
	},
}

// Score never fails; unknown or missing tags contribute zero points.
func (s *RelationshipImpactScorer) Score(in AssessmentInput) RelationshipScore {
	t := s.tables
	status := in.RelationshipStatus
	if status == "" {
		status = DefaultRelationship
	}
	stress := in.FinancialStressFrequency
	if stress == "" {
		stress = DefaultStress
	}

	relPts := t.RelationshipPoints[status]
	stressPts := t.StressPoints[stress]
	trigPts := 0
	for _, trig := range in.EmotionalTriggers {
		trigPts += t.TriggerPoints[trig]
	}
	total := relPts + stressPts + trigPts

	segment := segmentFor(total)
	profile := segmentProfiles[segment]
	factor := t.SegmentImpact[segment]

	monthly := float64(in.Salary()) / 12 * factor

	return RelationshipScore{
		TotalScore:         total,
		Segment:            segment,
		ProductTier:        profile.tier,
		RelationshipPoints: relPts,
		StressPoints:       stressPts,
		TriggerPoints:      trigPts,
		Challenges:         append([]string(nil), profile.challenges...),
		Recommendations:    append([]string(nil), profile.recommendations...),
		FinancialImpact: FinancialImpact{
			Monthly:          monthly,
			Annual:           monthly * 12,
			PotentialSavings: monthly * 0.5,
			StressCostPct:    factor * 100,
		},
	}
}

func segmentFor(total int) Segment {
	switch {
	case total <= 16:
		return SegmentStressFree
	case total <= 25:
		return SegmentRelationshipSpender
	case total <= 35:
		return SegmentEmotionalManager
	default:
		return SegmentCrisisMode
	}
}
