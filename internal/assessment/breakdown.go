// internal/assessment/breakdown.go
package assessment

import "time"

// DetailedBreakdown decomposes an assessment into per-component sub-scores
// for display.
type DetailedBreakdown struct {
	AssessmentID string               `json:"assessment_id"`
	UserID       string               `json:"user_id"`
	Overall      OverallBreakdown     `json:"overall"`
	Components   []ComponentBreakdown `json:"components"`
	Warnings     []ValidationWarning  `json:"warnings,omitempty"`
	Timestamp    time.Time            `json:"timestamp"`
}

type OverallBreakdown struct {
	RiskScore                  float64  `json:"risk_score"`
	RiskLevel                  string   `json:"risk_level"`
	ConfidenceScore            float64  `json:"confidence_score"`
	SubscriptionRecommendation string   `json:"subscription_recommendation"`
	PrimaryConcerns            []string `json:"primary_concerns"`
	ActionPriorities           []string `json:"action_priorities"`
}

// ComponentBreakdown is one scorer's share of the overall risk.
type ComponentBreakdown struct {
	Name             string             `json:"name"`
	Level            string             `json:"level"`
	RiskContribution float64            `json:"risk_contribution"`
	SubScores        map[string]float64 `json:"sub_scores"`
	Highlights       []string           `json:"highlights"`
}

const (
	ComponentJobRisk      = "job_risk"
	ComponentRelationship = "relationship_impact"
	ComponentIncome       = "income_comparison"
)

func buildBreakdown(t Tables, r *AssessmentScoringResult) *DetailedBreakdown {
	job := r.JobRisk
	rel := r.Relationship
	inc := r.Income

	incomeSubs := map[string]float64{
		"overall_percentile":       inc.OverallPercentile,
		"career_opportunity_score": inc.CareerOpportunityScore,
		"confidence_level":         inc.ConfidenceLevel,
	}
	for _, c := range inc.Comparisons {
		incomeSubs[c.Group+"_percentile"] = c.Percentile
	}
	var incomeHighlights []string
	if inc.MotivationalSummary != "" {
		incomeHighlights = append(incomeHighlights, inc.MotivationalSummary)
	}
	if inc.PrimaryGap != nil {
		incomeHighlights = append(incomeHighlights, "Largest gap: "+inc.PrimaryGap.Label)
	}

	return &DetailedBreakdown{
		AssessmentID: r.AssessmentID,
		UserID:       r.UserID,
		Overall: OverallBreakdown{
			RiskScore:                  r.OverallRiskScore,
			RiskLevel:                  r.OverallRiskLevel,
			ConfidenceScore:            r.ConfidenceScore,
			SubscriptionRecommendation: r.SubscriptionRecommendation,
			PrimaryConcerns:            append([]string(nil), r.PrimaryConcerns...),
			ActionPriorities:           append([]string(nil), r.ActionPriorities...),
		},
		Components: []ComponentBreakdown{
			{
				Name:             ComponentJobRisk,
				Level:            string(job.FinalRiskLevel),
				RiskContribution: t.JobRiskContribution[job.FinalRiskLevel],
				SubScores: map[string]float64{
					"overall_score":      job.OverallScore,
					"salary_score":       job.Components.Salary,
					"skills_score":       job.Components.Skills,
					"career_score":       job.Components.Career,
					"company_score":      job.Components.Company,
					"location_score":     job.Components.Location,
					"growth_score":       job.Components.Growth,
					"automation_score":   job.AutomationScore,
					"augmentation_score": job.AugmentationScore,
					"final_risk_score":   job.FinalRiskScore,
				},
				Highlights: append([]string(nil), job.RiskFactors...),
			},
			{
				Name:             ComponentRelationship,
				Level:            string(rel.Segment),
				RiskContribution: t.SegmentRiskContribution[rel.Segment],
				SubScores: map[string]float64{
					"total_score":         float64(rel.TotalScore),
					"relationship_points": float64(rel.RelationshipPoints),
					"stress_points":       float64(rel.StressPoints),
					"trigger_points":      float64(rel.TriggerPoints),
					"monthly_impact":      rel.FinancialImpact.Monthly,
				},
				Highlights: append([]string(nil), rel.Challenges...),
			},
			{
				Name:             ComponentIncome,
				Level:            incomeBand(inc.OverallPercentile),
				RiskContribution: incomeRiskContribution(inc.OverallPercentile),
				SubScores:        incomeSubs,
				Highlights:       incomeHighlights,
			},
		},
		Warnings:  append([]ValidationWarning(nil), r.Warnings...),
		Timestamp: r.Timestamp,
	}
}

func incomeBand(percentile float64) string {
	switch {
	case percentile >= 80:
		return "TOP_EARNER"
	case percentile >= 60:
		return "ABOVE_AVERAGE"
	case percentile >= 40:
		return "AVERAGE"
	case percentile >= 20:
		return "BELOW_AVERAGE"
	default:
		return "LOW_EARNER"
	}
}
