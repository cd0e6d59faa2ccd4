// internal/assessment/models.go
package assessment

import "time"

// RiskLevel is the job-security risk bucket.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// Segment is the relationship/financial-behavior bucket.
type Segment string

const (
	SegmentStressFree          Segment = "STRESS_FREE"
	SegmentRelationshipSpender Segment = "RELATIONSHIP_SPENDER"
	SegmentEmotionalManager    Segment = "EMOTIONAL_MANAGER"
	SegmentCrisisMode          Segment = "CRISIS_MODE"
)

const (
	TierBudget       = "Budget ($10)"
	TierMid          = "Mid-tier ($20)"
	TierProfessional = "Professional ($50)"
)

// ConfidenceInterval bounds OverallScore; Low <= OverallScore <= High, both in [0,1].
type ConfidenceInterval struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Width returns High - Low.
func (c ConfidenceInterval) Width() float64 {
	return c.High - c.Low
}

// JobComponents are the six weighted inputs of the overall job score.
type JobComponents struct {
	Salary   float64 `json:"salary_score"`
	Skills   float64 `json:"skills_score"`
	Career   float64 `json:"career_score"`
	Company  float64 `json:"company_score"`
	Location float64 `json:"location_score"`
	Growth   float64 `json:"growth_score"`
}

// JobRiskScore is the output of the job-security scorer. Treat as read-only.
type JobRiskScore struct {
	OverallScore       float64            `json:"overall_score"`
	Components         JobComponents      `json:"components"`
	AutomationScore    float64            `json:"automation_score"`
	AugmentationScore  float64            `json:"augmentation_score"`
	FinalRiskScore     float64            `json:"final_risk_score"`
	FinalRiskLevel     RiskLevel          `json:"final_risk_level"`
	FieldMultiplier    float64            `json:"field_multiplier"`
	ConfidenceInterval ConfidenceInterval `json:"confidence_interval"`
	Recommendations    []string           `json:"recommendations"`
	RiskFactors        []string           `json:"risk_factors"`
}

// FinancialImpact estimates what relationship-driven stress spending costs.
type FinancialImpact struct {
	Monthly          float64 `json:"monthly"`
	Annual           float64 `json:"annual"`
	PotentialSavings float64 `json:"potential_savings"`
	StressCostPct    float64 `json:"stress_cost_pct"`
}

// RelationshipScore is the output of the relationship-impact scorer. Treat as read-only.
type RelationshipScore struct {
	TotalScore         int             `json:"total_score"`
	Segment            Segment         `json:"segment"`
	ProductTier        string          `json:"product_tier"`
	RelationshipPoints int             `json:"relationship_points"`
	StressPoints       int             `json:"stress_points"`
	TriggerPoints      int             `json:"trigger_points"`
	Challenges         []string        `json:"challenges"`
	Recommendations    []string        `json:"recommendations"`
	FinancialImpact    FinancialImpact `json:"financial_impact"`
}

// IncomeComparison is one peer-group comparison from the income collaborator.
type IncomeComparison struct {
	Group         string  `json:"group"`
	Label         string  `json:"label"`
	MedianIncome  float64 `json:"median_income"`
	Percentile    float64 `json:"percentile"`
	IncomeGap     float64 `json:"income_gap"` // median minus user income; positive when below median
	GapPercentage float64 `json:"gap_percentage"`
}

// IncomeComparisonScore is the normalized income-comparison result. Treat as read-only.
type IncomeComparisonScore struct {
	UserIncome             int                `json:"user_income"`
	OverallPercentile      float64            `json:"overall_percentile"`
	PrimaryGap             *IncomeComparison  `json:"primary_gap,omitempty"`
	CareerOpportunityScore float64            `json:"career_opportunity_score"`
	Comparisons            []IncomeComparison `json:"comparisons"`
	MotivationalSummary    string             `json:"motivational_summary"`
	ActionPlan             []string           `json:"action_plan"`
	NextSteps              []string           `json:"next_steps"`
	ConfidenceLevel        float64            `json:"confidence_level"`
	CalculationTimeMs      float64            `json:"calculation_time_ms"`
}

// AssessmentScoringResult is the composite, cached assessment. Results are shared
// between callers once published and must not be modified.
type AssessmentScoringResult struct {
	AssessmentID               string                `json:"assessment_id"`
	UserID                     string                `json:"user_id"`
	JobRisk                    JobRiskScore          `json:"job_risk"`
	Relationship               RelationshipScore     `json:"relationship"`
	Income                     IncomeComparisonScore `json:"income"`
	OverallRiskScore           float64               `json:"overall_risk_score"`
	OverallRiskLevel           string                `json:"overall_risk_level"`
	PrimaryConcerns            []string              `json:"primary_concerns"`
	ActionPriorities           []string              `json:"action_priorities"`
	SubscriptionRecommendation string                `json:"subscription_recommendation"`
	ConfidenceScore            float64               `json:"confidence_score"`
	Warnings                   []ValidationWarning   `json:"warnings,omitempty"`
	Timestamp                  time.Time             `json:"timestamp"`
}

// ValidationWarning is a non-fatal input observation that lowers confidence.
type ValidationWarning struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
