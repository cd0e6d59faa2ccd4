// internal/income/models.go
package income

import "errors"

// ErrDemographicDataUnavailable is returned when no benchmark exists for a
// requested peer group.
var ErrDemographicDataUnavailable = errors.New("demographic income data unavailable")

// Benchmark dimensions.
const (
	DimensionNational  = "national"
	DimensionLocation  = "location"
	DimensionEducation = "education"
	DimensionAge       = "age"

	NationalTag = "all"
)

// Query is one income-comparison request. Empty demographic fields are
// skipped and lower the confidence of the analysis.
type Query struct {
	UserIncome     int
	Location       string
	EducationLevel string
	AgeGroup       string
}

// Comparison is the user's standing within one peer group.
type Comparison struct {
	Group         string
	Label         string
	MedianIncome  float64
	Percentile    float64
	IncomeGap     float64
	GapPercentage float64
}

// Analysis is the full comparison result.
type Analysis struct {
	OverallPercentile      float64
	PrimaryGap             *Comparison
	CareerOpportunityScore float64
	Comparisons            []Comparison
	MotivationalSummary    string
	ActionPlan             []string
	NextSteps              []string
	ConfidenceLevel        float64
}
