// internal/workers/assessment/calculate-assessment/models.go
package calculateassessment

import "wellness-assessment/internal/assessment"

// Input is read from the job variables.
type Input struct {
	UserID           string                 `json:"userId"`
	AssessmentData   map[string]interface{} `json:"assessmentData"`
	IncludeBreakdown bool                   `json:"includeBreakdown"`
}

// Output is written back as job variables.
type Output struct {
	Assessment *assessment.AssessmentScoringResult `json:"assessment"`
	Breakdown  *assessment.DetailedBreakdown       `json:"breakdown,omitempty"`
}
