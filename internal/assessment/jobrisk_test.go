package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func referenceJobInput() AssessmentInput {
	return AssessmentInput{
		CurrentSalary:   Int(75000),
		Field:           "software_development",
		ExperienceLevel: "mid",
		CompanySize:     "large",
		Location:        "urban",
		Industry:        "technology",
		Skills:          []string{"python", "javascript", "react"},
		RequiredSkills:  []string{"python", "javascript", "react", "node.js"},
	}
}

func TestJobRiskScorer_ReferenceScenario(t *testing.T) {
	s := NewJobRiskScorer(DefaultTables())
	got := s.Score(referenceJobInput())

	assert.InDelta(t, 1.0, got.Components.Salary, 1e-9)
	assert.InDelta(t, 0.75, got.Components.Skills, 1e-9)
	assert.InDelta(t, 0.72, got.Components.Career, 1e-9)
	assert.InDelta(t, 0.8, got.Components.Company, 1e-9)
	assert.InDelta(t, 0.8, got.Components.Location, 1e-9)
	assert.InDelta(t, 0.9, got.Components.Growth, 1e-9)
	assert.InDelta(t, 0.8465, got.OverallScore, 1e-6)

	assert.InDelta(t, 0.3, got.AutomationScore, 1e-9)
	assert.InDelta(t, 0.75, got.AugmentationScore, 1e-9)
	assert.InDelta(t, 0.435, got.FinalRiskScore, 1e-9)
	assert.Equal(t, RiskMedium, got.FinalRiskLevel)
	assert.Equal(t, 1.2, got.FieldMultiplier)

	assert.InDelta(t, 0.7215, got.ConfidenceInterval.Low, 1e-9)
	assert.InDelta(t, 0.9715, got.ConfidenceInterval.High, 1e-9)
}

func TestJobRiskScorer_OverallIsWeightedSum(t *testing.T) {
	s := NewJobRiskScorer(DefaultTables())
	inputs := []AssessmentInput{
		referenceJobInput(),
		{},
		{CurrentSalary: Int(20000), Field: "operations", ExperienceLevel: "entry", CompanySize: "startup", Location: "rural", Industry: "government"},
		{CurrentSalary: Int(200000), Field: "finance", ExperienceLevel: "executive", Industry: "healthcare"},
	}
	for _, in := range inputs {
		got := s.Score(in)
		c := got.Components
		want := 0.35*c.Salary + 0.25*c.Skills + 0.20*c.Career + 0.10*c.Company + 0.05*c.Location + 0.05*c.Growth
		assert.InDelta(t, want, got.OverallScore, 1e-6)
	}
}

func TestJobRiskScorer_FieldMultipliers(t *testing.T) {
	tests := []struct {
		field string
		want  float64
	}{
		{"software_development", 1.2},
		{"data_analysis", 1.1},
		{"project_management", 1.0},
		{"marketing", 0.95},
		{"finance", 1.05},
		{"sales", 0.9},
		{"operations", 0.95},
		{"hr", 0.9},
		{"", 1.0},
		{"underwater_basket_weaving", 1.0},
	}
	s := NewJobRiskScorer(DefaultTables())
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Score(AssessmentInput{Field: tt.field}).FieldMultiplier)
		})
	}
}

func TestJobRiskScorer_SalaryThresholds(t *testing.T) {
	tests := []struct {
		name   string
		salary int
		want   float64
	}{
		{"zero", 0, 0},
		{"at half", 25000, 0.2},
		{"below 0.8", 40000, 0.5},
		{"at baseline", 50000, 0.8},
		{"at 1.2", 60000, 0.8},
		{"above 1.2", 60001, 1.0},
	}
	s := NewJobRiskScorer(DefaultTables())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Score(AssessmentInput{CurrentSalary: Int(tt.salary)})
			assert.Equal(t, tt.want, got.Components.Salary)
		})
	}
}

func TestJobRiskScorer_SkillsScore(t *testing.T) {
	assert.Equal(t, 0.5, skillsScore([]string{"go"}, nil))
	assert.Equal(t, 1.0, skillsScore([]string{"Go", "SQL"}, []string{"go", "sql"}))
	assert.Equal(t, 0.0, skillsScore(nil, []string{"go"}))
	assert.InDelta(t, 1.0/3, skillsScore([]string{"go"}, []string{"go", "rust", "zig"}), 1e-9)
}

func TestJobRiskScorer_RiskLevels(t *testing.T) {
	tests := []struct {
		score float64
		want  RiskLevel
	}{
		{0, RiskLow},
		{0.3, RiskLow},
		{0.31, RiskMedium},
		{0.6, RiskMedium},
		{0.8, RiskHigh},
		{0.81, RiskCritical},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, riskLevelFor(tt.score), "score %v", tt.score)
	}
}

func TestJobRiskScorer_RangesAcrossCombinations(t *testing.T) {
	tb := DefaultTables()
	s := NewJobRiskScorer(tb)

	fields := append(keysOf(tb.FieldMultipliers), "")
	experiences := keysOf(tb.ExperienceBase)
	sizes := append(keysOf(tb.CompanyStability), "")
	locations := append(keysOf(tb.LocationScores), "")
	industries := append(keysOf(tb.IndustryGrowth), "")
	salaries := []int{0, 10000, 50000, 90000, 1000000}

	inRange := func(v float64) bool { return v >= 0 && v <= 1 }

	for _, f := range fields {
		for _, e := range experiences {
			for _, sz := range sizes {
				for _, l := range locations {
					for _, ind := range industries {
						for _, sal := range salaries {
							got := s.Score(AssessmentInput{
								CurrentSalary:   Int(sal),
								Field:           f,
								ExperienceLevel: e,
								CompanySize:     sz,
								Location:        l,
								Industry:        ind,
								Skills:          []string{"a"},
								RequiredSkills:  []string{"a", "b"},
							})
							c := got.Components
							for _, v := range []float64{c.Salary, c.Skills, c.Career, c.Company, c.Location, c.Growth,
								got.OverallScore, got.AutomationScore, got.AugmentationScore, got.FinalRiskScore,
								got.ConfidenceInterval.Low, got.ConfidenceInterval.High} {
								require.True(t, inRange(v), "out of range for %s/%s/%s/%s/%s/%d: %v", f, e, sz, l, ind, sal, v)
							}
							require.LessOrEqual(t, got.ConfidenceInterval.Low, got.OverallScore)
							require.GreaterOrEqual(t, got.ConfidenceInterval.High, got.OverallScore)
						}
					}
				}
			}
		}
	}
}

func TestJobRiskScorer_Recommendations(t *testing.T) {
	s := NewJobRiskScorer(DefaultTables())

	high := s.Score(AssessmentInput{
		CurrentSalary:   Int(20000),
		Field:           "operations",
		ExperienceLevel: "entry",
		Skills:          []string{"excel"},
		RequiredSkills:  []string{"excel"},
	})
	// 0.7*0.84 + 0.3*1.0
	assert.InDelta(t, 0.888, high.FinalRiskScore, 1e-9)
	assert.Equal(t, RiskCritical, high.FinalRiskLevel)
	assert.Contains(t, high.Recommendations, "Upskill in emerging technologies that complement automation")
	assert.Contains(t, high.Recommendations, "Focus on transferable skills that carry across roles")
	assert.Contains(t, high.RiskFactors, "High automation exposure in operations")
	assert.Contains(t, high.RiskFactors, "Compensation below market for your field")

	low := s.Score(AssessmentInput{
		Field:           "project_management",
		ExperienceLevel: "executive",
	})
	assert.Equal(t, RiskLow, low.FinalRiskLevel)
	assert.Equal(t, "Keep your current skill development pace", low.Recommendations[0])
}

func TestJobRiskScorer_TablesAreCopied(t *testing.T) {
	tb := DefaultTables()
	s := NewJobRiskScorer(tb)
	tb.FieldMultipliers["software_development"] = 9

	assert.Equal(t, 1.2, s.Score(AssessmentInput{Field: "software_development"}).FieldMultiplier)
}
