// internal/assessment/jobrisk.go
package assessment

import (
	"fmt"
	"strings"
)

// JobScorer computes job-security risk. Implementations must be pure.
type JobScorer interface {
	Score(in AssessmentInput) JobRiskScore
}

// JobRiskScorer is the table-driven JobScorer.
type JobRiskScorer struct {
	tables Tables
}

func NewJobRiskScorer(t Tables) *JobRiskScorer {
	return &JobRiskScorer{tables: t.Clone()}
}

// Score expects normalized input but tolerates absent fields.
func (s *JobRiskScorer) Score(in AssessmentInput) JobRiskScore {
	t := s.tables
	experience := in.ExperienceLevel
	if experience == "" {
		experience = DefaultExperience
	}

	multiplier := lookup(t.FieldMultipliers, in.Field, t.DefaultFieldMultiplier)

	c := JobComponents{
		Salary:   s.salaryScore(in.Salary(), multiplier),
		Skills:   skillsScore(in.Skills, in.RequiredSkills),
		Career:   clamp01(lookup(t.ExperienceBase, experience, t.ExperienceBase[DefaultExperience]) * lookup(t.FieldGrowthFactors, in.Field, t.DefaultFieldGrowthFactor)),
		Company:  lookup(t.CompanyStability, in.CompanySize, t.DefaultCompanyScore),
		Location: lookup(t.LocationScores, in.Location, t.DefaultLocationScore),
		Growth:   lookup(t.IndustryGrowth, in.Industry, t.DefaultIndustryGrowth),
	}

	w := t.JobWeights
	overall := w.Salary*c.Salary +
		w.Skills*c.Skills +
		w.Career*c.Career +
		w.Company*c.Company +
		w.Location*c.Location +
		w.Growth*c.Growth

	automation := clamp01(lookup(t.AutomationBase, in.Field, t.DefaultAutomationBase) * lookup(t.AutomationModifier, experience, 1.0))
	augmentation := c.Skills
	final := 0.7*automation + 0.3*augmentation
	level := riskLevelFor(final)

	margin := 0.1 + (1-(c.Salary+c.Skills)/2)*0.2
	ci := ConfidenceInterval{
		Low:  clamp01(overall - margin),
		High: clamp01(overall + margin),
	}

	return JobRiskScore{
		OverallScore:       overall,
		Components:         c,
		AutomationScore:    automation,
		AugmentationScore:  augmentation,
		FinalRiskScore:     final,
		FinalRiskLevel:     level,
		FieldMultiplier:    multiplier,
		ConfidenceInterval: ci,
		Recommendations:    jobRecommendations(level, c, experience),
		RiskFactors:        jobRiskFactors(in, c, automation),
	}
}

func (s *JobRiskScorer) salaryScore(salary int, multiplier float64) float64 {
	if salary <= 0 {
		return 0
	}
	ratio := float64(salary) / (BaselineSalary * multiplier)
	switch {
	case ratio <= 0.5:
		return 0.2
	case ratio <= 0.8:
		return 0.5
	case ratio <= 1.2:
		return 0.8
	default:
		return 1.0
	}
}

func skillsScore(skills, required []string) float64 {
	if len(required) == 0 {
		return 0.5
	}
	have := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		have[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}
	matched := 0
	for _, r := range required {
		if _, ok := have[strings.ToLower(strings.TrimSpace(r))]; ok {
			matched++
		}
	}
	return clamp01(float64(matched) / float64(len(required)))
}

func riskLevelFor(score float64) RiskLevel {
	switch {
	case score <= 0.3:
		return RiskLow
	case score <= 0.6:
		return RiskMedium
	case score <= 0.8:
		return RiskHigh
	default:
		return RiskCritical
	}
}

func jobRecommendations(level RiskLevel, c JobComponents, experience string) []string {
	var recs []string
	switch level {
	case RiskHigh, RiskCritical:
		recs = append(recs,
			"Upskill in emerging technologies that complement automation",
			"Build an emergency fund covering six months of expenses",
		)
	case RiskMedium:
		recs = append(recs, "Strengthen skills that work alongside automation tools")
	default:
		recs = append(recs, "Keep your current skill development pace")
	}
	if c.Salary < 0.8 {
		recs = append(recs, "Research market salary benchmarks before your next review")
	}
	if c.Skills < 0.5 {
		recs = append(recs, "Close the gaps against the skills your role requires")
	}
	if experience == "entry" {
		recs = append(recs, "Focus on transferable skills that carry across roles")
	}
	return recs
}

func jobRiskFactors(in AssessmentInput, c JobComponents, automation float64) []string {
	var factors []string
	if automation >= 0.6 {
		field := in.Field
		if field == "" {
			field = "your field"
		}
		factors = append(factors, fmt.Sprintf("High automation exposure in %s", field))
	}
	if c.Salary < 0.5 {
		factors = append(factors, "Compensation below market for your field")
	}
	if c.Skills < 0.5 {
		factors = append(factors, "Skills gap against role requirements")
	}
	if c.Company <= 0.3 {
		factors = append(factors, "Employer stability concerns")
	}
	if c.Location <= 0.3 {
		factors = append(factors, "Limited local job market")
	}
	if c.Growth <= 0.4 {
		factors = append(factors, "Slow-growing industry")
	}
	return factors
}
