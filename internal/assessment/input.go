// internal/assessment/input.go
package assessment

import (
	"fmt"
	"sort"
	"strings"

	apperrors "wellness-assessment/internal/common/errors"
)

// AssessmentInput carries the answers of one assessment. Every field is optional;
// absent fields resolve to neutral defaults, malformed ones are rejected.
type AssessmentInput struct {
	CurrentSalary            *int     `json:"current_salary,omitempty"`
	Field                    string   `json:"field,omitempty"`
	ExperienceLevel          string   `json:"experience_level,omitempty"`
	CompanySize              string   `json:"company_size,omitempty"`
	Location                 string   `json:"location,omitempty"`
	Industry                 string   `json:"industry,omitempty"`
	Skills                   []string `json:"skills,omitempty"`
	RequiredSkills           []string `json:"required_skills,omitempty"`
	RelationshipStatus       string   `json:"relationship_status,omitempty"`
	FinancialStressFrequency string   `json:"financial_stress_frequency,omitempty"`
	EmotionalTriggers        []string `json:"emotional_triggers,omitempty"`
	EducationLevel           string   `json:"education_level,omitempty"`
	AgeGroup                 string   `json:"age_group,omitempty"`
}

// Salary returns the current salary or the baseline when absent.
func (in AssessmentInput) Salary() int {
	if in.CurrentSalary == nil {
		return BaselineSalary
	}
	return *in.CurrentSalary
}

// Int is a convenience for filling CurrentSalary.
func Int(v int) *int {
	return &v
}

// Normalize validates in against the tables and returns a copy with tags
// lower-cased, sets de-duplicated and sorted, and defaults filled in. Optional
// demographic fields stay empty when absent.
// Missing demographic context produces warnings; malformed values produce an
// InvalidInput error listing every offending field.
func (in AssessmentInput) Normalize(t Tables) (AssessmentInput, []ValidationWarning, error) {
	var (
		out      AssessmentInput
		fields   []apperrors.FieldError
		warnings []ValidationWarning
	)

	salary := BaselineSalary
	if in.CurrentSalary != nil {
		salary = *in.CurrentSalary
		if salary < 0 {
			fields = append(fields, apperrors.FieldError{Field: "current_salary", Message: "must be non-negative"})
		}
	}
	out.CurrentSalary = &salary

	out.Field = checkTag("field", in.Field, "", keysOf(t.FieldMultipliers), &fields)
	out.ExperienceLevel = checkTag("experience_level", in.ExperienceLevel, DefaultExperience, keysOf(t.ExperienceBase), &fields)
	out.CompanySize = checkTag("company_size", in.CompanySize, "", keysOf(t.CompanyStability), &fields)
	out.Location = checkTag("location", in.Location, "", keysOf(t.LocationScores), &fields)
	out.Industry = checkTag("industry", in.Industry, "", keysOf(t.IndustryGrowth), &fields)
	out.RelationshipStatus = checkTag("relationship_status", in.RelationshipStatus, DefaultRelationship, keysOf(t.RelationshipPoints), &fields)
	out.FinancialStressFrequency = checkTag("financial_stress_frequency", in.FinancialStressFrequency, DefaultStress, keysOf(t.StressPoints), &fields)
	out.EducationLevel = checkTag("education_level", in.EducationLevel, "", t.EducationLevels, &fields)
	out.AgeGroup = checkTag("age_group", in.AgeGroup, "", t.AgeGroups, &fields)

	out.Skills = normalizeSet("skills", in.Skills, nil, &fields)
	out.RequiredSkills = normalizeSet("required_skills", in.RequiredSkills, nil, &fields)
	out.EmotionalTriggers = normalizeSet("emotional_triggers", in.EmotionalTriggers, keysOf(t.TriggerPoints), &fields)

	if len(fields) > 0 {
		return AssessmentInput{}, nil, apperrors.NewInvalidInputError(fields)
	}

	// Warnings derive from the normalized input only, so equal fingerprints
	// always carry equal warnings.
	if out.Location == "" {
		warnings = append(warnings, ValidationWarning{Field: "location", Message: "not provided; national benchmarks used"})
	}
	if out.EducationLevel == "" {
		warnings = append(warnings, ValidationWarning{Field: "education_level", Message: "not provided; education comparison skipped"})
	}
	if out.AgeGroup == "" {
		warnings = append(warnings, ValidationWarning{Field: "age_group", Message: "not provided; " + DefaultAgeGroup + " benchmarks used"})
	}

	return out, warnings, nil
}

func checkTag(name, raw, def string, allowed []string, fields *[]apperrors.FieldError) string {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return def
	}
	for _, a := range allowed {
		if a == v {
			return v
		}
	}
	*fields = append(*fields, apperrors.FieldError{
		Field:   name,
		Message: fmt.Sprintf("unknown value %q, expected one of [%s]", raw, strings.Join(allowed, ", ")),
	})
	return ""
}

// normalizeSet lower-cases, trims, de-duplicates and sorts values. When allowed
// is non-nil every value must be a member.
func normalizeSet(name string, values, allowed []string, fields *[]apperrors.FieldError) []string {
	if len(values) == 0 {
		return nil
	}
	var allowedSet map[string]struct{}
	if allowed != nil {
		allowedSet = make(map[string]struct{}, len(allowed))
		for _, a := range allowed {
			allowedSet[a] = struct{}{}
		}
	}

	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for i, raw := range values {
		v := strings.ToLower(strings.TrimSpace(raw))
		if v == "" {
			*fields = append(*fields, apperrors.FieldError{Field: fmt.Sprintf("%s[%d]", name, i), Message: "must not be empty"})
			continue
		}
		if allowedSet != nil {
			if _, ok := allowedSet[v]; !ok {
				*fields = append(*fields, apperrors.FieldError{
					Field:   fmt.Sprintf("%s[%d]", name, i),
					Message: fmt.Sprintf("unknown value %q, expected one of [%s]", raw, strings.Join(allowed, ", ")),
				})
				continue
			}
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func keysOf[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
