// internal/assessment/tables.go
package assessment

// Tables holds every lookup table, weight and threshold used by the scorers and
// the composite merge. The engine copies the Tables it is given, so callers may
// build variants from DefaultTables() without affecting running engines.
type Tables struct {
	// Job risk
	FieldMultipliers   map[string]float64
	FieldGrowthFactors map[string]float64
	ExperienceBase     map[string]float64
	CompanyStability   map[string]float64
	LocationScores     map[string]float64
	IndustryGrowth     map[string]float64
	AutomationBase     map[string]float64
	AutomationModifier map[string]float64 // keyed by experience level

	DefaultFieldMultiplier   float64
	DefaultFieldGrowthFactor float64
	DefaultCompanyScore      float64
	DefaultLocationScore     float64
	DefaultIndustryGrowth    float64
	DefaultAutomationBase    float64

	JobWeights JobWeights

	// Relationship impact
	RelationshipPoints map[string]int
	StressPoints       map[string]int
	TriggerPoints      map[string]int
	SegmentImpact      map[Segment]float64 // share of monthly income lost to stress spending

	// Income inputs
	EducationLevels []string
	AgeGroups       []string

	// Composite merge
	JobRiskContribution     map[RiskLevel]float64
	SegmentRiskContribution map[Segment]float64

	// Confidence blending. The two signals are averaged with equal weight
	// unless overridden; each validation warning subtracts WarningPenalty.
	JobConfidenceWeight    float64
	IncomeConfidenceWeight float64
	WarningPenalty         float64
}

// JobWeights are the coefficients of the overall job score.
type JobWeights struct {
	Salary   float64
	Skills   float64
	Career   float64
	Company  float64
	Location float64
	Growth   float64
}

const (
	BaselineSalary      = 50000
	DefaultExperience   = "mid"
	DefaultAgeGroup     = "25-34"
	DefaultRelationship = "single"
	DefaultStress       = "never"
)

// DefaultTables returns a fresh copy of the built-in scoring configuration.
func DefaultTables() Tables {
	return Tables{
		FieldMultipliers: map[string]float64{
			"software_development": 1.2,
			"data_analysis":        1.1,
			"project_management":   1.0,
			"marketing":            0.95,
			"finance":              1.05,
			"sales":                0.9,
			"operations":           0.95,
			"hr":                   0.9,
		},
		FieldGrowthFactors: map[string]float64{
			"software_development": 1.2,
			"data_analysis":        1.1,
			"project_management":   1.0,
			"marketing":            0.9,
			"finance":              1.0,
			"sales":                0.8,
			"operations":           0.9,
			"hr":                   0.8,
		},
		ExperienceBase: map[string]float64{
			"entry":     0.3,
			"mid":       0.6,
			"senior":    0.8,
			"lead":      0.9,
			"executive": 1.0,
		},
		CompanyStability: map[string]float64{
			"startup":    0.3,
			"small":      0.5,
			"medium":     0.7,
			"large":      0.8,
			"enterprise": 0.9,
		},
		LocationScores: map[string]float64{
			"national": 0.5,
			"urban":    0.8,
			"suburban": 0.7,
			"rural":    0.3,
		},
		IndustryGrowth: map[string]float64{
			"technology":    0.9,
			"healthcare":    0.8,
			"finance":       0.7,
			"education":     0.6,
			"retail":        0.4,
			"manufacturing": 0.5,
			"government":    0.3,
		},
		AutomationBase: map[string]float64{
			"software_development": 0.3,
			"data_analysis":        0.4,
			"project_management":   0.2,
			"marketing":            0.5,
			"finance":              0.6,
			"sales":                0.4,
			"operations":           0.7,
			"hr":                   0.6,
		},
		AutomationModifier: map[string]float64{
			"entry":     1.2,
			"mid":       1.0,
			"senior":    0.8,
			"lead":      0.6,
			"executive": 0.4,
		},

		DefaultFieldMultiplier:   1.0,
		DefaultFieldGrowthFactor: 1.0,
		DefaultCompanyScore:      0.5,
		DefaultLocationScore:     0.5,
		DefaultIndustryGrowth:    0.5,
		DefaultAutomationBase:    0.5,

		JobWeights: JobWeights{
			Salary:   0.35,
			Skills:   0.25,
			Career:   0.20,
			Company:  0.10,
			Location: 0.05,
			Growth:   0.05,
		},

		RelationshipPoints: map[string]int{
			"single":      0,
			"dating":      2,
			"serious":     4,
			"married":     6,
			"complicated": 8,
		},
		StressPoints: map[string]int{
			"never":     0,
			"rarely":    2,
			"sometimes": 4,
			"often":     6,
			"always":    8,
		},
		TriggerPoints: map[string]int{
			"after_breakup":   3,
			"after_arguments": 3,
			"when_lonely":     2,
			"when_jealous":    2,
			"social_pressure": 2,
		},
		SegmentImpact: map[Segment]float64{
			SegmentStressFree:          0,
			SegmentRelationshipSpender: 0.15,
			SegmentEmotionalManager:    0.25,
			SegmentCrisisMode:          0.40,
		},

		EducationLevels: []string{
			"high_school", "some_college", "associates", "bachelors",
			"masters", "doctorate", "professional",
		},
		AgeGroups: []string{"18-24", "25-34", "35-44", "45-54", "55-64", "65+"},

		JobRiskContribution: map[RiskLevel]float64{
			RiskLow:      0.2,
			RiskMedium:   0.5,
			RiskHigh:     0.8,
			RiskCritical: 1.0,
		},
		SegmentRiskContribution: map[Segment]float64{
			SegmentStressFree:          0.1,
			SegmentRelationshipSpender: 0.4,
			SegmentEmotionalManager:    0.7,
			SegmentCrisisMode:          1.0,
		},

		JobConfidenceWeight:    0.5,
		IncomeConfidenceWeight: 0.5,
		WarningPenalty:         0.05,
	}
}

// Clone deep-copies t.
func (t Tables) Clone() Tables {
	out := t
	out.FieldMultipliers = cloneMap(t.FieldMultipliers)
	out.FieldGrowthFactors = cloneMap(t.FieldGrowthFactors)
	out.ExperienceBase = cloneMap(t.ExperienceBase)
	out.CompanyStability = cloneMap(t.CompanyStability)
	out.LocationScores = cloneMap(t.LocationScores)
	out.IndustryGrowth = cloneMap(t.IndustryGrowth)
	out.AutomationBase = cloneMap(t.AutomationBase)
	out.AutomationModifier = cloneMap(t.AutomationModifier)
	out.RelationshipPoints = cloneMap(t.RelationshipPoints)
	out.StressPoints = cloneMap(t.StressPoints)
	out.TriggerPoints = cloneMap(t.TriggerPoints)
	out.SegmentImpact = cloneMap(t.SegmentImpact)
	out.JobRiskContribution = cloneMap(t.JobRiskContribution)
	out.SegmentRiskContribution = cloneMap(t.SegmentRiskContribution)
	out.EducationLevels = append([]string(nil), t.EducationLevels...)
	out.AgeGroups = append([]string(nil), t.AgeGroups...)
	return out
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return nil
	}
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func lookup[K comparable](m map[K]float64, key K, def float64) float64 {
	if v, ok := m[key]; ok {
		return v
	}
	return def
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
