package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelationshipImpactScorer_Score(t *testing.T) {
	tests := []struct {
		name        string
		input       AssessmentInput
		wantTotal   int
		wantSegment Segment
		wantTier    string
	}{
		{
			name:        "single never no triggers",
			input:       AssessmentInput{RelationshipStatus: "single", FinancialStressFrequency: "never"},
			wantTotal:   0,
			wantSegment: SegmentStressFree,
			wantTier:    TierBudget,
		},
		{
			name: "married sometimes two triggers",
			input: AssessmentInput{
				RelationshipStatus:       "married",
				FinancialStressFrequency: "sometimes",
				EmotionalTriggers:        []string{"after_arguments", "when_lonely"},
			},
			wantTotal:   15,
			wantSegment: SegmentStressFree,
			wantTier:    TierBudget,
		},
		{
			name: "complicated always four triggers",
			input: AssessmentInput{
				RelationshipStatus:       "complicated",
				FinancialStressFrequency: "always",
				EmotionalTriggers:        []string{"after_breakup", "after_arguments", "when_jealous", "social_pressure"},
			},
			wantTotal:   26,
			wantSegment: SegmentEmotionalManager,
			wantTier:    TierMid,
		},
		{
			name:        "absent fields use defaults",
			input:       AssessmentInput{},
			wantTotal:   0,
			wantSegment: SegmentStressFree,
			wantTier:    TierBudget,
		},
	}

	s := NewRelationshipImpactScorer(DefaultTables())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Score(tt.input)
			assert.Equal(t, tt.wantTotal, got.TotalScore)
			assert.Equal(t, tt.wantSegment, got.Segment)
			assert.Equal(t, tt.wantTier, got.ProductTier)
			assert.Equal(t, got.TotalScore, got.RelationshipPoints+got.StressPoints+got.TriggerPoints)
			assert.NotEmpty(t, got.Challenges)
			assert.NotEmpty(t, got.Recommendations)
		})
	}
}

func TestSegmentFor_Boundaries(t *testing.T) {
	tests := []struct {
		total int
		want  Segment
	}{
		{16, SegmentStressFree},
		{17, SegmentRelationshipSpender},
		{25, SegmentRelationshipSpender},
		{26, SegmentEmotionalManager},
		{35, SegmentEmotionalManager},
		{36, SegmentCrisisMode},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, segmentFor(tt.total), "total %d", tt.total)
	}
}

func TestRelationshipImpactScorer_FinancialImpact(t *testing.T) {
	s := NewRelationshipImpactScorer(DefaultTables())

	got := s.Score(AssessmentInput{
		CurrentSalary:            Int(60000),
		RelationshipStatus:       "complicated",
		FinancialStressFrequency: "always",
		EmotionalTriggers:        []string{"after_breakup", "after_arguments", "when_jealous", "social_pressure"},
	})
	assert.InDelta(t, 60000.0/12*0.25, got.FinancialImpact.Monthly, 1e-9)
	assert.InDelta(t, 60000*0.25, got.FinancialImpact.Annual, 1e-9)
	assert.InDelta(t, 60000.0/12*0.25*0.5, got.FinancialImpact.PotentialSavings, 1e-9)
	assert.InDelta(t, 25, got.FinancialImpact.StressCostPct, 1e-9)

	free := s.Score(AssessmentInput{})
	assert.Zero(t, free.FinancialImpact.Monthly)
	assert.Zero(t, free.FinancialImpact.PotentialSavings)
}

func TestRelationshipImpactScorer_ListsAreNotShared(t *testing.T) {
	s := NewRelationshipImpactScorer(DefaultTables())
	a := s.Score(AssessmentInput{})
	a.Recommendations[0] = "changed"

	b := s.Score(AssessmentInput{})
	assert.NotEqual(t, "changed", b.Recommendations[0])
}
