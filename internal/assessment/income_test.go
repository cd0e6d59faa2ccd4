package assessment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "wellness-assessment/internal/common/errors"
	"wellness-assessment/internal/common/metrics"
	"wellness-assessment/internal/income"
)

type comparatorFunc func(ctx context.Context, q income.Query) (*income.Analysis, error)

func (f comparatorFunc) AnalyzeIncome(ctx context.Context, q income.Query) (*income.Analysis, error) {
	return f(ctx, q)
}

func TestIncomeComparisonAdapter_Score(t *testing.T) {
	var got income.Query
	comparator := comparatorFunc(func(_ context.Context, q income.Query) (*income.Analysis, error) {
		got = q
		return &income.Analysis{
			OverallPercentile:      42,
			PrimaryGap:             &income.Comparison{Group: "education", Label: "Education: masters", MedianIncome: 75400, IncomeGap: 15400},
			CareerOpportunityScore: 0.6,
			Comparisons:            []income.Comparison{{Group: "national", Percentile: 50}},
			MotivationalSummary:    "close",
			ActionPlan:             []string{"a"},
			NextSteps:              []string{"b"},
			ConfidenceLevel:        1.3,
		}, nil
	})
	monitor := metrics.NewPerformanceMonitor(0)
	a := NewIncomeComparisonAdapter(comparator, time.Second, monitor)

	score, err := a.Score(context.Background(), AssessmentInput{
		CurrentSalary:  Int(60000),
		Location:       "urban",
		EducationLevel: "masters",
	})
	require.NoError(t, err)

	assert.Equal(t, income.Query{UserIncome: 60000, Location: "urban", EducationLevel: "masters", AgeGroup: DefaultAgeGroup}, got)
	assert.Equal(t, 60000, score.UserIncome)
	assert.Equal(t, 42.0, score.OverallPercentile)
	require.NotNil(t, score.PrimaryGap)
	assert.Equal(t, "Education: masters", score.PrimaryGap.Label)
	assert.Len(t, score.Comparisons, 1)
	assert.Equal(t, 1.0, score.ConfidenceLevel, "confidence is clamped")
	assert.GreaterOrEqual(t, score.CalculationTimeMs, 0.0)
	assert.Equal(t, 1, monitor.Count(OpIncomeComparison))
}

func TestIncomeComparisonAdapter_Failures(t *testing.T) {
	boom := errors.New("benchmarks offline")

	tests := []struct {
		name       string
		comparator comparatorFunc
		input      AssessmentInput
		check      func(t *testing.T, err error)
	}{
		{
			name: "collaborator error",
			comparator: func(context.Context, income.Query) (*income.Analysis, error) {
				return nil, boom
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, apperrors.ErrCalculationFailed)
				assert.ErrorIs(t, err, boom)
			},
		},
		{
			name: "nil analysis",
			comparator: func(context.Context, income.Query) (*income.Analysis, error) {
				return nil, nil
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, apperrors.ErrCalculationFailed)
			},
		},
		{
			name: "negative salary",
			comparator: func(context.Context, income.Query) (*income.Analysis, error) {
				t.Fatal("comparator must not be called")
				return nil, nil
			},
			input: AssessmentInput{CurrentSalary: Int(-1)},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewIncomeComparisonAdapter(tt.comparator, time.Second, nil)
			_, err := a.Score(context.Background(), tt.input)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestIncomeComparisonAdapter_Timeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	// Ignores its context on purpose.
	stalled := comparatorFunc(func(context.Context, income.Query) (*income.Analysis, error) {
		<-release
		return &income.Analysis{}, nil
	})
	monitor := metrics.NewPerformanceMonitor(0)
	a := NewIncomeComparisonAdapter(stalled, 20*time.Millisecond, monitor)

	start := time.Now()
	_, err := a.Score(context.Background(), AssessmentInput{})
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.Less(t, elapsed, time.Second)
	assert.ErrorIs(t, err, apperrors.ErrCalculationFailed)
	stdErr, ok := apperrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, string(apperrors.ErrCodeCalculationTimeout), stdErr.Metadata["reason"])
	assert.Equal(t, 1, monitor.Count(OpIncomeComparison))
}

func TestIncomeComparisonAdapter_DefaultTimeout(t *testing.T) {
	a := NewIncomeComparisonAdapter(income.NewBenchmarkComparator(income.NewStaticSource()), 0, nil)
	assert.Equal(t, DefaultIncomeTimeout, a.timeout)
}
