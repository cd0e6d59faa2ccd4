// internal/assessment/income.go
package assessment

import (
	"context"
	"errors"
	"time"

	apperrors "wellness-assessment/internal/common/errors"
	"wellness-assessment/internal/common/metrics"
	"wellness-assessment/internal/income"
)

const (
	// DefaultIncomeTimeout bounds one income-comparator call.
	DefaultIncomeTimeout = 2 * time.Second

	OpIncomeComparison = "income_comparison"
)

// IncomeComparator is the external income-percentile collaborator.
type IncomeComparator interface {
	AnalyzeIncome(ctx context.Context, q income.Query) (*income.Analysis, error)
}

// IncomeScorer produces the income part of an assessment. Unlike the other
// scorers it can fail.
type IncomeScorer interface {
	Score(ctx context.Context, in AssessmentInput) (IncomeComparisonScore, error)
}

// IncomeComparisonAdapter validates input, calls the comparator under a
// timeout, and reshapes the answer.
type IncomeComparisonAdapter struct {
	comparator IncomeComparator
	timeout    time.Duration
	monitor    *metrics.PerformanceMonitor
}

func NewIncomeComparisonAdapter(comparator IncomeComparator, timeout time.Duration, monitor *metrics.PerformanceMonitor) *IncomeComparisonAdapter {
	if timeout <= 0 {
		timeout = DefaultIncomeTimeout
	}
	return &IncomeComparisonAdapter{
		comparator: comparator,
		timeout:    timeout,
		monitor:    monitor,
	}
}

type analysisOutcome struct {
	analysis *income.Analysis
	err      error
}

// Score never returns a default score: any comparator error, nil answer, or
// timeout is a CalculationFailed error.
func (a *IncomeComparisonAdapter) Score(ctx context.Context, in AssessmentInput) (IncomeComparisonScore, error) {
	salary := in.Salary()
	if salary < 0 {
		return IncomeComparisonScore{}, apperrors.NewInvalidInputError([]apperrors.FieldError{
			{Field: "current_salary", Message: "must be non-negative"},
		})
	}

	q := income.Query{
		UserIncome:     salary,
		Location:       in.Location,
		EducationLevel: in.EducationLevel,
		AgeGroup:       in.AgeGroup,
	}
	if q.AgeGroup == "" {
		q.AgeGroup = DefaultAgeGroup
	}

	start := time.Now()
	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	// Buffered so the goroutine can exit after a timeout.
	done := make(chan analysisOutcome, 1)
	go func() {
		res, err := a.comparator.AnalyzeIncome(callCtx, q)
		done <- analysisOutcome{analysis: res, err: err}
	}()

	var out analysisOutcome
	select {
	case out = <-done:
	case <-callCtx.Done():
		out.err = callCtx.Err()
	}

	elapsed := time.Since(start)
	if a.monitor != nil {
		a.monitor.Record(OpIncomeComparison, elapsed)
	}

	if out.err != nil {
		if errors.Is(out.err, context.DeadlineExceeded) && ctx.Err() == nil {
			return IncomeComparisonScore{}, apperrors.NewCalculationTimeoutError(OpIncomeComparison, a.timeout)
		}
		return IncomeComparisonScore{}, apperrors.NewCalculationFailedError(OpIncomeComparison, out.err)
	}
	if out.analysis == nil {
		return IncomeComparisonScore{}, apperrors.NewCalculationFailedError(OpIncomeComparison, errors.New("comparator returned no analysis"))
	}

	return toIncomeScore(salary, out.analysis, elapsed), nil
}

func toIncomeScore(salary int, a *income.Analysis, elapsed time.Duration) IncomeComparisonScore {
	comparisons := make([]IncomeComparison, 0, len(a.Comparisons))
	for _, c := range a.Comparisons {
		comparisons = append(comparisons, IncomeComparison(c))
	}

	var primary *IncomeComparison
	if a.PrimaryGap != nil {
		p := IncomeComparison(*a.PrimaryGap)
		primary = &p
	}

	return IncomeComparisonScore{
		UserIncome:             salary,
		OverallPercentile:      a.OverallPercentile,
		PrimaryGap:             primary,
		CareerOpportunityScore: a.CareerOpportunityScore,
		Comparisons:            comparisons,
		MotivationalSummary:    a.MotivationalSummary,
		ActionPlan:             append([]string(nil), a.ActionPlan...),
		NextSteps:              append([]string(nil), a.NextSteps...),
		ConfidenceLevel:        clamp01(a.ConfidenceLevel),
		CalculationTimeMs:      float64(elapsed) / float64(time.Millisecond),
	}
}
