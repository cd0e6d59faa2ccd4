package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type nopLogger struct{}

func (nopLogger) Error(string, map[string]interface{}) {}

func TestErrorHandler_RetryBudget(t *testing.T) {
	tests := []struct {
		name        string
		maxRetries  int
		codeRetries int
		want        int
	}{
		{"no cap keeps code budget", 0, 3, 3},
		{"cap below code budget", 1, 3, 1},
		{"cap above code budget", 5, 3, 3},
		{"negative cap ignored", -1, 2, 2},
		{"non-retryable stays zero", 2, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewErrorHandler(nopLogger{}).WithMaxRetries(tt.maxRetries)
			assert.Equal(t, tt.maxRetries, h.MaxRetries())
			assert.Equal(t, tt.want, h.retryBudget(tt.codeRetries))
		})
	}
}

func TestRemainingRetries(t *testing.T) {
	assert.Equal(t, 3, remainingRetries(3, 5))
	assert.Equal(t, 2, remainingRetries(3, 3))
	assert.Equal(t, 0, remainingRetries(3, 1))
}

func TestErrorHandler_RetryBudgetWithCalculationFailure(t *testing.T) {
	bpmnErr := ConvertToBPMNError(NewCalculationFailedError("engine", assert.AnError))
	h := NewErrorHandler(nopLogger{}).WithMaxRetries(2)
	assert.Equal(t, 2, h.retryBudget(bpmnErr.Retries))
}
