package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardError_IsMatchesByCode(t *testing.T) {
	invalid := NewInvalidInputError([]FieldError{{Field: "skills", Message: "must be an array of strings"}})
	failed := NewCalculationFailedError("income_comparison", context.DeadlineExceeded)
	timeout := NewCalculationTimeoutError("income_comparison", 2*time.Second)

	assert.True(t, IsInvalidInput(invalid))
	assert.False(t, IsCalculationFailed(invalid))

	assert.True(t, IsCalculationFailed(failed))
	assert.True(t, IsCalculationFailed(timeout))
	assert.ErrorIs(t, failed, context.DeadlineExceeded)

	wrapped := fmt.Errorf("scoring: %w", invalid)
	assert.True(t, IsInvalidInput(wrapped))

	got, ok := AsStandardError(wrapped)
	require.True(t, ok)
	assert.Equal(t, invalid, got)
}

func TestNewInvalidInputError_ListsFields(t *testing.T) {
	err := NewInvalidInputError([]FieldError{
		{Field: "current_salary", Message: "must be non-negative"},
		{Field: "skills", Message: "must be an array of strings"},
	})

	assert.Equal(t, "current_salary: must be non-negative; skills: must be an array of strings", err.Details)
	assert.False(t, err.Retryable)
	assert.Len(t, err.Metadata["fields"], 2)
	assert.Contains(t, err.Error(), string(ErrCodeInvalidInput))
}

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name        string
		err         *StandardError
		wantCode    string
		wantRetries int
	}{
		{"invalid input is thrown", NewInvalidInputError(nil), "INVALID_ASSESSMENT_INPUT", 0},
		{"calculation failure retries", NewCalculationFailedError("job_risk", stderrors.New("boom")), "ASSESSMENT_CALCULATION_FAILED", 3},
		{"timeout shares the calculation code", NewCalculationTimeoutError("income_comparison", time.Second), "ASSESSMENT_CALCULATION_FAILED", 3},
		{"database errors retry", NewDatabaseConnectionFailedError(stderrors.New("refused")), "DATABASE_CONNECTION_FAILED", 3},
		{"parse errors do not", NewParseError(stderrors.New("bad json")), "PARSE_ERROR", 0},
		{"unmapped code passes through", NewCacheUnavailableError("redis get", stderrors.New("refused")), "CACHE_UNAVAILABLE", 1},
		{"query failures retry", NewQueryExecutionFailedError("median", stderrors.New("reset")), "QUERY_EXECUTION_FAILED", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmn := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.wantCode, bpmn.Code)
			assert.Equal(t, tt.wantRetries, bpmn.Retries)
			assert.Equal(t, string(tt.err.Code), bpmn.ToErrorVariables()["originalErrorCode"])
		})
	}
}

func TestNormalize(t *testing.T) {
	std := NewParseError(stderrors.New("bad json"))
	assert.Same(t, std, Normalize(std))

	plain := stderrors.New("unexpected")
	n := Normalize(plain)
	assert.Equal(t, ErrCodeInternalError, n.Code)
	assert.ErrorIs(t, n, plain)
}

func TestGetErrorCategory(t *testing.T) {
	tests := map[ErrorCode]string{
		ErrCodeInvalidInput:             "VALIDATION",
		ErrCodeParseError:               "VALIDATION",
		ErrCodeCalculationFailed:        "CALCULATION",
		ErrCodeDatabaseConnectionFailed: "DATABASE",
		ErrCodeCacheUnavailable:         "CACHE",
		ErrCodeInternalError:            "OTHER",
	}
	for code, want := range tests {
		assert.Equal(t, want, GetErrorCategory(code), code)
	}
	assert.True(t, IsRetryableErrorCode(ErrCodeQueryExecutionFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeInvalidInput))
}
