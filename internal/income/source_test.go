package income

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "wellness-assessment/internal/common/errors"
)

func TestStaticSource_Median(t *testing.T) {
	s := NewStaticSource()
	ctx := context.Background()

	v, err := s.Median(ctx, DimensionNational, NationalTag)
	require.NoError(t, err)
	assert.Equal(t, NationalMedian, v)

	v, err = s.Median(ctx, DimensionLocation, "urban")
	require.NoError(t, err)
	assert.InDelta(t, NationalMedian*1.15, v, 1e-9)

	_, err = s.Median(ctx, DimensionLocation, "mars")
	assert.ErrorIs(t, err, ErrDemographicDataUnavailable)
}

func TestPostgresSource_Median(t *testing.T) {
	const query = `SELECT median_income FROM income_benchmarks WHERE dimension = \$1 AND tag = \$2`

	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		want    float64
		wantErr error
	}{
		{
			name: "found",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).
					WithArgs(DimensionEducation, "masters").
					WillReturnRows(sqlmock.NewRows([]string{"median_income"}).AddRow(75400.0))
			},
			want: 75400,
		},
		{
			name: "no rows",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).
					WithArgs(DimensionEducation, "masters").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: ErrDemographicDataUnavailable,
		},
		{
			name: "non-positive median",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).
					WithArgs(DimensionEducation, "masters").
					WillReturnRows(sqlmock.NewRows([]string{"median_income"}).AddRow(0.0))
			},
			wantErr: ErrDemographicDataUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.setup(mock)

			got, err := NewPostgresSource(db).Median(context.Background(), DimensionEducation, "masters")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}

	t.Run("driver error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		boom := errors.New("connection reset")
		mock.ExpectQuery(query).WillReturnError(boom)

		_, err = NewPostgresSource(db).Median(context.Background(), DimensionAge, "35-44")
		assert.ErrorIs(t, err, boom)
		assert.False(t, errors.Is(err, ErrDemographicDataUnavailable))

		stdErr, ok := apperrors.AsStandardError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeQueryExecutionFailed, stdErr.Code)
		assert.True(t, stdErr.Retryable)
		assert.Contains(t, stdErr.Details, "age=35-44")
	})
}
