// internal/income/source.go
package income

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "wellness-assessment/internal/common/errors"
)

// MedianSource resolves the median annual income of a peer group.
type MedianSource interface {
	Median(ctx context.Context, dimension, tag string) (float64, error)
}

// NationalMedian anchors the static benchmarks.
const NationalMedian = 52000.0

var staticMultipliers = map[string]map[string]float64{
	DimensionNational: {NationalTag: 1.0},
	DimensionLocation: {
		"national": 1.0,
		"urban":    1.15,
		"suburban": 1.05,
		"rural":    0.85,
	},
	DimensionEducation: {
		"high_school":  0.75,
		"some_college": 0.85,
		"associates":   0.9,
		"bachelors":    1.25,
		"masters":      1.45,
		"doctorate":    1.7,
		"professional": 1.8,
	},
	DimensionAge: {
		"18-24": 0.55,
		"25-34": 0.9,
		"35-44": 1.1,
		"45-54": 1.15,
		"55-64": 1.05,
		"65+":   0.8,
	},
}

// StaticSource serves built-in medians derived from NationalMedian.
type StaticSource struct {
	medians map[string]map[string]float64
}

func NewStaticSource() *StaticSource {
	medians := make(map[string]map[string]float64, len(staticMultipliers))
	for dim, tags := range staticMultipliers {
		m := make(map[string]float64, len(tags))
		for tag, mult := range tags {
			m[tag] = NationalMedian * mult
		}
		medians[dim] = m
	}
	return &StaticSource{medians: medians}
}

func (s *StaticSource) Median(_ context.Context, dimension, tag string) (float64, error) {
	if v, ok := s.medians[dimension][tag]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("%w: %s=%s", ErrDemographicDataUnavailable, dimension, tag)
}

// PostgresSource reads medians from the income_benchmarks table.
type PostgresSource struct {
	db *sql.DB
}

func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

const medianQuery = `
		SELECT median_income
		FROM income_benchmarks
		WHERE dimension = $1 AND tag = $2`

func (s *PostgresSource) Median(ctx context.Context, dimension, tag string) (float64, error) {
	var median float64
	err := s.db.QueryRowContext(ctx, medianQuery, dimension, tag).Scan(&median)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s=%s", ErrDemographicDataUnavailable, dimension, tag)
	}
	if err != nil {
		return 0, apperrors.NewQueryExecutionFailedError("median "+dimension+"="+tag, err)
	}
	if median <= 0 {
		return 0, fmt.Errorf("%w: non-positive median for %s=%s", ErrDemographicDataUnavailable, dimension, tag)
	}
	return median, nil
}
