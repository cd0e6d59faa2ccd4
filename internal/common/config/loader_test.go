package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, "app:\n  name: wellness-assessment\n"))
	require.NoError(t, err)

	assert.Equal(t, 3600, cfg.Assessment.CacheTTL)
	assert.Equal(t, 2000, cfg.Assessment.IncomeTimeout)
	assert.Equal(t, "static", cfg.Assessment.BenchmarkSource)
	assert.Equal(t, "assessment:result:", cfg.Assessment.SharedCachePrefix)
	assert.False(t, cfg.Assessment.SharedCache)
	assert.False(t, cfg.Camunda.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, ":8080", cfg.Metrics.Address)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
}

func TestLoadFromFile_EnvOverrides(t *testing.T) {
	t.Setenv("ASSESSMENT_CACHE_TTL", "120")
	t.Setenv("ASSESSMENT_INCOME_TIMEOUT", "500")
	t.Setenv("BENCH_REDIS_ADDR", "localhost:6380")

	cfg, err := LoadFromFile(writeConfig(t, `
assessment:
  cache_ttl: 600
  shared_cache: true
database:
  redis:
    address: ${BENCH_REDIS_ADDR}
workers:
  calculate-assessment:
    enabled: true
`))
	require.NoError(t, err)

	assert.Equal(t, 120, cfg.Assessment.CacheTTL)
	assert.Equal(t, 500, cfg.Assessment.IncomeTimeout)
	assert.Equal(t, "localhost:6380", cfg.Database.Redis.Address)

	wcfg := GetWorkerConfig(cfg, "calculate-assessment")
	assert.True(t, wcfg.Enabled)
	assert.Equal(t, 5, wcfg.MaxJobsActive)
	assert.Equal(t, 30000, wcfg.Timeout)
	assert.Equal(t, 3, wcfg.MaxRetries)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"camunda without broker", "camunda:\n  enabled: true\n", "camunda.broker_address"},
		{"postgres source without host", "assessment:\n  benchmark_source: postgres\n", "database.postgres.host"},
		{"unknown source", "assessment:\n  benchmark_source: csv\n", "benchmark_source"},
		{"shared cache without redis", "assessment:\n  shared_cache: true\n", "database.redis.address"},
		{"negative weight", "assessment:\n  job_confidence_weight: -1\n", "confidence weights"},
		{"penalty above one", "assessment:\n  warning_penalty: 1.5\n", "warning_penalty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFromFile_WarningPenalty(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, "app:\n  name: wellness-assessment\n"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Assessment.WarningPenalty)

	cfg, err = LoadFromFile(writeConfig(t, "assessment:\n  warning_penalty: 0\n"))
	require.NoError(t, err)
	require.NotNil(t, cfg.Assessment.WarningPenalty)
	assert.Equal(t, 0.0, *cfg.Assessment.WarningPenalty)
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestWorkerHelpers(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"calculate-assessment": {Enabled: false},
	}}

	assert.False(t, IsWorkerEnabled(cfg, "calculate-assessment"))
	assert.True(t, IsWorkerEnabled(cfg, "other"))
	assert.Equal(t, 30000, GetWorkerConfig(cfg, "other").Timeout)
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}
