// internal/workers/assessment/calculate-assessment/config.go
package calculateassessment

import "time"

type Config struct {
	Timeout time.Duration
	// MaxRetries caps the retries handed back to Zeebe on a retryable failure.
	MaxRetries int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:    10 * time.Second,
		MaxRetries: 3,
	}
}
