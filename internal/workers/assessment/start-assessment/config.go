// internal/workers/assessment/start-assessment/config.go
package startassessment

import (
	"time"

	"finops-assessment/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

// LoadConfig derives the job timeout from the worker's settings.
func LoadConfig(wcfg config.WorkerConfig) *Config {
	timeout := config.GetDuration(wcfg.Timeout)
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Config{Timeout: timeout}
}
