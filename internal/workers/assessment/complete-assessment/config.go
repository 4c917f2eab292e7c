// internal/workers/assessment/complete-assessment/config.go
package completeassessment

import (
	"time"

	"finops-assessment/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

// LoadConfig covers the recommendation oracle call made during completion.
func LoadConfig(wcfg config.WorkerConfig) *Config {
	timeout := config.GetDuration(wcfg.Timeout)
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Config{Timeout: timeout}
}
