// internal/workers/assessment/submit-response/config.go
package submitresponse

import (
	"time"

	"finops-assessment/internal/common/config"
)

// Config sizes the job timeout. Submissions may wait on the scoring oracle,
// so the default is longer than the other workers'.
type Config struct {
	Timeout time.Duration
}

func LoadConfig(wcfg config.WorkerConfig) *Config {
	timeout := config.GetDuration(wcfg.Timeout)
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &Config{Timeout: timeout}
}
