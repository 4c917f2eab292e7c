// internal/workers/assessment/compute-benchmark/models.go
package computebenchmark

import (
	"finops-assessment/internal/common/validation"
	"finops-assessment/internal/models"
)

// Input names the domain to benchmark. AssessmentID, when set, identifies
// the requesting organization, which is then excluded from its peers.
type Input struct {
	Domain       string `json:"domain"`
	AssessmentID string `json:"assessmentId,omitempty"`
}

type Output struct {
	Benchmark models.Benchmark `json:"benchmark"`
}

var inputSchema = validation.MustCompile(TaskType, `{
	"type": "object",
	"required": ["domain"],
	"properties": {
		"domain": {"type": "string", "minLength": 1, "maxLength": 100},
		"assessmentId": {"type": "string"}
	}
}`)
