// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"time"

	"finops-assessment/internal/common/config"
	apperrors "finops-assessment/internal/common/errors"
	"finops-assessment/internal/common/logger"
	"finops-assessment/internal/common/metrics"
	"finops-assessment/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// JobFunc processes the raw variables of one job and returns the output
// variables to complete it with.
type JobFunc func(ctx context.Context, variables []byte) (interface{}, error)

// JobRunner carries the lifecycle shared by every assessment worker:
// timeout, metrics, completion and BPMN error mapping.
type JobRunner struct {
	taskType string
	timeout  time.Duration
	logger   logger.Logger
	errors   *apperrors.ErrorHandler
	otel     *observability.Metrics
}

func NewJobRunner(taskType string, timeout time.Duration, log logger.Logger, otel *observability.Metrics) *JobRunner {
	return &JobRunner{
		taskType: taskType,
		timeout:  timeout,
		logger:   log,
		errors:   apperrors.NewErrorHandler(log),
		otel:     otel,
	}
}

func (r *JobRunner) Run(client worker.JobClient, job entities.Job, fn JobFunc) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(r.taskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(r.taskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	r.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	output, err := fn(ctx, []byte(job.GetVariables()))
	if err != nil {
		stdErr := apperrors.Normalize(err)
		metrics.WorkerJobsFailed.WithLabelValues(r.taskType, string(stdErr.Code)).Inc()
		r.otel.RecordJob(ctx, r.taskType, "failed", time.Since(start))
		r.errors.HandleJobError(context.Background(), client, job, stdErr)
		return
	}

	if err := r.completeJob(client, job, output); err != nil {
		r.logger.Error("failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(r.taskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(r.taskType).Observe(time.Since(start).Seconds())
	r.otel.RecordJob(ctx, r.taskType, "completed", time.Since(start))
}

func (r *JobRunner) completeJob(client worker.JobClient, job entities.Job, output interface{}) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.GetKey()).
		VariablesFromObject(output)
	if err != nil {
		return err
	}
	_, err = cmd.Send(context.Background())
	return err
}

// StartWorker opens a job worker for taskType. It returns nil when the
// worker is disabled.
func StartWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handler worker.JobHandler, log logger.Logger) worker.JobWorker {
	if !wcfg.Enabled {
		log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return nil
	}

	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(handler).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeoutMs":     wcfg.Timeout,
	})
	return jobWorker
}
