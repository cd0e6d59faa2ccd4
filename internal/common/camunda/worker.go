// internal/common/camunda/worker.go
package camunda

import (
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"wellness-assessment/internal/common/config"
	"wellness-assessment/internal/common/logger"
	"wellness-assessment/internal/common/metrics"
)

// StartWorker opens a job worker for taskType. It returns nil when the worker
// is disabled in configuration.
func StartWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handler worker.JobHandler, log logger.Logger) worker.JobWorker {
	if !wcfg.Enabled {
		log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return nil
	}

	jw := client.NewJobWorker().
		JobType(taskType).
		Handler(instrument(taskType, handler)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return jw
}

// instrument tracks in-flight jobs on the WorkerJobsActive gauge.
func instrument(taskType string, handler worker.JobHandler) worker.JobHandler {
	gauge := metrics.WorkerJobsActive.WithLabelValues(taskType)
	return func(client worker.JobClient, job entities.Job) {
		gauge.Inc()
		defer gauge.Dec()
		handler(client, job)
	}
}
