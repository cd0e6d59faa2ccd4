// internal/workers/assessment/calculate-assessment/handler.go
package calculateassessment

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"wellness-assessment/internal/assessment"
	"wellness-assessment/internal/common/errors"
	"wellness-assessment/internal/common/logger"
	"wellness-assessment/internal/common/observability"
)

const TaskType = "calculate-assessment"

type Handler struct {
	config       *Config
	engine       *assessment.Engine
	obs          *observability.Observability
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, engine *assessment.Engine, obs *observability.Observability, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	if obs == nil {
		obs = observability.NewNoop()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		engine:       engine,
		obs:          obs,
		logger:       log,
		errorHandler: errors.NewErrorHandler(log).WithMaxRetries(config.MaxRetries),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	// Job commands must go out even when the calculation used up ctx.
	sendCtx := context.Background()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.fail(sendCtx, client, job, errors.NewParseError(err), start)
		return
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.fail(sendCtx, client, job, err, start)
		return
	}

	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.fail(sendCtx, client, job, errors.NewParseError(err), start)
		return
	}
	if _, err := cmd.Send(sendCtx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err,
		})
		return
	}

	h.obs.RecordJobProcessed(sendCtx, TaskType, "completed")
	h.obs.RecordJobDuration(sendCtx, TaskType, time.Since(start), "completed")
	h.logger.Info("job completed", map[string]interface{}{
		"jobKey":       job.Key,
		"assessmentId": output.Assessment.AssessmentID,
		"riskLevel":    output.Assessment.OverallRiskLevel,
	})
}

// Execute runs the assessment for one job's input.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return nil, errors.NewInvalidInputError([]errors.FieldError{
			{Field: "userId", Message: "is required"},
		})
	}

	in, err := assessment.ParseAssessmentData(input.AssessmentData)
	if err != nil {
		return nil, err
	}

	result, err := h.engine.Calculate(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	output := &Output{Assessment: result}

	if input.IncludeBreakdown {
		// Served from the cache populated by Calculate.
		breakdown, err := h.engine.Breakdown(ctx, userID, in)
		if err != nil {
			return nil, err
		}
		output.Breakdown = breakdown
	}
	return output, nil
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error, start time.Time) {
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "failed")
	h.errorHandler.HandleJobError(ctx, client, job, err)
}
