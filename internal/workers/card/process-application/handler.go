// internal/workers/card/process-application/handler.go
package processapplication

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"travelcard-workers/internal/cards"
	commonErrors "travelcard-workers/internal/common/errors"
	"travelcard-workers/internal/common/logger"
	"travelcard-workers/internal/common/metrics"
	"travelcard-workers/internal/models"
)

const (
	TaskType = "process-application"
)

type Handler struct {
	config       *Config
	processor    *cards.Processor
	errorHandler *commonErrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, processor *cards.Processor, log logger.Logger) *Handler {
	return &Handler{
		config:       config,
		processor:    processor,
		errorHandler: commonErrors.NewErrorHandler(log),
		logger:       log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode(err)).Inc()
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.UserID == "" {
		return nil, commonErrors.NewProfileNotFoundError(input.UserID)
	}
	slug, err := models.ParseCardSlug(input.CardSlug)
	if err != nil {
		return nil, commonErrors.NewUnknownCardError(input.CardSlug)
	}

	decision, err := h.processor.ProcessApplication(ctx, input.UserID, slug)
	if err != nil {
		return nil, err
	}

	return &Output{
		Approved:      decision.Approved,
		Status:        string(decision.Status),
		ApprovalTier:  string(decision.ApprovalTier),
		InterestRate:  decision.InterestRate,
		Message:       decision.Message,
		RejectionDate: decision.RejectionDate,
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if _, err = cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func errorCode(err error) string {
	if stdErr, ok := err.(*commonErrors.StandardError); ok {
		return string(stdErr.Code)
	}
	return string(commonErrors.ErrCodeInternal)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
