// internal/workers/card/send-decision-notification/handler.go
package senddecisionnotification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	commonErrors "travelcard-workers/internal/common/errors"
	"travelcard-workers/internal/common/logger"
	"travelcard-workers/internal/common/metrics"
)

const (
	TaskType = "send-decision-notification"

	approvedSubject = "Your card application was approved"
	decisionSubject = "An update on your card application"
)

// EmailSender delivers decision emails.
type EmailSender interface {
	SendText(ctx context.Context, from, to, subject, body string) error
}

// SMSSender delivers decision text messages.
type SMSSender interface {
	SendSMS(ctx context.Context, phoneNumber, message string) error
}

type Handler struct {
	config       *Config
	email        EmailSender
	sms          SMSSender
	errorHandler *commonErrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, email EmailSender, sms SMSSender, log logger.Logger) *Handler {
	return &Handler{
		config:       config,
		email:        email,
		sms:          sms,
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
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "NOTIFICATION_SEND_FAILED").Inc()
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	output := &Output{}

	if h.config.EmailEnabled && h.email != nil && input.Email != "" {
		subject := decisionSubject
		if input.Approved {
			subject = approvedSubject
		}
		if err := h.email.SendText(ctx, h.config.FromEmail, input.Email, subject, input.Message); err != nil {
			return nil, commonErrors.NewNotificationSendFailedError("email", err)
		}
		output.EmailSent = true
	}

	if h.shouldSendSMS(input) {
		if err := h.sms.SendSMS(ctx, input.Phone, input.Message); err != nil {
			// Email already went out; an SMS failure is not worth a retry
			// that would duplicate it.
			h.logger.Warn("SMS notification failed", map[string]interface{}{
				"userId": input.UserID,
				"error":  err.Error(),
			})
			return output, nil
		}
		output.SMSSent = true
	}

	return output, nil
}

func (h *Handler) shouldSendSMS(input *Input) bool {
	if !h.config.SMSEnabled || h.sms == nil || input.Phone == "" {
		return false
	}
	if h.config.ApprovalOnly && !input.Approved {
		return false
	}
	return true
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
