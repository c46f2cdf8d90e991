// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Card decision / persistence error codes. Pre-screen denials and scored
// rejections are NOT errors: they are Decisions and never reach this package.
const (
	ErrCodeUnknownCard       ErrorCode = "UNKNOWN_CARD"
	ErrCodeInvalidTier       ErrorCode = "INVALID_TIER"
	ErrCodeCardConfigInvalid ErrorCode = "CARD_CONFIG_INVALID"

	ErrCodeProfileNotFound   ErrorCode = "PROFILE_NOT_FOUND"
	ErrCodeProfileLoadFailed ErrorCode = "PROFILE_LOAD_FAILED"
	ErrCodeProfileSaveFailed ErrorCode = "PROFILE_SAVE_FAILED"

	ErrCodeRecordInsertFailed ErrorCode = "RECORD_INSERT_FAILED"
	ErrCodeHistoryQueryFailed ErrorCode = "HISTORY_QUERY_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout         ErrorCode = "TIMEOUT"
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	if e.ErrorVariables != nil {
		for k, v := range e.ErrorVariables {
			vars[k] = v
		}
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewUnknownCardError flags a card slug missing from the threshold catalog.
// This is a configuration/programming error, never a user-facing rejection:
// silently defaulting would misclassify every applicant for that card.
func NewUnknownCardError(slug string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownCard,
		Message:   "Card not present in threshold catalog",
		Details:   fmt.Sprintf("cardSlug=%s", slug),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidTierError flags an approval tier value outside the closed set.
func NewInvalidTierError(tier string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidTier,
		Message:   "Invalid approval tier",
		Details:   fmt.Sprintf("tier=%s", tier),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCardConfigInvalidError reports a threshold/rate table that fails its
// load-time invariants (e.g. Likely thresholds exceeding HighlyQualified).
func NewCardConfigInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCardConfigInvalid,
		Message:   "Card threshold configuration is invalid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewProfileNotFoundError(userID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileNotFound,
		Message:   "Applicant profile not found",
		Details:   fmt.Sprintf("userId=%s", userID),
		Retryable: false,
		Metadata:  map[string]interface{}{"userId": userID},
		Timestamp: time.Now().UTC(),
	}
}

func NewProfileLoadFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileLoadFailed,
		Message:   "Failed to load applicant profile",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewProfileSaveFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileSaveFailed,
		Message:   "Failed to persist applicant profile",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewRecordInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecordInsertFailed,
		Message:   "Failed to append application record",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewHistoryQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeHistoryQueryFailed,
		Message:   "Application history query failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewQueryTimeoutError(queryType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryTimeout,
		Message:   "Query timed out",
		Details:   fmt.Sprintf("queryType=%s", queryType),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   fmt.Sprintf("Failed to send %s notification", notificationType),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExternalService,
		Message:   fmt.Sprintf("External service %s failed", service),
		Details:   err.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"service": service},
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTimeout,
		Message:   fmt.Sprintf("Operation against %s timed out", service),
		Details:   err.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"service": service},
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. BPMN Mapping
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes thrown to
// the workflow engine.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeUnknownCard:       "UNKNOWN_CARD",
	ErrCodeInvalidTier:       "UNKNOWN_CARD",
	ErrCodeCardConfigInvalid: "CARD_CONFIG_INVALID",

	ErrCodeProfileNotFound:   "PROFILE_NOT_FOUND",
	ErrCodeProfileLoadFailed: "PERSISTENCE_FAILED",
	ErrCodeProfileSaveFailed: "PERSISTENCE_FAILED",

	ErrCodeRecordInsertFailed: "PERSISTENCE_FAILED",
	ErrCodeHistoryQueryFailed: "PERSISTENCE_FAILED",

	ErrCodeDatabaseConnectionFailed: "PERSISTENCE_FAILED",
	ErrCodeQueryTimeout:             "PERSISTENCE_FAILED",

	ErrCodeNotificationSendFailed: "NOTIFICATION_SEND_FAILED",

	ErrCodeExternalService: "EXTERNAL_SERVICE_ERROR",
	ErrCodeTimeout:         "EXTERNAL_SERVICE_ERROR",
	ErrCodeInternal:        "INTERNAL_ERROR",
}

// GetRetryCount returns how many engine-level retries a given code deserves.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeProfileLoadFailed, ErrCodeProfileSaveFailed,
		ErrCodeRecordInsertFailed, ErrCodeDatabaseConnectionFailed:
		return 3
	case ErrCodeHistoryQueryFailed, ErrCodeQueryTimeout,
		ErrCodeNotificationSendFailed, ErrCodeExternalService, ErrCodeTimeout:
		return 2
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError into a throwable BPMN error.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, ok := BPMNErrorMapping[stdErr.Code]
	if !ok {
		bpmnCode = "INTERNAL_ERROR"
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        GetRetryCount(stdErr.Code),
		ErrorVariables: stdErr.Metadata,
	}
}

// IsRetryableErrorCode reports whether a code maps to a transient condition.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory buckets error codes for metrics labels.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeUnknownCard, ErrCodeInvalidTier, ErrCodeCardConfigInvalid:
		return "configuration"
	case ErrCodeProfileNotFound:
		return "not_found"
	case ErrCodeProfileLoadFailed, ErrCodeProfileSaveFailed,
		ErrCodeRecordInsertFailed, ErrCodeHistoryQueryFailed,
		ErrCodeDatabaseConnectionFailed, ErrCodeQueryTimeout:
		return "persistence"
	case ErrCodeNotificationSendFailed, ErrCodeExternalService, ErrCodeTimeout:
		return "external"
	default:
		return "internal"
	}
}
