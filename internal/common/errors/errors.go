// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Input validation
const (
	ErrCodeValidationFailed     ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidAnswerLevel   ErrorCode = "INVALID_ANSWER_LEVEL"
	ErrCodeUnknownCapability    ErrorCode = "UNKNOWN_CAPABILITY"
	ErrCodeUnknownLens          ErrorCode = "UNKNOWN_LENS"
	ErrCodeInvalidScope         ErrorCode = "INVALID_SCOPE"
	ErrCodePublicEmailDomain    ErrorCode = "PUBLIC_EMAIL_DOMAIN"
	ErrCodeCapabilityOutOfScope ErrorCode = "CAPABILITY_OUT_OF_SCOPE"
)

// Assessment lifecycle
const (
	ErrCodeAssessmentNotFound   ErrorCode = "ASSESSMENT_NOT_FOUND"
	ErrCodeAssessmentCompleted  ErrorCode = "ASSESSMENT_COMPLETED"
	ErrCodeAssessmentInProgress ErrorCode = "ASSESSMENT_IN_PROGRESS"
)

// Infrastructure
const (
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"
	ErrCodeCacheUnavailable         ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeIndexingFailed           ErrorCode = "INDEXING_FAILED"
	ErrCodeWorkflowEngine           ErrorCode = "WORKFLOW_ENGINE_ERROR"
)

// Scoring oracle. These never reach callers of the evaluator or the
// recommendation generator; they exist for logs and metrics.
const (
	ErrCodeOracleTimeout           ErrorCode = "ORACLE_TIMEOUT"
	ErrCodeOracleFailed            ErrorCode = "ORACLE_FAILED"
	ErrCodeOracleMalformedResponse ErrorCode = "ORACLE_MALFORMED_RESPONSE"
	ErrCodeOracleNotConfigured     ErrorCode = "ORACLE_NOT_CONFIGURED"
)

const ErrCodeInternal ErrorCode = "INTERNAL_ERROR"

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
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata attaches a key/value pair and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// As extracts a StandardError from an error chain.
func As(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := As(err)
	return ok && stdErr.Code == code
}

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

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
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

func NewValidationError(details string) *StandardError {
	return newError(ErrCodeValidationFailed, "Input validation failed", details, false)
}

func NewInvalidAnswerLevelError(level string) *StandardError {
	return newError(ErrCodeInvalidAnswerLevel, "Answer level is not a recognised option",
		fmt.Sprintf("answerLevel: %q", level), false)
}

func NewUnknownCapabilityError(id string) *StandardError {
	return newError(ErrCodeUnknownCapability, "Unknown capability",
		fmt.Sprintf("capabilityId: %s", id), false)
}

func NewUnknownLensError(id string) *StandardError {
	return newError(ErrCodeUnknownLens, "Unknown lens", fmt.Sprintf("lensId: %s", id), false)
}

func NewInvalidScopeError(details string) *StandardError {
	return newError(ErrCodeInvalidScope, "Invalid assessment scope", details, false)
}

func NewPublicEmailDomainError(domain string) *StandardError {
	return newError(ErrCodePublicEmailDomain, "A corporate email address is required",
		fmt.Sprintf("domain: %s", domain), false)
}

func NewCapabilityOutOfScopeError(capabilityID, domain string) *StandardError {
	return newError(ErrCodeCapabilityOutOfScope, "Capability is outside the assessment domain",
		fmt.Sprintf("capabilityId: %s, domain: %s", capabilityID, domain), false)
}

func NewAssessmentNotFoundError(assessmentID string) *StandardError {
	return newError(ErrCodeAssessmentNotFound, "Assessment not found",
		fmt.Sprintf("assessmentId: %s", assessmentID), false)
}

func NewAssessmentCompletedError(assessmentID string) *StandardError {
	return newError(ErrCodeAssessmentCompleted, "Assessment is already completed",
		fmt.Sprintf("assessmentId: %s", assessmentID), false)
}

func NewAssessmentInProgressError(assessmentID string) *StandardError {
	return newError(ErrCodeAssessmentInProgress, "Assessment is not completed yet",
		fmt.Sprintf("assessmentId: %s", assessmentID), false)
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err.Error(), true)
}

func NewQueryExecutionFailedError(operation string, err error) *StandardError {
	return newError(ErrCodeQueryExecutionFailed, "Database query execution error",
		fmt.Sprintf("operation: %s, error: %s", operation, err.Error()), true)
}

func NewQueryTimeoutError(operation string) *StandardError {
	return newError(ErrCodeQueryTimeout, "Database query timeout",
		fmt.Sprintf("operation: %s", operation), true)
}

func NewCacheUnavailableError(err error) *StandardError {
	return newError(ErrCodeCacheUnavailable, "Benchmark cache unavailable", err.Error(), true)
}

func NewIndexingFailedError(err error) *StandardError {
	return newError(ErrCodeIndexingFailed, "Result indexing failed", err.Error(), true)
}

func NewWorkflowEngineError(operation string, err error, retryable bool) *StandardError {
	return newError(ErrCodeWorkflowEngine, "Workflow engine error",
		fmt.Sprintf("operation: %s, error: %s", operation, err.Error()), retryable)
}

func NewOracleTimeoutError(provider string) *StandardError {
	return newError(ErrCodeOracleTimeout, "Scoring oracle timeout",
		fmt.Sprintf("provider: %s", provider), true)
}

func NewOracleFailedError(provider string, err error) *StandardError {
	return newError(ErrCodeOracleFailed, "Scoring oracle error",
		fmt.Sprintf("provider: %s, error: %s", provider, err.Error()), true)
}

func NewOracleMalformedResponseError(details string) *StandardError {
	return newError(ErrCodeOracleMalformedResponse, "Scoring oracle returned malformed output", details, false)
}

func NewOracleNotConfiguredError(details string) *StandardError {
	return newError(ErrCodeOracleNotConfigured, "Scoring oracle is not configured", details, false)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

// BPMNErrorMapping maps internal codes to the error codes modelled on BPMN
// boundary events. Codes missing from the map are thrown verbatim.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeValidationFailed:         "VALIDATION_FAILED",
	ErrCodeInvalidAnswerLevel:       "VALIDATION_FAILED",
	ErrCodeUnknownCapability:        "VALIDATION_FAILED",
	ErrCodeUnknownLens:              "VALIDATION_FAILED",
	ErrCodeInvalidScope:             "VALIDATION_FAILED",
	ErrCodeCapabilityOutOfScope:     "VALIDATION_FAILED",
	ErrCodePublicEmailDomain:        "PUBLIC_EMAIL_DOMAIN",
	ErrCodeAssessmentNotFound:       "ASSESSMENT_NOT_FOUND",
	ErrCodeAssessmentCompleted:      "ASSESSMENT_COMPLETED",
	ErrCodeAssessmentInProgress:     "ASSESSMENT_IN_PROGRESS",
	ErrCodeDatabaseConnectionFailed: "DATABASE_ERROR",
	ErrCodeQueryExecutionFailed:     "DATABASE_ERROR",
	ErrCodeQueryTimeout:             "DATABASE_ERROR",
}

func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeCacheUnavailable,
		ErrCodeIndexingFailed,
		ErrCodeWorkflowEngine:
		return 3
	case ErrCodeQueryTimeout, ErrCodeOracleFailed:
		return 2
	case ErrCodeOracleTimeout:
		return 1
	default:
		return 0
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "ASSESSMENT"):
		return "ASSESSMENT"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.HasPrefix(codeStr, "ORACLE"):
		return "ORACLE"
	case strings.Contains(codeStr, "CACHE") || strings.Contains(codeStr, "INDEXING") ||
		strings.HasPrefix(codeStr, "WORKFLOW"):
		return "INFRASTRUCTURE"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION") ||
		strings.HasPrefix(codeStr, "UNKNOWN") || strings.Contains(codeStr, "SCOPE") ||
		code == ErrCodePublicEmailDomain:
		return "VALIDATION"
	default:
		return "OTHER"
	}
}

// HTTPStatus maps an error code to the status the JSON API responds with.
func HTTPStatus(code ErrorCode) int {
	switch GetErrorCategory(code) {
	case "VALIDATION":
		return http.StatusBadRequest
	case "DATABASE", "INFRASTRUCTURE":
		return http.StatusServiceUnavailable
	}
	switch code {
	case ErrCodeAssessmentNotFound:
		return http.StatusNotFound
	case ErrCodeAssessmentCompleted, ErrCodeAssessmentInProgress:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
