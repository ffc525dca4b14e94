// Package errors provides standardized error handling for the application portal.
package errors

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeApplicationNotFound  ErrorCode = "APPLICATION_NOT_FOUND"
	ErrCodeApplicationSubmitted ErrorCode = "APPLICATION_SUBMITTED"
	ErrCodeUnknownField         ErrorCode = "UNKNOWN_FIELD"

	ErrCodeStepValidationFailed ErrorCode = "STEP_VALIDATION_FAILED"
	ErrCodeStepOutOfRange       ErrorCode = "STEP_OUT_OF_RANGE"
	ErrCodeChecklistIncomplete  ErrorCode = "CHECKLIST_INCOMPLETE"

	ErrCodeFileTooLarge        ErrorCode = "FILE_TOO_LARGE"
	ErrCodeFileTypeUnsupported ErrorCode = "FILE_TYPE_UNSUPPORTED"
	ErrCodeFileDecodeFailed    ErrorCode = "FILE_DECODE_FAILED"

	ErrCodeRenderFailed ErrorCode = "RENDER_FAILED"
	ErrCodeMergeFailed  ErrorCode = "MERGE_FAILED"

	ErrCodeRemoteSendFailed ErrorCode = "REMOTE_SEND_FAILED"
	ErrCodeEmailSendFailed  ErrorCode = "EMAIL_SEND_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeDuplicateApplication     ErrorCode = "DUPLICATE_APPLICATION"
	ErrCodeSessionStoreFailed       ErrorCode = "SESSION_STORE_FAILED"
	ErrCodeIndexingFailed           ErrorCode = "INDEXING_FAILED"
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
// 2. Error Constructors
// ==========================

// NewApplicationNotFoundError creates a non-retryable lookup error.
func NewApplicationNotFoundError(applicationID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeApplicationNotFound,
		Message:   "Application draft not found",
		Details:   fmt.Sprintf("applicationId: %s", applicationID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewApplicationSubmittedError creates a non-retryable mutation-after-submit error.
func NewApplicationSubmittedError(applicationID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeApplicationSubmitted,
		Message:   "Application already submitted and locked",
		Details:   fmt.Sprintf("applicationId: %s", applicationID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownFieldError creates a non-retryable field lookup error.
func NewUnknownFieldError(field string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownField,
		Message:   "Field is not part of the application form",
		Details:   fmt.Sprintf("field: %s", field),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStepValidationFailedError creates a non-retryable step validation error.
func NewStepValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeStepValidationFailed,
		Message:   "Step validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStepOutOfRangeError creates a non-retryable navigation error.
func NewStepOutOfRangeError(step int) *StandardError {
	return &StandardError{
		Code:      ErrCodeStepOutOfRange,
		Message:   "Requested step does not exist",
		Details:   fmt.Sprintf("step: %d", step),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewChecklistIncompleteError creates a non-retryable submit precondition error.
func NewChecklistIncompleteError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeChecklistIncomplete,
		Message:   "Verification checklist is not fully confirmed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFileTooLargeError creates a non-retryable upload ceiling error.
func NewFileTooLargeError(field string, size, limit int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeFileTooLarge,
		Message:   "Uploaded file exceeds the size ceiling",
		Details:   fmt.Sprintf("field: %s, size: %d, limit: %d", field, size, limit),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFileTypeUnsupportedError creates a non-retryable content type error.
func NewFileTypeUnsupportedError(field, contentType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeFileTypeUnsupported,
		Message:   "Uploaded file type is not accepted",
		Details:   fmt.Sprintf("field: %s, contentType: %s", field, contentType),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFileDecodeFailedError creates a non-retryable payload decode error.
func NewFileDecodeFailedError(field string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeFileDecodeFailed,
		Message:   "Uploaded file payload could not be decoded",
		Details:   fmt.Sprintf("field: %s, error: %s", field, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRenderFailedError creates a non-retryable document render error.
func NewRenderFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRenderFailed,
		Message:   "Application form rendering failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMergeFailedError creates a non-retryable attachment merge error.
func NewMergeFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMergeFailed,
		Message:   "Attachment merge failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRemoteSendFailedError creates a retryable remote intake error.
func NewRemoteSendFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRemoteSendFailed,
		Message:   "Submission delivery to remote intake failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmailSendFailedError creates a retryable email delivery error.
func NewEmailSendFailedError(recipient string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmailSendFailed,
		Message:   "Confirmation email delivery failed",
		Details:   fmt.Sprintf("recipient: %s, error: %s", recipient, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseInsertFailedError creates a retryable database insert error.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseInsertFailed,
		Message:   "Database insert operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicateApplicationError creates a non-retryable duplicate application error.
func NewDuplicateApplicationError(applicationID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateApplication,
		Message:   "Application already exists",
		Details:   fmt.Sprintf("applicationId: %s", applicationID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionStoreFailedError creates a retryable draft store error.
func NewSessionStoreFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionStoreFailed,
		Message:   "Draft session store error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewIndexingFailedError creates a retryable search indexing error.
func NewIndexingFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeIndexingFailed,
		Message:   "Search indexing failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewBusinessRuleError(message, details string) *StandardError {
	return &StandardError{
		Code:      "BUSINESS_RULE_VIOLATION",
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. HTTP Mapping
// ==========================

// HTTPStatusMapping maps internal error codes to HTTP response codes.
var HTTPStatusMapping = map[ErrorCode]int{
	ErrCodeApplicationNotFound:  http.StatusNotFound,
	ErrCodeApplicationSubmitted: http.StatusConflict,
	ErrCodeUnknownField:         http.StatusBadRequest,

	ErrCodeStepValidationFailed: http.StatusUnprocessableEntity,
	ErrCodeStepOutOfRange:       http.StatusBadRequest,
	ErrCodeChecklistIncomplete:  http.StatusUnprocessableEntity,

	ErrCodeFileTooLarge:        http.StatusRequestEntityTooLarge,
	ErrCodeFileTypeUnsupported: http.StatusUnsupportedMediaType,
	ErrCodeFileDecodeFailed:    http.StatusBadRequest,

	ErrCodeRenderFailed: http.StatusInternalServerError,
	ErrCodeMergeFailed:  http.StatusInternalServerError,

	ErrCodeRemoteSendFailed: http.StatusBadGateway,
	ErrCodeEmailSendFailed:  http.StatusBadGateway,

	ErrCodeDatabaseConnectionFailed: http.StatusServiceUnavailable,
	ErrCodeDatabaseInsertFailed:     http.StatusServiceUnavailable,
	ErrCodeDuplicateApplication:     http.StatusConflict,
	ErrCodeSessionStoreFailed:       http.StatusServiceUnavailable,
	ErrCodeIndexingFailed:           http.StatusServiceUnavailable,
}

// HTTPStatus returns the HTTP status code for an error code.
func HTTPStatus(code ErrorCode) int {
	if status, exists := HTTPStatusMapping[code]; exists {
		return status
	}
	return http.StatusInternalServerError
}

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeSessionStoreFailed,
		ErrCodeRemoteSendFailed,
		ErrCodeEmailSendFailed:
		return 3 // Retryable technical errors

	case ErrCodeIndexingFailed:
		return 1 // Indexing is best-effort

	default:
		return 0 // Business errors: no retry
	}
}

// ==========================
// 4. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "FILE"):
		return "UPLOAD"
	case strings.Contains(codeStr, "STEP") || strings.Contains(codeStr, "CHECKLIST") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "RENDER") || strings.Contains(codeStr, "MERGE"):
		return "DOCUMENT"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "SESSION") || strings.Contains(codeStr, "INDEX"):
		return "STORAGE"
	case strings.Contains(codeStr, "SEND") || strings.Contains(codeStr, "EMAIL"):
		return "DELIVERY"
	default:
		return "OTHER"
	}
}
