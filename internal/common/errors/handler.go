// internal/common/errors/handler.go
package errors

import (
	"time"
)

// ErrorHandler normalizes failures into StandardError and logs them
// with consistent fields before they are written to a response.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle normalizes err, logs it against the named operation, and
// returns the StandardError for the transport layer to render.
func (h *ErrorHandler) Handle(operation string, err error) *StandardError {
	stdErr := h.normalizeError(err)
	h.logError(operation, stdErr)
	return stdErr
}

// normalizeError ensures we always have a StandardError
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func (h *ErrorHandler) logError(operation string, stdErr *StandardError) {
	h.logger.Error("Operation failed", map[string]interface{}{
		"operation":     operation,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"retries":       GetRetryCount(stdErr.Code),
		"errorCategory": GetErrorCategory(stdErr.Code),
		"httpStatus":    HTTPStatus(stdErr.Code),
	})
}
