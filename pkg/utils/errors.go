package utils

import (
	"fmt"
	"net/http"
)

// Error taxonomy codes surfaced in API responses and job records
const (
	CodeUnsupportedFormat  = "UNSUPPORTED_FORMAT"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeExtractionDegraded = "EXTRACTION_DEGRADED"
	CodePreconditionFailed = "PRECONDITION_FAILED"
	CodeCancelled          = "CANCELLED"
	CodeEnhancementFailed  = "ENHANCEMENT_FAILED"
)

// CustomError represents a custom application error
type CustomError struct {
	Code      int    `json:"code"`
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
	Detail    string `json:"detail,omitempty"`
}

func (e *CustomError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

// NewUnsupportedFormatError is returned when the declared MIME type is not
// a format the extractor understands. Not retryable.
func NewUnsupportedFormatError(detail string) *CustomError {
	return &CustomError{
		Code:      http.StatusUnsupportedMediaType,
		ErrorCode: CodeUnsupportedFormat,
		Message:   "Unsupported resume format",
		Detail:    detail,
	}
}

// NewInvalidInputError is returned for missing or too-short job descriptions
// and malformed idempotency parameters. Not retryable.
func NewInvalidInputError(detail string) *CustomError {
	return &CustomError{
		Code:      http.StatusBadRequest,
		ErrorCode: CodeInvalidInput,
		Message:   "Invalid input",
		Detail:    detail,
	}
}

// NewPreconditionFailedError marks an internal invariant violation. It is a
// programming error and is logged rather than silently swallowed.
func NewPreconditionFailedError(detail string) *CustomError {
	return &CustomError{
		Code:      http.StatusInternalServerError,
		ErrorCode: CodePreconditionFailed,
		Message:   "Internal precondition failed",
		Detail:    detail,
	}
}

// NewEnhancementFailedError wraps a failed enhancement attempt. Retryable by
// issuing a new request with the same idempotency key.
func NewEnhancementFailedError(detail string) *CustomError {
	return &CustomError{
		Code:      http.StatusUnprocessableEntity,
		ErrorCode: CodeEnhancementFailed,
		Message:   "Enhancement failed",
		Detail:    detail,
	}
}

// NewCancelledError marks a cancelled enhancement job.
func NewCancelledError(detail string) *CustomError {
	return &CustomError{
		Code:      http.StatusConflict,
		ErrorCode: CodeCancelled,
		Message:   "Job cancelled",
		Detail:    detail,
	}
}

func NewBadRequestError(message string) *CustomError {
	return &CustomError{
		Code:      http.StatusBadRequest,
		ErrorCode: CodeInvalidInput,
		Message:   message,
	}
}

func NewInternalServerError(message string) *CustomError {
	return &CustomError{
		Code:      http.StatusInternalServerError,
		ErrorCode: "INTERNAL",
		Message:   message,
	}
}

func NewValidationError(detail string) *CustomError {
	return &CustomError{
		Code:      http.StatusBadRequest,
		ErrorCode: CodeInvalidInput,
		Message:   "Validation failed",
		Detail:    detail,
	}
}
