package errors

import (
	"fmt"
	"net/http"
)

// ErrorKind represents different types of API errors
type ErrorKind string

const (
	KindValidation         ErrorKind = "validation"
	KindNotFound           ErrorKind = "not_found"
	KindUnauthorized       ErrorKind = "unauthorized"
	KindForbidden          ErrorKind = "forbidden"
	KindConflict           ErrorKind = "conflict"
	KindRateLimited        ErrorKind = "rate_limited"
	KindBadGateway         ErrorKind = "bad_gateway"
	KindInternal           ErrorKind = "internal"
	KindServiceUnavailable ErrorKind = "service_unavailable"
	KindBadRequest         ErrorKind = "bad_request"
)

// Stable machine-readable error codes carried in the response body so that
// clients can branch without parsing messages.
const (
	CodeValidationError     = "VALIDATION_ERROR"
	CodeAuthenticationError = "AUTHENTICATION_ERROR"
	CodeAuthorizationError  = "AUTHORIZATION_ERROR"
	CodeResourceNotFound    = "RESOURCE_NOT_FOUND"
	CodeDuplicateResource   = "DUPLICATE_RESOURCE"
	CodeRateLimitExceeded   = "RATE_LIMIT_EXCEEDED"
	CodeServiceUnavailable  = "SERVICE_UNAVAILABLE"
	CodeUpstreamError       = "UPSTREAM_ERROR"
	CodeInternalError       = "INTERNAL_ERROR"
	CodeUnsupportedFormat   = "UNSUPPORTED_FORMAT"
	CodeFileTooLarge        = "FILE_TOO_LARGE"
	CodeUnsupportedLanguage = "UNSUPPORTED_LANGUAGE"
	CodeNoSpeechDetected    = "NO_SPEECH_DETECTED"
	CodeEmptyContent        = "EMPTY_CONTENT"
	CodeAccountLocked       = "ACCOUNT_LOCKED"

	CodeMissingData   = "MISSING_DATA"
	CodeMissingFields = "MISSING_FIELDS"
	CodeInvalidData   = "INVALID_DATA"
	CodeInvalidID     = "INVALID_ID"
	CodeMissingFile   = "MISSING_FILE"
	CodeEmptyFilename = "EMPTY_FILENAME"

	CodeTranscriptionError      = "TRANSCRIPTION_ERROR"
	CodeTranslationError        = "TRANSLATION_ERROR"
	CodeSynthesisError          = "SYNTHESIS_ERROR"
	CodeAnalysisError           = "ANALYSIS_ERROR"
	CodeSummarizationError      = "SUMMARIZATION_ERROR"
	CodeQualityCheckError       = "QUALITY_CHECK_ERROR"
	CodeUnsupportedLanguagePair = "UNSUPPORTED_LANGUAGE_PAIR"
)

// APIError represents a structured API error response. Kind drives the HTTP
// status and is not serialized; clients branch on the error_code field.
type APIError struct {
	Kind      ErrorKind      `json:"-"`
	Message   string         `json:"message"`
	Code      string         `json:"error_code"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for the error kind
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindBadGateway:
		return http.StatusBadGateway
	case KindServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WithCode sets the machine-readable code and returns the error for chaining
func (e *APIError) WithCode(code string) *APIError {
	e.Code = code
	return e
}

// WithDetails sets the details map and returns the error for chaining
func (e *APIError) WithDetails(details map[string]any) *APIError {
	e.Details = details
	return e
}

// NewValidationError creates a validation error with per-field details
func NewValidationError(message string, fields map[string]any) *APIError {
	return &APIError{
		Kind:    KindValidation,
		Message: message,
		Details: fields,
		Code:    CodeValidationError,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *APIError {
	return &APIError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Code:    CodeResourceNotFound,
	}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError(message string) *APIError {
	return &APIError{
		Kind:    KindUnauthorized,
		Message: message,
		Code:    CodeAuthenticationError,
	}
}

// NewForbiddenError creates a forbidden error
func NewForbiddenError(message string) *APIError {
	return &APIError{
		Kind:    KindForbidden,
		Message: message,
		Code:    CodeAuthorizationError,
	}
}

// NewConflictError creates a conflict error
func NewConflictError(message string) *APIError {
	return &APIError{
		Kind:    KindConflict,
		Message: message,
		Code:    CodeDuplicateResource,
	}
}

// NewRateLimitError creates a too-many-requests error. retryAfter is carried
// in the details so the middleware can surface it as a Retry-After header.
func NewRateLimitError(message string, retryAfterSeconds int) *APIError {
	return &APIError{
		Kind:    KindRateLimited,
		Message: message,
		Details: map[string]any{"retry_after": retryAfterSeconds},
		Code:    CodeRateLimitExceeded,
	}
}

// NewBadGatewayError creates an upstream provider failure error
func NewBadGatewayError(message string) *APIError {
	return &APIError{
		Kind:    KindBadGateway,
		Message: message,
		Code:    CodeUpstreamError,
	}
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *APIError {
	return &APIError{
		Kind:    KindInternal,
		Message: message,
		Code:    CodeInternalError,
	}
}

// NewBadRequestError creates a bad request error. The generic validation
// code applies unless the caller overrides it with WithCode.
func NewBadRequestError(message string) *APIError {
	return &APIError{
		Kind:    KindBadRequest,
		Message: message,
		Code:    CodeValidationError,
	}
}

// NewServiceUnavailableError creates a service unavailable error
func NewServiceUnavailableError(message string) *APIError {
	return &APIError{
		Kind:    KindServiceUnavailable,
		Message: message,
		Code:    CodeServiceUnavailable,
	}
}
