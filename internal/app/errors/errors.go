package errors

import (
	"fmt"
)

// Domain error sentinels. Services and adapters return these (optionally
// wrapped); the API boundary maps them to HTTP statuses and machine codes.
var (
	// Local validation failures, raised before any provider call
	ErrUnsupportedFormat   = New("unsupported audio format")
	ErrFileTooLarge        = New("audio file exceeds the maximum upload size")
	ErrUnsupportedLanguage = New("unsupported language pair")
	ErrEmptyContent        = New("content is empty")

	// Speech recognition outcomes
	ErrNoSpeechDetected = New("no speech detected in the audio")

	// Upstream provider failures, sub-kinded per adapter
	ErrTranscriptionService  = New("transcription service failure")
	ErrTranslationService    = New("translation service failure")
	ErrSynthesisService      = New("synthesis service failure")
	ErrAnalysisService       = New("analysis service failure")
	ErrProviderNotConfigured = New("provider not configured")

	// Authentication
	ErrInvalidCredentials = New("invalid credentials")
	ErrAccountLocked      = New("account temporarily locked")
	ErrAccountDisabled    = New("account is disabled")
	ErrTokenExpired       = New("token has expired")
	ErrTokenInvalid       = New("token is invalid")

	// Rate limiting
	ErrRateLimitExceeded = New("rate limit exceeded")
)

// Error represents a standardized error
type Error struct {
	message string
	cause   error
}

// New creates a new error
func New(message string) *Error {
	return &Error{message: message}
}

// Newf creates a new formatted error
func Newf(format string, args ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: message,
		cause:   err,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: fmt.Sprintf(format, args...),
		cause:   err,
	}
}

// WrapSentinel attaches a sentinel to a concrete failure so that callers can
// match with errors.Is while the message keeps the original detail.
func WrapSentinel(sentinel *Error, cause error) error {
	if cause == nil {
		return sentinel
	}
	return &Error{
		message: sentinel.message,
		cause:   cause,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Is checks if the error matches target
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.message == t.message
}
