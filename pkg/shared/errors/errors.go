// Package errors defines the failure taxonomy of the enrichment pipeline.
// Every error the pipeline surfaces to the invoking platform is one of the
// types below, so callers can decide between redelivery and dead-lettering
// without string matching.
package errors

import "fmt"

// ValidationError reports a malformed or unexpected input event. It is not
// retryable: redelivering the same event yields the same failure.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid event: field %q: %s", e.Field, e.Reason)
}

// NewValidationError creates a new ValidationError instance.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// TransientServiceError reports that the model call failed with retryable
// errors until the retry budget was exhausted. Cause holds the last
// underlying failure for diagnostics.
type TransientServiceError struct {
	Attempts int
	Cause    error
}

// Error implements the error interface for TransientServiceError.
func (e *TransientServiceError) Error() string {
	return fmt.Sprintf("model service unavailable after %d attempts: %v", e.Attempts, e.Cause)
}

// Unwrap exposes the last underlying failure.
func (e *TransientServiceError) Unwrap() error {
	return e.Cause
}

// NewTransientServiceError creates a new TransientServiceError instance.
func NewTransientServiceError(attempts int, cause error) error {
	return &TransientServiceError{Attempts: attempts, Cause: cause}
}

// PermanentServiceError reports a model-service failure that retrying cannot
// fix, such as bad credentials or an unknown model identifier.
type PermanentServiceError struct {
	Code  string
	Cause error
}

// Error implements the error interface for PermanentServiceError.
func (e *PermanentServiceError) Error() string {
	return fmt.Sprintf("model service rejected request (%s): %v", e.Code, e.Cause)
}

// Unwrap exposes the underlying service failure.
func (e *PermanentServiceError) Unwrap() error {
	return e.Cause
}

// NewPermanentServiceError creates a new PermanentServiceError instance.
func NewPermanentServiceError(code string, cause error) error {
	return &PermanentServiceError{Code: code, Cause: cause}
}

// PublishError reports a notification-channel rejection. Retry, if any, is a
// platform-level concern; the pipeline never retries a publish.
type PublishError struct {
	Channel string
	Cause   error
}

// Error implements the error interface for PublishError.
func (e *PublishError) Error() string {
	return fmt.Sprintf("publish to %s failed: %v", e.Channel, e.Cause)
}

// Unwrap exposes the underlying channel failure.
func (e *PublishError) Unwrap() error {
	return e.Cause
}

// NewPublishError creates a new PublishError instance.
func NewPublishError(channel string, cause error) error {
	return &PublishError{Channel: channel, Cause: cause}
}
