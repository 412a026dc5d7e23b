package bedrock

import (
	"context"
	stderrors "errors"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
)

// Transient service failures: retrying can succeed.
var transientCodes = map[string]bool{
	"ThrottlingException":         true,
	"TooManyRequestsException":    true,
	"ServiceUnavailableException": true,
	"InternalServerException":     true,
	"ModelTimeoutException":       true,
	"ModelNotReadyException":      true,
	"RequestTimeout":              true,
	"RequestError":                true, // connection-level failure wrapped by the SDK
}

// isTransient reports whether a model-call failure is worth retrying.
// Anything not positively identified as transient fails fast: auth errors,
// unknown model identifiers, and malformed requests cannot be fixed by
// another attempt.
func isTransient(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if rf, ok := err.(awserr.RequestFailure); ok {
		if rf.StatusCode() == 429 || rf.StatusCode() >= 500 {
			return true
		}
	}
	if aerr, ok := err.(awserr.Error); ok {
		// The SDK rewrites an expired attempt context to RequestCanceled.
		// awserr carries no Unwrap, so errors.Is cannot see the deadline;
		// OrigErr distinguishes a timed-out attempt (retryable under a
		// fresh window) from a caller cancellation (not retryable).
		if aerr.Code() == request.CanceledErrorCode {
			return stderrors.Is(aerr.OrigErr(), context.DeadlineExceeded)
		}
		return transientCodes[aerr.Code()]
	}
	return false
}

// errorCode extracts the AWS error code for diagnostics, or a generic tag
// for non-AWS errors.
func errorCode(err error) string {
	if aerr, ok := err.(awserr.Error); ok {
		return aerr.Code()
	}
	return "Unknown"
}
