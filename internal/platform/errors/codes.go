// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// CodeMalformedRequest represents an unparseable request payload.
	CodeMalformedRequest Code = "MALFORMED_REQUEST"

	// Feedback submission errors
	CodeFeedbackStepRequired    Code = "FEEDBACK_STEP_REQUIRED"
	CodeFeedbackUserRequired    Code = "FEEDBACK_USER_REQUIRED"
	CodeFeedbackStatusUnknown   Code = "FEEDBACK_STATUS_UNKNOWN"
	CodeFeedbackStatusSentinel  Code = "FEEDBACK_STATUS_SENTINEL"
	CodeFeedbackProjectRequired Code = "FEEDBACK_PROJECT_REQUIRED"

	// Walkthrough errors
	CodeStepIndexOutOfRange Code = "STEP_INDEX_OUT_OF_RANGE"
	CodeCaseHasNoSteps      Code = "CASE_HAS_NO_STEPS"

	// Storage errors
	CodeNotFound    Code = "NOT_FOUND"
	CodePersistence Code = "PERSISTENCE_FAILURE"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeMalformedRequest,
		CodeFeedbackStepRequired,
		CodeFeedbackUserRequired,
		CodeFeedbackStatusUnknown,
		CodeFeedbackStatusSentinel,
		CodeFeedbackProjectRequired:
		return codes.InvalidArgument

	// OutOfRange - walkthrough navigation outside the step sequence
	case CodeStepIndexOutOfRange:
		return codes.OutOfRange

	// FailedPrecondition - state doesn't allow operation
	case CodeCaseHasNoSteps:
		return codes.FailedPrecondition

	// NotFound - resource doesn't exist
	case CodeNotFound:
		return codes.NotFound

	default:
		return codes.Internal
	}
}
