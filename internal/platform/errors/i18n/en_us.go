package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeUnknown                 = "UNKNOWN"
	CodeMalformedRequest        = "MALFORMED_REQUEST"
	CodeFeedbackStepRequired    = "FEEDBACK_STEP_REQUIRED"
	CodeFeedbackUserRequired    = "FEEDBACK_USER_REQUIRED"
	CodeFeedbackStatusUnknown   = "FEEDBACK_STATUS_UNKNOWN"
	CodeFeedbackStatusSentinel  = "FEEDBACK_STATUS_SENTINEL"
	CodeFeedbackProjectRequired = "FEEDBACK_PROJECT_REQUIRED"
	CodeStepIndexOutOfRange     = "STEP_INDEX_OUT_OF_RANGE"
	CodeCaseHasNoSteps          = "CASE_HAS_NO_STEPS"
	CodeNotFound                = "NOT_FOUND"
	CodePersistence             = "PERSISTENCE_FAILURE"
)

func init() {
	Register(NewCatalog("en-US", map[Code]string{
		CodeUnknown:                 "Something went wrong. Please try again.",
		CodeMalformedRequest:        "The request could not be read.",
		CodeFeedbackStepRequired:    "A step must be selected before recording feedback.",
		CodeFeedbackUserRequired:    "A reviewer identity is required to record feedback.",
		CodeFeedbackStatusUnknown:   "The status label {{.label}} is not recognized.",
		CodeFeedbackStatusSentinel:  "The status label {{.label}} cannot be recorded as feedback.",
		CodeFeedbackProjectRequired: "A project must be selected.",
		CodeStepIndexOutOfRange:     "Step {{.index}} is outside this case.",
		CodeCaseHasNoSteps:          "This case has no steps to walk through.",
		CodeNotFound:                "The requested record was not found.",
		CodePersistence:             "Feedback could not be saved. Please try again.",
	}))
}
