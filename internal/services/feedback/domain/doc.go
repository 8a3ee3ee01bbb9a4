// Package domain holds the feedback value types and submission use-cases.
//
// Feedback is event-sourced: every submission is a new immutable event for a
// (step, user) pair, and the "current" state of a pair is always derived by
// the aggregate package rather than stored. The domain service validates
// submissions against the configured status label set before any write.
package domain
