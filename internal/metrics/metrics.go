// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Outcome labels shared by recorders.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Recorder captures metric events for the application.
// Implementations: Noop, InMemory (tests) and Prometheus.
type Recorder interface {
	// Account metrics
	IncRegistration(outcome string)
	IncLogin(outcome string)

	// Token metrics
	IncTokenIssued()
	IncAuthFailure(reason string) // reason: "missing_token", "invalid_token", "expired_token"

	// Comment metrics
	IncCommentAdded()
	IncCommentsListed()

	// Confirmation side channel metrics
	IncConfirmationPublished(status string) // status: "success" or "dropped"
	IncConfirmationProcessed(status string) // status: "success", "failed", "dead_lettered"
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
