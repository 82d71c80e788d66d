package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncRegistration is a no-op.
func (n *NoopRecorder) IncRegistration(outcome string) {}

// IncLogin is a no-op.
func (n *NoopRecorder) IncLogin(outcome string) {}

// IncTokenIssued is a no-op.
func (n *NoopRecorder) IncTokenIssued() {}

// IncAuthFailure is a no-op.
func (n *NoopRecorder) IncAuthFailure(reason string) {}

// IncCommentAdded is a no-op.
func (n *NoopRecorder) IncCommentAdded() {}

// IncCommentsListed is a no-op.
func (n *NoopRecorder) IncCommentsListed() {}

// IncConfirmationPublished is a no-op.
func (n *NoopRecorder) IncConfirmationPublished(status string) {}

// IncConfirmationProcessed is a no-op.
func (n *NoopRecorder) IncConfirmationProcessed(status string) {}
