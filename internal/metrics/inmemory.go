package metrics

import (
	"sync"
	"sync/atomic"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	Registrations          map[string]uint64
	Logins                 map[string]uint64
	TokensIssued           uint64
	AuthFailures           map[string]uint64
	CommentsAdded          uint64
	CommentListings        uint64
	ConfirmationsPublished map[string]uint64
	ConfirmationsProcessed map[string]uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	tokensIssued    uint64
	commentsAdded   uint64
	commentListings uint64

	mu       sync.Mutex
	labelled map[string]map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{labelled: make(map[string]map[string]uint64)}
}

func (m *InMemoryRecorder) incLabel(metric, label string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts, ok := m.labelled[metric]
	if !ok {
		counts = make(map[string]uint64)
		m.labelled[metric] = counts
	}
	counts[label]++
}

func (m *InMemoryRecorder) copyLabel(metric string) map[string]uint64 {
	out := make(map[string]uint64, len(m.labelled[metric]))
	for k, v := range m.labelled[metric] {
		out[k] = v
	}
	return out
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Registrations:          m.copyLabel("registrations"),
		Logins:                 m.copyLabel("logins"),
		TokensIssued:           atomic.LoadUint64(&m.tokensIssued),
		AuthFailures:           m.copyLabel("auth_failures"),
		CommentsAdded:          atomic.LoadUint64(&m.commentsAdded),
		CommentListings:        atomic.LoadUint64(&m.commentListings),
		ConfirmationsPublished: m.copyLabel("confirmations_published"),
		ConfirmationsProcessed: m.copyLabel("confirmations_processed"),
	}
}

// IncRegistration counts a registration attempt by outcome.
func (m *InMemoryRecorder) IncRegistration(outcome string) {
	m.incLabel("registrations", outcome)
}

// IncLogin counts a login attempt by outcome.
func (m *InMemoryRecorder) IncLogin(outcome string) {
	m.incLabel("logins", outcome)
}

// IncTokenIssued increments the issued token counter.
func (m *InMemoryRecorder) IncTokenIssued() {
	atomic.AddUint64(&m.tokensIssued, 1)
}

// IncAuthFailure counts a rejected token by reason.
func (m *InMemoryRecorder) IncAuthFailure(reason string) {
	m.incLabel("auth_failures", reason)
}

// IncCommentAdded increments the comment counter.
func (m *InMemoryRecorder) IncCommentAdded() {
	atomic.AddUint64(&m.commentsAdded, 1)
}

// IncCommentsListed increments the comment listing counter.
func (m *InMemoryRecorder) IncCommentsListed() {
	atomic.AddUint64(&m.commentListings, 1)
}

// IncConfirmationPublished counts confirmation publishes by status.
func (m *InMemoryRecorder) IncConfirmationPublished(status string) {
	m.incLabel("confirmations_published", status)
}

// IncConfirmationProcessed counts processed confirmations by status.
func (m *InMemoryRecorder) IncConfirmationProcessed(status string) {
	m.incLabel("confirmations_processed", status)
}
