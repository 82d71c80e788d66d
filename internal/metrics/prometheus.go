package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ugmi"

// PrometheusRecorder exports Recorder events as Prometheus counters.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	registrations          *prometheus.CounterVec
	logins                 *prometheus.CounterVec
	tokensIssued           prometheus.Counter
	authFailures           *prometheus.CounterVec
	commentsAdded          prometheus.Counter
	commentListings        prometheus.Counter
	confirmationsPublished *prometheus.CounterVec
	confirmationsProcessed *prometheus.CounterVec
}

// NewPrometheus creates a recorder with its own registry, including the
// Go runtime and process collectors.
func NewPrometheus() *PrometheusRecorder {
	p := &PrometheusRecorder{
		registry: prometheus.NewRegistry(),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "User registration attempts by outcome.",
		}, []string{"outcome"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		tokensIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_issued_total",
			Help:      "API tokens issued.",
		}),
		authFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_failures_total",
			Help:      "Rejected API tokens by reason.",
		}, []string{"reason"}),
		commentsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comments_added_total",
			Help:      "Comments added.",
		}),
		commentListings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comment_listings_total",
			Help:      "Comment pages served.",
		}),
		confirmationsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "confirmations_published_total",
			Help:      "Email confirmation requests published by status.",
		}, []string{"status"}),
		confirmationsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "confirmations_processed_total",
			Help:      "Email confirmation requests processed by status.",
		}, []string{"status"}),
	}

	p.registry.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		p.registrations,
		p.logins,
		p.tokensIssued,
		p.authFailures,
		p.commentsAdded,
		p.commentListings,
		p.confirmationsPublished,
		p.confirmationsProcessed,
	)

	return p
}

// Handler serves the registry in the Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (p *PrometheusRecorder) Registry() *prometheus.Registry {
	return p.registry
}

func (p *PrometheusRecorder) IncRegistration(outcome string) {
	p.registrations.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncLogin(outcome string) {
	p.logins.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncTokenIssued() {
	p.tokensIssued.Inc()
}

func (p *PrometheusRecorder) IncAuthFailure(reason string) {
	p.authFailures.WithLabelValues(reason).Inc()
}

func (p *PrometheusRecorder) IncCommentAdded() {
	p.commentsAdded.Inc()
}

func (p *PrometheusRecorder) IncCommentsListed() {
	p.commentListings.Inc()
}

func (p *PrometheusRecorder) IncConfirmationPublished(status string) {
	p.confirmationsPublished.WithLabelValues(status).Inc()
}

func (p *PrometheusRecorder) IncConfirmationProcessed(status string) {
	p.confirmationsProcessed.WithLabelValues(status).Inc()
}
