package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SalesMetrics records checkout and receipt activity.
type SalesMetrics struct {
	commitDuration *prometheus.HistogramVec
	commitSuccess  prometheus.Counter
	commitFailure  *prometheus.CounterVec
	receiptRenders *prometheus.CounterVec
}

// NewSalesMetrics registers the sales metrics on the provided registerer.
func NewSalesMetrics(reg prometheus.Registerer) *SalesMetrics {
	if reg == nil {
		return &SalesMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sale_commit_duration_seconds",
		Help:    "Duration of sale commit transactions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	success := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sale_commit_success_total",
		Help: "Successfully committed sales.",
	})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sale_commit_failure_total",
		Help: "Failed sale commits by error code.",
	}, []string{"code"})
	renders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "receipt_render_total",
		Help: "Receipt documents rendered by format.",
	}, []string{"format"})
	reg.MustRegister(duration, success, failure, renders)
	return &SalesMetrics{
		commitDuration: duration,
		commitSuccess:  success,
		commitFailure:  failure,
		receiptRenders: renders,
	}
}

// ObserveCommit records the duration of one commit attempt.
func (s *SalesMetrics) ObserveCommit(outcome string, duration time.Duration) {
	if s == nil || s.commitDuration == nil {
		return
	}
	s.commitDuration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncCommitSuccess increments the committed-sale counter.
func (s *SalesMetrics) IncCommitSuccess() {
	if s == nil || s.commitSuccess == nil {
		return
	}
	s.commitSuccess.Inc()
}

// IncCommitFailure increments the failure counter for the given error code.
func (s *SalesMetrics) IncCommitFailure(code string) {
	if s == nil || s.commitFailure == nil {
		return
	}
	s.commitFailure.WithLabelValues(normalizeLabel(code)).Inc()
}

// IncReceiptRender counts a rendered receipt artifact.
func (s *SalesMetrics) IncReceiptRender(format string) {
	if s == nil || s.receiptRenders == nil {
		return
	}
	s.receiptRenders.WithLabelValues(normalizeLabel(format)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
