// Package stats aggregates the delivery audit trail into a compact summary:
// attempt/failure counts and response-time percentiles computed with a
// t-digest sketch.
package stats

import (
	"sync"

	"github.com/influxdata/tdigest"

	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/models"
)

// Summary is a point-in-time snapshot of delivery health.
type Summary struct {
	Attempts    int64   `json:"attempts"`
	Failures    int64   `json:"failures"`
	SuccessRate float64 `json:"successRate"` // 0..1; 1 when no attempts yet

	ResponseTimeP50Ms float64 `json:"responseTimeP50Ms"`
	ResponseTimeP95Ms float64 `json:"responseTimeP95Ms"`
	ResponseTimeP99Ms float64 `json:"responseTimeP99Ms"`
	ResponseTimeMaxMs float64 `json:"responseTimeMaxMs"`
}

// DeliveryStats consumes DeliveryAttempts and maintains the summary. It
// implements transports.AttemptSink and is safe for concurrent use.
type DeliveryStats struct {
	mu       sync.Mutex
	digest   *tdigest.TDigest
	attempts int64
	failures int64
	maxMs    float64
	timed    int64 // attempts that carried a response time
}

// NewDeliveryStats creates an empty aggregator.
func NewDeliveryStats() *DeliveryStats {
	return &DeliveryStats{
		digest: tdigest.New(),
	}
}

// ObserveAttempt folds one audit record into the aggregate.
func (s *DeliveryStats) ObserveAttempt(attempt models.DeliveryAttempt) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempts++
	if attempt.Error != "" {
		s.failures++
	}
	if attempt.ResponseTimeMs != nil {
		s.timed++
		s.digest.Add(*attempt.ResponseTimeMs, 1)
		if *attempt.ResponseTimeMs > s.maxMs {
			s.maxMs = *attempt.ResponseTimeMs
		}
	}
}

// Summary returns the current aggregate. Percentiles are zero until at least
// one timed attempt has been observed.
func (s *DeliveryStats) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := Summary{
		Attempts:    s.attempts,
		Failures:    s.failures,
		SuccessRate: 1,
	}
	if s.attempts > 0 {
		summary.SuccessRate = float64(s.attempts-s.failures) / float64(s.attempts)
	}
	if s.timed > 0 {
		summary.ResponseTimeP50Ms = s.digest.Quantile(0.50)
		summary.ResponseTimeP95Ms = s.digest.Quantile(0.95)
		summary.ResponseTimeP99Ms = s.digest.Quantile(0.99)
		summary.ResponseTimeMaxMs = s.maxMs
	}
	return summary
}
