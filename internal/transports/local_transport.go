package transports

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/models"
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/shared/metrics"
)

const (
	modeLocal = "local"

	localLogURL = "local://metric-log"
)

// LocalTransport is the degraded/offline delivery strategy: an append-only,
// bounded in-memory log of raw metric records, oldest-evicted when the cap is
// exceeded, read back in insertion order for reporting.
type LocalTransport struct {
	mu       sync.Mutex
	records  []models.MetricRecord
	capacity int

	attemptSink AttemptSink
}

// NewLocalTransport creates a local transport capped at capacity records.
func NewLocalTransport(capacity int, attemptSink AttemptSink) *LocalTransport {
	return &LocalTransport{
		capacity:    capacity,
		attemptSink: attemptSink,
	}
}

// Deliver implements batchers.FlushSink. Local delivery never fails.
func (t *LocalTransport) Deliver(ctx context.Context, batch []models.MetricRecord) error {
	t.mu.Lock()
	t.records = append(t.records, batch...)
	if overflow := len(t.records) - t.capacity; overflow > 0 {
		t.records = t.records[overflow:]
	}
	t.mu.Unlock()

	t.attemptSink.ObserveAttempt(models.DeliveryAttempt{
		URL:       localLogURL,
		Method:    http.MethodPost,
		Headers:   map[string]string{},
		Timestamp: time.Now().UTC(),
	})
	metricDeliveriesTotal.WithLabelValues(modeLocal, metrics.ValueNoError).Inc()

	return nil
}

// Records returns a copy of the persisted log in insertion order.
func (t *LocalTransport) Records() []models.MetricRecord {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]models.MetricRecord, len(t.records))
	copy(out, t.records)
	return out
}

// Len returns the current log length.
func (t *LocalTransport) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.records)
}
