// Package sessions holds the timeline of one tracking lifetime: an ordered
// sequence of metric records, an ordered sequence of delivery attempts, and
// the device metadata captured once at creation.
package sessions

import (
	"sync"
	"time"

	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/models"
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/shared/ulid"
)

// Session is the live, mutable object. It is mutated only by the sampler
// (appending metrics) and the transport (appending delivery attempts), and
// becomes immutable once Finalize sets the end time. Appends after Finalize
// are silent no-ops; callers observe the outcome through Snapshot only.
type Session struct {
	mu sync.Mutex

	id         string
	startTime  time.Time
	endTime    *time.Time
	metrics    []models.MetricRecord
	requests   []models.DeliveryAttempt
	deviceInfo models.DeviceInfo
}

// New creates a Session with a fresh process-unique id, the given device
// metadata, and an empty timeline.
func New(deviceInfo models.DeviceInfo) *Session {
	return &Session{
		id:         ulid.NewULID(),
		startTime:  time.Now().UTC(),
		deviceInfo: deviceInfo,
	}
}

// ID returns the session id, stable for the session lifetime.
func (s *Session) ID() string {
	return s.id
}

// AppendMetric appends one record to the timeline. No-op after Finalize.
func (s *Session) AppendMetric(record models.MetricRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.endTime != nil {
		return
	}
	s.metrics = append(s.metrics, record)
}

// AppendAttempt appends one delivery attempt to the audit trail. No-op after
// Finalize.
func (s *Session) AppendAttempt(attempt models.DeliveryAttempt) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.endTime != nil {
		return
	}
	s.requests = append(s.requests, attempt)
}

// Finalize sets the end time. Idempotent; only the first call takes effect.
func (s *Session) Finalize() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.endTime != nil {
		return
	}
	now := time.Now().UTC()
	s.endTime = &now
}

// Finalized reports whether Finalize has been called.
func (s *Session) Finalized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.endTime != nil
}

// Snapshot returns a deep copy of the current session state. The snapshot is
// safe to hold and serialize while the session keeps mutating.
func (s *Session) Snapshot() *models.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := &models.SessionSnapshot{
		ID:         s.id,
		StartTime:  s.startTime,
		Metrics:    make([]models.MetricRecord, len(s.metrics)),
		Requests:   make([]models.DeliveryAttempt, len(s.requests)),
		DeviceInfo: s.deviceInfo,
	}
	copy(snapshot.Metrics, s.metrics)
	for i, attempt := range s.requests {
		snapshot.Requests[i] = copyAttempt(attempt)
	}
	if s.endTime != nil {
		endTime := *s.endTime
		snapshot.EndTime = &endTime
	}

	return snapshot
}

func copyAttempt(attempt models.DeliveryAttempt) models.DeliveryAttempt {
	out := attempt
	if attempt.Headers != nil {
		out.Headers = make(map[string]string, len(attempt.Headers))
		for k, v := range attempt.Headers {
			out.Headers[k] = v
		}
	}
	if attempt.ResponseTimeMs != nil {
		v := *attempt.ResponseTimeMs
		out.ResponseTimeMs = &v
	}
	if attempt.StatusCode != nil {
		v := *attempt.StatusCode
		out.StatusCode = &v
	}
	return out
}
