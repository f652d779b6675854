// Package samplers bridges a playback source's event-driven and continuous
// state into metric records on the active session.
package samplers

import (
	"sync"
	"time"

	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/models"
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/sessions"
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/shared/loggers"
)

// bandwidthPerPixelKbps is the coarse constant factor applied to the video
// track's pixel count when estimating bandwidth from resolution.
const bandwidthPerPixelKbps = 0.0007

// Context carries the opaque correlation keys the caller supplies for the
// duration of one attachment. Blank keys are simply omitted from records.
type Context struct {
	FlowID    string
	SegmentID string
	SourceID  string
}

// Sampler listens for discrete lifecycle events and reads continuous state at
// the cadence the tracker drives. Each event and each periodic sample appends
// exactly one fresh record to the session; previously appended records are
// never mutated.
type Sampler struct {
	mu sync.Mutex

	session *sessions.Session
	source  PlaybackSource
	sctx    Context

	cancels     []func()
	attachedAt  time.Time
	readySeen   bool
	enqueueFunc func(models.MetricRecord)

	logger loggers.Logger
}

// NewSampler creates a sampler that appends records to session and forwards
// each appended record to enqueue for delivery.
func NewSampler(session *sessions.Session, enqueue func(models.MetricRecord), logger loggers.Logger) *Sampler {
	return &Sampler{
		session:     session,
		enqueueFunc: enqueue,
		logger:      logger,
	}
}

// Attach subscribes to the full lifecycle event set of source. A second
// Attach without an intervening Detach is a no-op.
func (s *Sampler) Attach(source PlaybackSource, sctx Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.source != nil {
		return
	}

	s.source = source
	s.sctx = sctx
	s.attachedAt = time.Now()
	s.readySeen = false

	for _, kind := range LifecycleEvents {
		cancel := source.Subscribe(kind, s.onEvent)
		s.cancels = append(s.cancels, cancel)
	}
}

// Detach invokes every stored unsubscribe handle. Idempotent: a second
// Detach, or a Detach without a prior Attach, is a no-op.
func (s *Sampler) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, cancel := range s.cancels {
		cancel()
	}
	s.cancels = nil
	s.source = nil
}

// Sample reads instantaneous state from the source and appends one record,
// whether or not anything changed since the last tick. No-op while detached.
func (s *Sampler) Sample() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.source == nil {
		return
	}

	state := s.source.State()
	record := s.newRecordLocked()

	bufferLength := state.BufferedEnd - state.Position
	if bufferLength < 0 {
		bufferLength = 0
	}
	record.BufferLength = &bufferLength
	record.PlaybackRate = models.Float(state.PlaybackRate)
	if state.Duration != nil {
		record.ObjectDuration = models.Float(*state.Duration)
	}
	if state.DecodedFrames != nil {
		record.DecodedFrames = models.Int(*state.DecodedFrames)
	}
	if state.DroppedFrames != nil {
		record.DroppedFrames = models.Int(*state.DroppedFrames)
	}
	if state.VideoWidth > 0 && state.VideoHeight > 0 {
		estimate := float64(state.VideoWidth*state.VideoHeight) * bandwidthPerPixelKbps
		record.Bandwidth = &estimate
	}

	s.appendLocked(record, "sample")
}

func (s *Sampler) onEvent(event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.source == nil {
		return
	}

	record := s.newRecordLocked()

	switch event.Kind {
	case EventLoadStart:
		record.LoadTime = models.Float(float64(time.Since(s.attachedAt).Milliseconds()))
	case EventReady:
		if !s.readySeen {
			s.readySeen = true
			record.StartupTime = models.Float(float64(time.Since(s.attachedAt).Milliseconds()))
		}
	case EventWaiting:
		// One rebuffering event as of this record, not a running total.
		record.RebufferingEvents = models.Int(1)
	case EventError:
		// Record the fact of the error; a media fault never stops sampling.
		s.logger.Warn().
			Str(loggers.FieldSessionID, s.session.ID()).
			Str(loggers.FieldEventKind, string(event.Kind)).
			Msgf("playback error reported by source: %s", event.Detail)
	}

	s.appendLocked(record, string(event.Kind))
}

func (s *Sampler) newRecordLocked() models.MetricRecord {
	return models.MetricRecord{
		SessionID: s.session.ID(),
		Timestamp: time.Now().UTC(),
		FlowID:    s.sctx.FlowID,
		SegmentID: s.sctx.SegmentID,
		SourceID:  s.sctx.SourceID,
	}
}

func (s *Sampler) appendLocked(record models.MetricRecord, kind string) {
	s.session.AppendMetric(record)
	if s.enqueueFunc != nil {
		s.enqueueFunc(record)
	}
	metricRecordsProducedTotal.WithLabelValues(kind).Inc()
}
