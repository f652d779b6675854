// Package trackers coordinates the collection lifecycle: it owns the active
// session, the sampler attachment, and the two periodic timers (sampling
// cadence and flush interval).
package trackers

import (
	"context"
	"sync"
	"time"

	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/batchers"
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/models"
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/samplers"
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/sessions"
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/shared/loggers"
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/stores"
)

// Config holds the tracker's timing parameters and the device identity
// captured into each new session.
type Config struct {
	SampleInterval time.Duration
	FlushInterval  time.Duration
	DeviceInfo     models.DeviceInfo
}

// Tracker is an explicitly constructed value with no ambient global state;
// callers hold and pass a reference. None of its operations ever surfaces a
// pipeline fault: failures are observable only through the session's
// delivery-attempt audit trail and the metrics.
type Tracker struct {
	mu sync.Mutex

	config   Config
	batcher  *batchers.Batcher
	recorder *SessionAttemptRecorder
	store    stores.SessionStore // optional; nil disables persistence
	logger   loggers.Logger

	session *sessions.Session
	sampler *samplers.Sampler
	stopCh  chan struct{}
	wg      sync.WaitGroup
	running bool
}

// NewTracker wires a tracker over the given batcher. store may be nil.
func NewTracker(config Config, batcher *batchers.Batcher, recorder *SessionAttemptRecorder, store stores.SessionStore, logger loggers.Logger) *Tracker {
	return &Tracker{
		config:   config,
		batcher:  batcher,
		recorder: recorder,
		store:    store,
		logger:   logger,
	}
}

// Start creates a session if none is active, attaches the sampler to source,
// and arms the periodic-sample and periodic-flush timers. Starting a running
// tracker is a no-op.
func (t *Tracker) Start(source samplers.PlaybackSource, sctx samplers.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return
	}

	if t.session == nil || t.session.Finalized() {
		t.newSessionLocked()
	}

	t.sampler = samplers.NewSampler(t.session, t.batcher.Enqueue, t.logger)
	t.sampler.Attach(source, sctx)

	t.stopCh = make(chan struct{})
	t.running = true

	sampler := t.sampler
	stopCh := t.stopCh
	t.wg.Add(2)
	go t.runTicker(stopCh, t.config.SampleInterval, sampler.Sample)
	go t.runTicker(stopCh, t.config.FlushInterval, func() {
		t.batcher.Flush(context.Background())
	})

	t.logger.Info().
		Str(loggers.FieldSessionID, t.session.ID()).
		Msg("tracking started")
}

// Stop detaches the sampler, cancels both timers, finalizes the session, and
// performs one final flush of anything still queued before returning. A
// delivery already in flight is allowed to complete in the background.
// Stopping a stopped tracker is a no-op.
func (t *Tracker) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.running = false
	close(t.stopCh)
	sampler := t.sampler
	session := t.session
	t.mu.Unlock()

	t.wg.Wait()
	sampler.Detach()
	// Flush before finalizing so the final delivery attempt still lands in
	// the session's request timeline.
	t.batcher.FlushSync(context.Background())
	session.Finalize()

	if t.store != nil {
		if err := t.store.Put(context.Background(), session.Snapshot()); err != nil {
			t.logger.Error().
				Err(err).
				Str(loggers.FieldSessionID, session.ID()).
				Msg("failed to persist session snapshot")
		}
	}

	t.logger.Info().
		Str(loggers.FieldSessionID, session.ID()).
		Msg("tracking stopped")
}

// Reset stops tracking if running and replaces the session with a fresh one.
// Prior snapshots stay valid; the caller must Start again to resume.
func (t *Tracker) Reset() {
	t.Stop()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.newSessionLocked()
}

// Snapshot returns a read-only deep copy of the current session state, or nil
// before the first Start/Reset.
func (t *Tracker) Snapshot() *models.SessionSnapshot {
	t.mu.Lock()
	session := t.session
	t.mu.Unlock()

	if session == nil {
		return nil
	}
	return session.Snapshot()
}

// SessionID returns the active session id, or "" before the first
// Start/Reset.
func (t *Tracker) SessionID() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.session == nil {
		return ""
	}
	return t.session.ID()
}

func (t *Tracker) newSessionLocked() {
	t.session = sessions.New(t.config.DeviceInfo)
	t.recorder.SetSession(t.session)
}

func (t *Tracker) runTicker(stopCh <-chan struct{}, interval time.Duration, tick func()) {
	defer t.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			tick()
		}
	}
}

// SessionAttemptRecorder routes delivery attempts to the tracker's active
// session. It exists so the transport can be constructed before the first
// session is allocated.
type SessionAttemptRecorder struct {
	mu      sync.Mutex
	session *sessions.Session
}

// NewSessionAttemptRecorder creates a recorder with no session yet; attempts
// observed before the first session are discarded.
func NewSessionAttemptRecorder() *SessionAttemptRecorder {
	return &SessionAttemptRecorder{}
}

// ObserveAttempt implements transports.AttemptSink.
func (r *SessionAttemptRecorder) ObserveAttempt(attempt models.DeliveryAttempt) {
	r.mu.Lock()
	session := r.session
	r.mu.Unlock()

	if session != nil {
		session.AppendAttempt(attempt)
	}
}

// SetSession switches the recorder to a new session.
func (r *SessionAttemptRecorder) SetSession(session *sessions.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.session = session
}
