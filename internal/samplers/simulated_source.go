package samplers

import (
	"sync"
	"time"
)

// SimulatedSource is a scripted in-process playback source. It lets the demo
// binary and the tests drive the full pipeline without a real player: callers
// emit lifecycle events and mutate the readable state directly.
type SimulatedSource struct {
	mu        sync.Mutex
	subs      map[EventKind]map[int]func(Event)
	nextSubID int
	state     PlaybackState
}

// NewSimulatedSource creates a source positioned at zero with a small buffer
// ahead and normal playback rate.
func NewSimulatedSource() *SimulatedSource {
	duration := 600.0
	return &SimulatedSource{
		subs: make(map[EventKind]map[int]func(Event)),
		state: PlaybackState{
			Position:     0,
			BufferedEnd:  4,
			PlaybackRate: 1.0,
			Duration:     &duration,
			VideoWidth:   1920,
			VideoHeight:  1080,
		},
	}
}

// Subscribe registers fn for kind and returns its unsubscribe handle.
// Cancelling twice is harmless.
func (s *SimulatedSource) Subscribe(kind EventKind, fn func(Event)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subs[kind] == nil {
		s.subs[kind] = make(map[int]func(Event))
	}
	id := s.nextSubID
	s.nextSubID++
	s.subs[kind][id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs[kind], id)
	}
}

// State returns the current instantaneous state.
func (s *SimulatedSource) State() PlaybackState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// SetState replaces the readable state wholesale.
func (s *SimulatedSource) SetState(state PlaybackState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = state
}

// Emit dispatches one lifecycle event to the current subscribers of its kind.
func (s *SimulatedSource) Emit(event Event) {
	s.mu.Lock()
	fns := make([]func(Event), 0, len(s.subs[event.Kind]))
	for _, fn := range s.subs[event.Kind] {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(event)
	}
}

// SubscriberCount reports how many listeners are registered for kind.
func (s *SimulatedSource) SubscriberCount(kind EventKind) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.subs[kind])
}

// Advance moves the play position forward by elapsed at the current playback
// rate and keeps a few seconds of buffer ahead, capped at the duration.
func (s *SimulatedSource) Advance(elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Position += elapsed.Seconds() * s.state.PlaybackRate
	s.state.BufferedEnd = s.state.Position + 4
	if s.state.Duration != nil {
		if s.state.Position > *s.state.Duration {
			s.state.Position = *s.state.Duration
		}
		if s.state.BufferedEnd > *s.state.Duration {
			s.state.BufferedEnd = *s.state.Duration
		}
	}
}
