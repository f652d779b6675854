package samplers

// EventKind identifies a playback lifecycle event.
type EventKind string

const (
	EventLoadStart EventKind = "loadstart"
	EventReady     EventKind = "canplay"
	EventPlay      EventKind = "play"
	EventPause     EventKind = "pause"
	EventEnded     EventKind = "ended"
	EventError     EventKind = "error"
	EventWaiting   EventKind = "waiting"
	EventProgress  EventKind = "progress"
)

// LifecycleEvents is the fixed event set a sampler subscribes to.
var LifecycleEvents = []EventKind{
	EventLoadStart,
	EventReady,
	EventPlay,
	EventPause,
	EventEnded,
	EventError,
	EventWaiting,
	EventProgress,
}

// Event is one occurrence of a lifecycle event. Detail is only set for
// error events.
type Event struct {
	Kind   EventKind
	Detail string
}

// PlaybackState is an instantaneous read of the source's continuous state.
// Pointer fields are nil when the source does not expose the capability;
// absence is never treated as zero.
type PlaybackState struct {
	Position     float64 // current play position, seconds
	BufferedEnd  float64 // end of the buffered span covering the position, seconds
	PlaybackRate float64 // 1.0 = normal

	Duration      *float64 // total object duration, seconds
	DecodedFrames *int64   // cumulative
	DroppedFrames *int64   // cumulative

	// Video track resolution, for the coarse bandwidth heuristic. Zero when
	// not exposed.
	VideoWidth  int
	VideoHeight int
}

// PlaybackSource is the only external collaborator interface the pipeline
// requires: an event-subscribable, state-readable playback surface.
// Subscribe returns an unsubscribe handle; the sampler stores and invokes
// those handles explicitly on detach.
type PlaybackSource interface {
	Subscribe(kind EventKind, fn func(Event)) (cancel func())
	State() PlaybackState
}
