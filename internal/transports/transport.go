// Package transports delivers batches to a sink: a remote HTTP collector or,
// in degraded/offline mode, a bounded local log. Strategies are selected by
// configuration and never mixed mid-session. Every attempt, success or
// failure, produces exactly one DeliveryAttempt audit record.
package transports

import (
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/models"
)

// AttemptSink consumes the audit record of every transport call.
// Implementations must be fast; transports invoke the sink inline.
type AttemptSink interface {
	ObserveAttempt(attempt models.DeliveryAttempt)
}

// AttemptSinkFunc adapts a function to the AttemptSink interface.
type AttemptSinkFunc func(attempt models.DeliveryAttempt)

func (f AttemptSinkFunc) ObserveAttempt(attempt models.DeliveryAttempt) { f(attempt) }

// MultiAttemptSink fans one attempt out to several sinks in order.
func MultiAttemptSink(sinks ...AttemptSink) AttemptSink {
	return AttemptSinkFunc(func(attempt models.DeliveryAttempt) {
		for _, sink := range sinks {
			sink.ObserveAttempt(attempt)
		}
	})
}
