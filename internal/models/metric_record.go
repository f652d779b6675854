package models

import "time"

// MetricRecord is a point-in-time snapshot of playback quality-of-experience
// values plus session and context identifiers. Only SessionID and Timestamp
// are required; every metric field is optional and a record with no metrics
// at all is still valid.
//
// Units are part of the contract: BufferLength, ObjectDuration and
// RebufferingTime are seconds; LoadTime and StartupTime are milliseconds;
// Bandwidth and MeasuredThroughput are kbps.
type MetricRecord struct {
	SessionID string    `json:"sessionId"`
	Timestamp time.Time `json:"timestamp"`

	// Context correlation keys, supplied by the caller, never generated here.
	FlowID    string `json:"flowId,omitempty"`
	SegmentID string `json:"segmentId,omitempty"`
	SourceID  string `json:"sourceId,omitempty"`

	// Continuous playback metrics.
	Bandwidth          *float64 `json:"bandwidth,omitempty"`          // kbps
	BufferLength       *float64 `json:"bufferLength,omitempty"`       // seconds
	MeasuredThroughput *float64 `json:"measuredThroughput,omitempty"` // kbps
	ObjectDuration     *float64 `json:"objectDuration,omitempty"`     // seconds
	PlaybackRate       *float64 `json:"playbackRate,omitempty"`       // 1.0 = normal

	// Discrete/counter metrics.
	DecodedFrames     *int64 `json:"decodedFrames,omitempty"`
	DroppedFrames     *int64 `json:"droppedFrames,omitempty"`
	QualityLevel      *int64 `json:"qualityLevel,omitempty"`
	QualityChanges    *int64 `json:"qualityChanges,omitempty"`
	RebufferingEvents *int64 `json:"rebufferingEvents,omitempty"`

	// Timing metrics.
	LoadTime        *float64 `json:"loadTime,omitempty"`        // milliseconds
	StartupTime     *float64 `json:"startupTime,omitempty"`     // milliseconds
	RebufferingTime *float64 `json:"rebufferingTime,omitempty"` // seconds
}

// Float returns a pointer to v, for optional metric fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v, for optional counter fields.
func Int(v int64) *int64 { return &v }
