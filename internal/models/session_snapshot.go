package models

import "time"

// SessionSnapshot is the read-only, JSON-serializable export of one tracking
// lifetime: the metric timeline, the delivery audit trail, and the device
// metadata captured at creation. This is the only contract external
// reporting/export tooling depends on.
//
// Example JSON:
//
//	{
//	  "id": "01ARZ3NDEKTSV4RRFFQ69G5FAV",
//	  "startTime": "2026-08-30T10:00:00Z",
//	  "endTime": "2026-08-30T10:05:00Z",
//	  "metrics": [{"sessionId": "01ARZ...", "timestamp": "...", "bufferLength": 4.2}],
//	  "requests": [{"url": "https://collector/v1/events", "method": "POST", "statusCode": 202}],
//	  "deviceInfo": {"userAgent": "Mozilla/5.0 ...", "browser": "Chrome"}
//	}
type SessionSnapshot struct {
	ID         string            `json:"id"`
	StartTime  time.Time         `json:"startTime"`
	EndTime    *time.Time        `json:"endTime,omitempty"`
	Metrics    []MetricRecord    `json:"metrics"`
	Requests   []DeliveryAttempt `json:"requests"`
	DeviceInfo DeviceInfo        `json:"deviceInfo"`
}
