package models

import "time"

// DeliveryAttempt is the audit record of one transport call, success or
// failure. It is not a retry unit; requeueing works on the batch itself.
type DeliveryAttempt struct {
	URL            string            `json:"url"`
	Method         string            `json:"method"` // GET or POST
	Headers        map[string]string `json:"headers"`
	Body           string            `json:"body,omitempty"`
	Timestamp      time.Time         `json:"timestamp"`
	ResponseTimeMs *float64          `json:"responseTime,omitempty"`
	StatusCode     *int              `json:"statusCode,omitempty"`
	Error          string            `json:"error,omitempty"`
}
