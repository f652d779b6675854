package transports

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/cmcd"
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/models"
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/shared/loggers"
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/shared/metrics"
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/shared/svcerrors"
)

const (
	modeRemote = "remote"

	headerContentType = "Content-Type"
	headerCMCDData    = "CMCD-Data"

	contentTypeJSON = "application/json"
)

// batchPayload is the JSON body posted to the collector endpoint.
type batchPayload struct {
	Events    []models.MetricRecord `json:"events"`
	BatchSize int                   `json:"batch_size"`
	Timestamp string                `json:"timestamp"`
}

// HTTPTransport posts batches as JSON to a remote collector endpoint, with
// the most recent record's CMCD string attached as a request header for
// collectors that parse headers instead of bodies. Any non-2xx response or
// request error is a delivery failure.
type HTTPTransport struct {
	endpoint    string
	client      *http.Client
	attemptSink AttemptSink
	logger      loggers.Logger
}

// NewHTTPTransport creates a remote transport posting to endpoint with the
// given request timeout.
func NewHTTPTransport(endpoint string, timeout time.Duration, attemptSink AttemptSink, logger loggers.Logger) *HTTPTransport {
	return &HTTPTransport{
		endpoint:    endpoint,
		client:      &http.Client{Timeout: timeout},
		attemptSink: attemptSink,
		logger:      logger,
	}
}

// Deliver implements batchers.FlushSink.
func (t *HTTPTransport) Deliver(ctx context.Context, batch []models.MetricRecord) error {
	headers := map[string]string{
		headerContentType: contentTypeJSON,
		headerCMCDData:    cmcd.Encode(&batch[len(batch)-1]),
	}
	attempt := models.DeliveryAttempt{
		URL:       t.endpoint,
		Method:    http.MethodPost,
		Headers:   headers,
		Timestamp: time.Now().UTC(),
	}

	payload := batchPayload{
		Events:    batch,
		BatchSize: len(batch),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return t.fail(attempt, errEncodePayloadFailed(err))
	}
	attempt.Body = string(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return t.fail(attempt, errRequestFailed(err))
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := t.client.Do(req)
	attempt.ResponseTimeMs = models.Float(float64(time.Since(start).Nanoseconds()) / float64(time.Millisecond))
	if err != nil {
		return t.fail(attempt, errRequestFailed(err))
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	attempt.StatusCode = &resp.StatusCode
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return t.fail(attempt, errUnexpectedStatus(resp.StatusCode))
	}

	t.attemptSink.ObserveAttempt(attempt)
	metricDeliveriesTotal.WithLabelValues(modeRemote, metrics.ValueNoError).Inc()
	metricDeliveryDuration.WithLabelValues(modeRemote).Observe(time.Since(start).Seconds())

	t.logger.Debug().
		Str(loggers.FieldEndpoint, t.endpoint).
		Int(loggers.FieldBatchSize, len(batch)).
		Int(loggers.FieldStatusCode, resp.StatusCode).
		Msg("batch delivered")
	return nil
}

func (t *HTTPTransport) fail(attempt models.DeliveryAttempt, svcErr *svcerrors.ServiceError) error {
	attempt.Error = fmt.Sprintf("%v", svcErr.Cause)
	t.attemptSink.ObserveAttempt(attempt)
	metricDeliveriesTotal.WithLabelValues(modeRemote, svcErr.Code).Inc()
	return svcErr
}
