package trackers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/batchers"
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/models"
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/samplers"
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/sessions"
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/stats"
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/trackers"
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/transports"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureSink records delivered batches so tests can assert on the final
// flush performed by Stop.
type captureSink struct {
	mu      sync.Mutex
	batches [][]models.MetricRecord
}

func (s *captureSink) Deliver(ctx context.Context, batch []models.MetricRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, batch)
	return nil
}

func (s *captureSink) deliveredBatches() [][]models.MetricRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]models.MetricRecord, len(s.batches))
	copy(out, s.batches)
	return out
}

func (s *captureSink) deliveredRecords() int {
	total := 0
	for _, batch := range s.deliveredBatches() {
		total += len(batch)
	}
	return total
}

func testConfig() trackers.Config {
	return trackers.Config{
		// Long intervals keep the timers out of event-driven tests.
		SampleInterval: time.Hour,
		FlushInterval:  time.Hour,
		DeviceInfo:     models.NewDeviceInfo("test-agent", 1920, 1080, "wifi", "4g"),
	}
}

func newTestTracker(t *testing.T, config trackers.Config, sink batchers.FlushSink) *trackers.Tracker {
	t.Helper()

	logger := zerolog.Nop()
	recorder := trackers.NewSessionAttemptRecorder()
	batcher := batchers.NewBatcher(10, sink, nil, logger)
	return trackers.NewTracker(config, batcher, recorder, nil, logger)
}

func testContext() samplers.Context {
	return samplers.Context{
		FlowID:    "flow-1",
		SegmentID: "seg-1",
		SourceID:  "content-1",
	}
}

func TestStart_CreatesSessionAndSnapshot(t *testing.T) {
	t.Parallel()

	tracker := newTestTracker(t, testConfig(), &captureSink{})
	require.Nil(t, tracker.Snapshot())
	require.Empty(t, tracker.SessionID())

	tracker.Start(samplers.NewSimulatedSource(), testContext())
	defer tracker.Stop()

	snapshot := tracker.Snapshot()
	require.NotNil(t, snapshot)
	assert.NotEmpty(t, snapshot.ID)
	assert.Equal(t, snapshot.ID, tracker.SessionID())
	assert.Nil(t, snapshot.EndTime)
}

func TestStart_WhileRunning_KeepsSameSession(t *testing.T) {
	t.Parallel()

	tracker := newTestTracker(t, testConfig(), &captureSink{})
	source := samplers.NewSimulatedSource()

	tracker.Start(source, testContext())
	defer tracker.Stop()
	firstID := tracker.SessionID()

	tracker.Start(source, testContext())
	assert.Equal(t, firstID, tracker.SessionID())
	// The second Start must not stack another set of subscriptions.
	assert.Equal(t, 1, source.SubscriberCount(samplers.EventPlay))
}

func TestStop_FinalizesSessionAndFlushesQueue(t *testing.T) {
	t.Parallel()

	sink := &captureSink{}
	tracker := newTestTracker(t, testConfig(), sink)
	source := samplers.NewSimulatedSource()

	tracker.Start(source, testContext())
	source.Emit(samplers.Event{Kind: samplers.EventPlay})
	source.Emit(samplers.Event{Kind: samplers.EventPause})
	source.Emit(samplers.Event{Kind: samplers.EventEnded})

	tracker.Stop()

	snapshot := tracker.Snapshot()
	require.NotNil(t, snapshot.EndTime)
	assert.Len(t, snapshot.Metrics, 3)
	assert.Equal(t, 3, sink.deliveredRecords())
	assert.Equal(t, 0, source.SubscriberCount(samplers.EventPlay))
}

func TestStop_NotStarted_NoOp(t *testing.T) {
	t.Parallel()

	tracker := newTestTracker(t, testConfig(), &captureSink{})
	tracker.Stop()
	tracker.Stop()

	assert.Nil(t, tracker.Snapshot())
}

func TestStart_AfterStop_CreatesFreshSession(t *testing.T) {
	t.Parallel()

	tracker := newTestTracker(t, testConfig(), &captureSink{})
	source := samplers.NewSimulatedSource()

	tracker.Start(source, testContext())
	firstID := tracker.SessionID()
	tracker.Stop()

	tracker.Start(source, testContext())
	defer tracker.Stop()

	assert.NotEqual(t, firstID, tracker.SessionID())
	assert.Nil(t, tracker.Snapshot().EndTime)
}

func TestReset_NewSessionWithEmptyTimeline(t *testing.T) {
	t.Parallel()

	sink := &captureSink{}
	tracker := newTestTracker(t, testConfig(), sink)
	source := samplers.NewSimulatedSource()

	tracker.Start(source, testContext())
	source.Emit(samplers.Event{Kind: samplers.EventPlay})
	firstID := tracker.SessionID()
	firstSnapshot := tracker.Snapshot()

	tracker.Reset()

	snapshot := tracker.Snapshot()
	require.NotNil(t, snapshot)
	assert.NotEqual(t, firstID, snapshot.ID)
	assert.Empty(t, snapshot.Metrics)
	assert.Empty(t, snapshot.Requests)
	assert.Nil(t, snapshot.EndTime)

	// Reset does not resume collection on its own.
	assert.Equal(t, 0, source.SubscriberCount(samplers.EventPlay))

	// The snapshot taken before the reset stays intact.
	assert.Equal(t, firstID, firstSnapshot.ID)
	assert.Len(t, firstSnapshot.Metrics, 1)
}

func TestReset_WithoutStart_AllocatesSession(t *testing.T) {
	t.Parallel()

	tracker := newTestTracker(t, testConfig(), &captureSink{})
	tracker.Reset()

	snapshot := tracker.Snapshot()
	require.NotNil(t, snapshot)
	assert.Empty(t, snapshot.Metrics)
}

func TestTracker_PeriodicSampling(t *testing.T) {
	t.Parallel()

	config := testConfig()
	config.SampleInterval = 10 * time.Millisecond

	sink := &captureSink{}
	tracker := newTestTracker(t, config, sink)
	tracker.Start(samplers.NewSimulatedSource(), testContext())

	time.Sleep(120 * time.Millisecond)
	tracker.Stop()

	snapshot := tracker.Snapshot()
	assert.GreaterOrEqual(t, len(snapshot.Metrics), 2)
	assert.Equal(t, len(snapshot.Metrics), sink.deliveredRecords())
}

func TestTracker_PeriodicFlush(t *testing.T) {
	t.Parallel()

	config := testConfig()
	config.FlushInterval = 20 * time.Millisecond

	sink := &captureSink{}
	tracker := newTestTracker(t, config, sink)
	source := samplers.NewSimulatedSource()

	tracker.Start(source, testContext())
	defer tracker.Stop()
	source.Emit(samplers.Event{Kind: samplers.EventPlay})

	require.Eventually(t, func() bool {
		return sink.deliveredRecords() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestSessionAttemptRecorder_RoutesToCurrentSession(t *testing.T) {
	t.Parallel()

	recorder := trackers.NewSessionAttemptRecorder()

	// No session yet: attempts are discarded without panicking.
	recorder.ObserveAttempt(models.DeliveryAttempt{URL: "https://early.example"})

	first := sessions.New(models.DeviceInfo{})
	recorder.SetSession(first)
	recorder.ObserveAttempt(models.DeliveryAttempt{URL: "https://first.example"})

	second := sessions.New(models.DeviceInfo{})
	recorder.SetSession(second)
	recorder.ObserveAttempt(models.DeliveryAttempt{URL: "https://second.example"})

	firstSnapshot := first.Snapshot()
	require.Len(t, firstSnapshot.Requests, 1)
	assert.Equal(t, "https://first.example", firstSnapshot.Requests[0].URL)

	secondSnapshot := second.Snapshot()
	require.Len(t, secondSnapshot.Requests, 1)
	assert.Equal(t, "https://second.example", secondSnapshot.Requests[0].URL)
}

func TestTracker_EndToEndHTTPDelivery(t *testing.T) {
	t.Parallel()

	type receivedPayload struct {
		Events    []models.MetricRecord `json:"events"`
		BatchSize int                   `json:"batch_size"`
		Timestamp string                `json:"timestamp"`
	}

	var (
		mu       sync.Mutex
		payloads []receivedPayload
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var payload receivedPayload
		require.NoError(t, json.Unmarshal(body, &payload))

		mu.Lock()
		payloads = append(payloads, payload)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	logger := zerolog.Nop()
	recorder := trackers.NewSessionAttemptRecorder()
	deliveryStats := stats.NewDeliveryStats()
	transport := transports.NewHTTPTransport(
		server.URL,
		time.Second,
		transports.MultiAttemptSink(recorder, deliveryStats),
		logger,
	)
	batcher := batchers.NewBatcher(10, transport, nil, logger)
	tracker := trackers.NewTracker(testConfig(), batcher, recorder, nil, logger)

	source := samplers.NewSimulatedSource()
	tracker.Start(source, testContext())

	source.Emit(samplers.Event{Kind: samplers.EventLoadStart})
	source.Emit(samplers.Event{Kind: samplers.EventReady})
	source.Emit(samplers.Event{Kind: samplers.EventPlay})
	source.Advance(30 * time.Second)
	source.Emit(samplers.Event{Kind: samplers.EventEnded})

	tracker.Stop()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, payloads, 1)
	assert.Len(t, payloads[0].Events, 4)
	assert.Equal(t, 4, payloads[0].BatchSize)
	for _, event := range payloads[0].Events {
		assert.Equal(t, tracker.SessionID(), event.SessionID)
	}

	snapshot := tracker.Snapshot()
	assert.Len(t, snapshot.Metrics, 4)
	require.Len(t, snapshot.Requests, 1)
	require.NotNil(t, snapshot.Requests[0].StatusCode)
	assert.Equal(t, http.StatusNoContent, *snapshot.Requests[0].StatusCode)
	assert.Empty(t, snapshot.Requests[0].Error)

	summary := deliveryStats.Summary()
	assert.Equal(t, int64(1), summary.Attempts)
	assert.Equal(t, int64(0), summary.Failures)
	assert.Equal(t, float64(1), summary.SuccessRate)
}
