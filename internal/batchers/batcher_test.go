package batchers_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/batchers"
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/batchers/mocks"
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// captureSink records every delivered batch and can be told to fail or to
// block until released.
type captureSink struct {
	mu        sync.Mutex
	batches   [][]models.MetricRecord
	failN     int // fail the first N deliveries
	block     chan struct{}
	started   chan struct{}
	startOnce sync.Once
}

func (s *captureSink) Deliver(ctx context.Context, batch []models.MetricRecord) error {
	if s.started != nil {
		s.startOnce.Do(func() { close(s.started) })
	}
	if s.block != nil {
		<-s.block
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, batch)
	if s.failN > 0 {
		s.failN--
		return errors.New("sink unavailable")
	}
	return nil
}

func (s *captureSink) deliveredBatches() [][]models.MetricRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]models.MetricRecord, len(s.batches))
	copy(out, s.batches)
	return out
}

func record(i int) models.MetricRecord {
	return models.MetricRecord{
		SessionID: "sess-1",
		Timestamp: time.Now().UTC(),
		SegmentID: fmt.Sprintf("seg-%d", i),
	}
}

func TestEnqueue_BatchSizeTriggersExactlyOneFlush(t *testing.T) {
	t.Parallel()

	sink := &captureSink{}
	batcher := batchers.NewBatcher(10, sink, nil, zerolog.Nop())

	for i := 0; i < 10; i++ {
		batcher.Enqueue(record(i))
	}
	batcher.Wait()

	batches := sink.deliveredBatches()
	require.Len(t, batches, 1)
	assert.Len(t, batches[0], 10)
	assert.Zero(t, batcher.Len(), "queue must be empty immediately after the flush")
}

func TestEnqueue_BelowThreshold_NoFlushUntilTimer(t *testing.T) {
	t.Parallel()

	sink := &captureSink{}
	batcher := batchers.NewBatcher(10, sink, nil, zerolog.Nop())

	for i := 0; i < 3; i++ {
		batcher.Enqueue(record(i))
	}
	batcher.Wait()

	assert.Empty(t, sink.deliveredBatches(), "no flush before the interval trigger")
	assert.Equal(t, 3, batcher.Len())

	// The interval trigger hands over exactly the 3 queued records.
	batcher.Flush(context.Background())
	batcher.Wait()

	batches := sink.deliveredBatches()
	require.Len(t, batches, 1)
	assert.Len(t, batches[0], 3)
	assert.Zero(t, batcher.Len())
}

func TestFlush_EmptyQueue_NoOp(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sink := mocks.NewMockFlushSink(ctrl)
	batcher := batchers.NewBatcher(10, sink, nil, zerolog.Nop())

	// No Deliver expectation: flushing zero records must not reach the sink.
	batcher.Flush(context.Background())
	batcher.FlushSync(context.Background())
}

func TestDeliver_FailureRequeuesAtFrontInOriginalOrder(t *testing.T) {
	t.Parallel()

	sink := &captureSink{failN: 1}
	batcher := batchers.NewBatcher(3, sink, nil, zerolog.Nop())

	for i := 0; i < 3; i++ {
		batcher.Enqueue(record(i))
	}
	batcher.Wait()
	require.Len(t, sink.deliveredBatches(), 1, "first delivery attempted and failed")
	assert.Equal(t, 3, batcher.Len(), "failed batch back in the queue")

	// A later record lands behind the requeued batch.
	batcher.Enqueue(record(99))
	batcher.Wait()

	batches := sink.deliveredBatches()
	require.Len(t, batches, 2)
	retried := batches[1]
	require.Len(t, retried, 4)
	assert.Equal(t, "seg-0", retried[0].SegmentID)
	assert.Equal(t, "seg-1", retried[1].SegmentID)
	assert.Equal(t, "seg-2", retried[2].SegmentID)
	assert.Equal(t, "seg-99", retried[3].SegmentID)
}

func TestFlush_SingleFlightWhileDeliveryInFlight(t *testing.T) {
	t.Parallel()

	sink := &captureSink{block: make(chan struct{}), started: make(chan struct{})}
	batcher := batchers.NewBatcher(2, sink, nil, zerolog.Nop())

	batcher.Enqueue(record(0))
	batcher.Enqueue(record(1)) // takes the batch, delivery blocks
	<-sink.started

	// Records arriving during the in-flight flush append to the now-empty
	// queue; further triggers are no-ops until the delivery returns.
	batcher.Enqueue(record(2))
	batcher.Enqueue(record(3))
	batcher.Flush(context.Background())
	assert.Equal(t, 2, batcher.Len())

	close(sink.block)
	batcher.Wait()

	batches := sink.deliveredBatches()
	require.Len(t, batches, 1)
	assert.Len(t, batches[0], 2)
	assert.Equal(t, 2, batcher.Len(), "pending records wait for the next trigger")
}

func TestEnqueue_NeverBlocksOnInFlightDelivery(t *testing.T) {
	t.Parallel()

	sink := &captureSink{block: make(chan struct{})}
	batcher := batchers.NewBatcher(1, sink, nil, zerolog.Nop())

	batcher.Enqueue(record(0)) // in flight, blocked

	done := make(chan struct{})
	go func() {
		for i := 1; i <= 50; i++ {
			batcher.Enqueue(record(i))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("enqueue blocked on an in-flight delivery")
	}

	close(sink.block)
	batcher.Wait()
}

func TestFlushSync_DrainsRemainingRecords(t *testing.T) {
	t.Parallel()

	sink := &captureSink{}
	batcher := batchers.NewBatcher(10, sink, nil, zerolog.Nop())

	batcher.Enqueue(record(0))
	batcher.Enqueue(record(1))

	batcher.FlushSync(context.Background())

	batches := sink.deliveredBatches()
	require.Len(t, batches, 1)
	assert.Len(t, batches[0], 2)
	assert.Zero(t, batcher.Len())
}

func TestRetryPolicy_DropsBatchAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	sink := &captureSink{failN: 2}
	retry := &batchers.RetryPolicy{
		Enabled:        true,
		MaxAttempts:    2,
		BackoffInitial: time.Nanosecond,
		BackoffMax:     time.Nanosecond,
	}
	batcher := batchers.NewBatcher(2, sink, retry, zerolog.Nop())

	batcher.Enqueue(record(0))
	batcher.Enqueue(record(1))
	batcher.Wait()
	require.Equal(t, 2, batcher.Len(), "first failure requeues")

	time.Sleep(5 * time.Millisecond) // let the backoff window pass
	batcher.Flush(context.Background())
	batcher.Wait()

	assert.Zero(t, batcher.Len(), "second failure hits the cap and drops the batch")
	assert.Len(t, sink.deliveredBatches(), 2)
}

func TestRetryPolicy_BackoffDelaysNextFlush(t *testing.T) {
	t.Parallel()

	sink := &captureSink{failN: 1}
	retry := &batchers.RetryPolicy{
		Enabled:        true,
		BackoffInitial: time.Hour,
		BackoffMax:     time.Hour,
	}
	batcher := batchers.NewBatcher(1, sink, retry, zerolog.Nop())

	batcher.Enqueue(record(0))
	batcher.Wait()
	require.Equal(t, 1, batcher.Len())

	// Inside the backoff window the interval trigger is a no-op.
	batcher.Flush(context.Background())
	batcher.Wait()
	assert.Len(t, sink.deliveredBatches(), 1)

	// The final flush bypasses the window.
	batcher.FlushSync(context.Background())
	assert.Len(t, sink.deliveredBatches(), 2)
	assert.Zero(t, batcher.Len())
}

func TestBackoff_GrowsAndCaps(t *testing.T) {
	t.Parallel()

	backoff := batchers.NewBackoff(batchers.BackoffConfig{
		Initial:    100 * time.Millisecond,
		Max:        time.Second,
		Multiplier: 2,
	})

	first := backoff.Next()
	second := backoff.Next()
	assert.Equal(t, 100*time.Millisecond, first)
	assert.Equal(t, 200*time.Millisecond, second)

	for i := 0; i < 10; i++ {
		backoff.Next()
	}
	assert.Equal(t, time.Second, backoff.Next(), "delay capped at max")

	backoff.Reset()
	assert.Equal(t, 100*time.Millisecond, backoff.Next())
}

func TestBackoff_JitterStaysWithinBounds(t *testing.T) {
	t.Parallel()

	backoff := batchers.NewBackoff(batchers.BackoffConfig{
		Initial:    100 * time.Millisecond,
		Max:        time.Second,
		Multiplier: 2,
		JitterPct:  0.4,
	})

	delay := backoff.Next()
	assert.GreaterOrEqual(t, delay, 80*time.Millisecond)
	assert.LessOrEqual(t, delay, 120*time.Millisecond)
}
