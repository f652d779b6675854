// Package batchers decouples record production rate from delivery rate: an
// in-memory FIFO flushed when a size threshold is hit or when the tracker's
// interval timer fires, with failed batches requeued at the front.
package batchers

import (
	"context"
	"sync"
	"time"

	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/models"
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/shared/loggers"
)

const (
	triggerSize     = "size"
	triggerInterval = "interval"
	triggerFinal    = "final"
)

// FlushSink receives one batch per delivery attempt. A nil return means the
// batch is delivered; any error means the exact batch will be requeued at the
// front of the queue. Implementations must never be handed a shared slice
// they cannot own for the duration of the attempt.
//
//go:generate mockgen -source=batcher.go -destination=./mocks/flush_sink_mock.go -package=mocks
type FlushSink interface {
	Deliver(ctx context.Context, batch []models.MetricRecord) error
}

// Batcher is safe for concurrent use. At most one flush is in flight at a
// time; a flush triggered while another is in flight is a no-op and the
// pending records simply wait for the next trigger. Enqueue never blocks on
// an in-flight delivery.
type Batcher struct {
	mu        sync.Mutex
	queue     []models.MetricRecord
	inFlight  bool
	notBefore time.Time
	attempts  int // consecutive failed deliveries of the current queue head

	batchSize int
	sink      FlushSink
	retry     *RetryPolicy
	backoff   *Backoff

	wg     sync.WaitGroup
	logger loggers.Logger
}

// NewBatcher creates a batcher flushing to sink whenever the queue reaches
// batchSize. retry may be nil, which preserves the default requeue-forever
// behavior.
func NewBatcher(batchSize int, sink FlushSink, retry *RetryPolicy, logger loggers.Logger) *Batcher {
	b := &Batcher{
		batchSize: batchSize,
		sink:      sink,
		retry:     retry,
		logger:    logger,
	}
	if retry != nil && retry.Enabled {
		b.backoff = NewBackoff(retry.BackoffConfig())
	}
	return b
}

// Enqueue appends one record to the queue and immediately triggers a flush
// when the queue has reached the batch size.
func (b *Batcher) Enqueue(record models.MetricRecord) {
	b.mu.Lock()
	b.queue = append(b.queue, record)
	reachedThreshold := len(b.queue) >= b.batchSize
	b.mu.Unlock()

	metricRecordsEnqueuedTotal.Inc()

	if reachedThreshold {
		b.flush(context.Background(), triggerSize)
	}
}

// Flush is the interval-timer trigger: it hands whatever is currently queued,
// even a partial batch, to the sink. An empty queue or an in-flight flush
// makes it a no-op.
func (b *Batcher) Flush(ctx context.Context) {
	b.flush(ctx, triggerInterval)
}

// FlushSync waits for any in-flight delivery, then performs one synchronous
// flush of the remaining queue. Used on the stop path.
func (b *Batcher) FlushSync(ctx context.Context) {
	b.wg.Wait()

	batch := b.take(true)
	if batch == nil {
		return
	}
	metricFlushesTotal.WithLabelValues(triggerFinal).Inc()
	b.deliver(ctx, batch)
}

// Len returns the number of records currently queued.
func (b *Batcher) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.queue)
}

// Wait blocks until any in-flight delivery has completed. Test hook.
func (b *Batcher) Wait() {
	b.wg.Wait()
}

func (b *Batcher) flush(ctx context.Context, trigger string) {
	batch := b.take(false)
	if batch == nil {
		return
	}
	metricFlushesTotal.WithLabelValues(trigger).Inc()

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.deliver(ctx, batch)
	}()
}

// take snapshots and empties the queue under the single-flight guard. It
// returns nil when there is nothing to flush, a flush is already in flight,
// or (unless final) a backoff window is still open.
func (b *Batcher) take(final bool) []models.MetricRecord {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.inFlight || len(b.queue) == 0 {
		return nil
	}
	if !final && time.Now().Before(b.notBefore) {
		return nil
	}

	batch := b.queue
	b.queue = nil
	b.inFlight = true
	return batch
}

func (b *Batcher) deliver(ctx context.Context, batch []models.MetricRecord) {
	err := b.sink.Deliver(ctx, batch)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.inFlight = false

	if err == nil {
		b.attempts = 0
		b.notBefore = time.Time{}
		if b.backoff != nil {
			b.backoff.Reset()
		}
		metricRecordsDeliveredTotal.Add(float64(len(batch)))
		return
	}

	b.attempts++
	b.logger.Warn().
		Err(err).
		Int(loggers.FieldBatchSize, len(batch)).
		Msg("delivery failed, requeueing batch at queue head")

	if b.retry != nil && b.retry.Enabled && b.retry.MaxAttempts > 0 && b.attempts >= b.retry.MaxAttempts {
		b.attempts = 0
		metricBatchesDroppedTotal.Inc()
		b.logger.Error().
			Int(loggers.FieldBatchSize, len(batch)).
			Msgf("batch dropped after %d failed delivery attempts", b.retry.MaxAttempts)
		return
	}

	if b.backoff != nil {
		b.notBefore = time.Now().Add(b.backoff.Next())
	}

	// Front of the queue, original order, ahead of anything enqueued while
	// the delivery was in flight.
	requeued := make([]models.MetricRecord, 0, len(batch)+len(b.queue))
	requeued = append(requeued, batch...)
	requeued = append(requeued, b.queue...)
	b.queue = requeued
	metricRecordsRequeuedTotal.Add(float64(len(batch)))
}
