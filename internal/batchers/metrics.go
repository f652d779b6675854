package batchers

import (
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/shared/metrics"
)

var (
	metricRecordsEnqueuedTotal = metrics.NewCounter(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubBatcher,
			Name:      "records_enqueued_total",
		},
	)

	metricFlushesTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubBatcher,
			Name:      "flushes_total",
		},
		[]string{"trigger"},
	)

	metricRecordsDeliveredTotal = metrics.NewCounter(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubBatcher,
			Name:      "records_delivered_total",
		},
	)

	metricRecordsRequeuedTotal = metrics.NewCounter(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubBatcher,
			Name:      "records_requeued_total",
		},
	)

	metricBatchesDroppedTotal = metrics.NewCounter(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubBatcher,
			Name:      "batches_dropped_total",
		},
	)
)
