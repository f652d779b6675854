package transports

import (
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/shared/metrics"
)

var (
	metricDeliveriesTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubTransport,
			Name:      "deliveries_total",
		},
		[]string{"mode", metrics.FieldErrorCode},
	)

	metricDeliveryDuration = metrics.NewHistogramVec(
		metrics.HistogramOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubTransport,
			Name:      "delivery_duration_seconds",
			Buckets:   metrics.DefBuckets,
		},
		[]string{"mode"},
	)
)
