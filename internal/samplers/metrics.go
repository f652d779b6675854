package samplers

import (
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/shared/metrics"
)

var (
	metricRecordsProducedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubSampler,
			Name:      "records_produced_total",
		},
		[]string{"kind"},
	)
)
