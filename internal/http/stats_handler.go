package http

import (
	"net/http"

	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/stats"
)

// QueueLener reports how many metric records are waiting for delivery.
type QueueLener interface {
	Len() int
}

// StatsResponse summarizes delivery health for operators.
type StatsResponse struct {
	Delivery      stats.Summary `json:"delivery"`
	QueuedRecords int           `json:"queuedRecords"`
}

type statsHandler struct {
	deliveryStats *stats.DeliveryStats
	queue         QueueLener
}

// NewStatsHandler serves GET /stats.
func NewStatsHandler(deliveryStats *stats.DeliveryStats, queue QueueLener) AppHttpHandler {
	return &statsHandler{
		deliveryStats: deliveryStats,
		queue:         queue,
	}
}

func (h *statsHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	writeJSONResponse(w, http.StatusOK, StatsResponse{
		Delivery:      h.deliveryStats.Summary(),
		QueuedRecords: h.queue.Len(),
	})
	return nil
}
