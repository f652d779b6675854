package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/models"
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticQueue struct {
	length int
}

func (q staticQueue) Len() int {
	return q.length
}

func TestStatsHandler_Success(t *testing.T) {
	t.Parallel()

	deliveryStats := stats.NewDeliveryStats()
	deliveryStats.ObserveAttempt(models.DeliveryAttempt{
		URL:            "https://collector.example/batch",
		ResponseTimeMs: models.Float(12),
	})
	deliveryStats.ObserveAttempt(models.DeliveryAttempt{
		URL:   "https://collector.example/batch",
		Error: "connection refused",
	})

	handler := NewStatsHandler(deliveryStats, staticQueue{length: 7})

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rr := httptest.NewRecorder()

	err := handler.Handle(rr, req)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)

	var got StatsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, int64(2), got.Delivery.Attempts)
	assert.Equal(t, int64(1), got.Delivery.Failures)
	assert.InDelta(t, 0.5, got.Delivery.SuccessRate, 1e-9)
	assert.Equal(t, 7, got.QueuedRecords)
}

func TestStatsHandler_NoAttempts(t *testing.T) {
	t.Parallel()

	handler := NewStatsHandler(stats.NewDeliveryStats(), staticQueue{})

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rr := httptest.NewRecorder()

	err := handler.Handle(rr, req)

	require.NoError(t, err)

	var got StatsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, int64(0), got.Delivery.Attempts)
	assert.InDelta(t, 1.0, got.Delivery.SuccessRate, 1e-9)
	assert.Equal(t, 0, got.QueuedRecords)
}
