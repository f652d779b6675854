package http

import (
	"net/http"

	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/shared/loggers"
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/shared/metrics"
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/stats"
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/stores"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates and configures the HTTP router for the export surface.
func NewRouter(
	provider SnapshotProvider,
	sessionStore stores.SessionStore,
	deliveryStats *stats.DeliveryStats,
	queue QueueLener,
	httpLogger loggers.Logger,
) http.Handler {
	router := chi.NewRouter()
	setupMiddleware(router, httpLogger)

	currentSessionHandler := NewCurrentSessionHandler(provider)
	storedSessionHandler := NewStoredSessionHandler(sessionStore)
	sessionListHandler := NewSessionListHandler(sessionStore)
	statsHandler := NewStatsHandler(deliveryStats, queue)

	// Routes
	router.Get("/session", errorHandlingAdapter(currentSessionHandler))
	router.Get("/sessions", errorHandlingAdapter(sessionListHandler))
	router.Get("/sessions/{sessionID}", errorHandlingAdapter(storedSessionHandler))
	router.Get("/stats", errorHandlingAdapter(statsHandler))
	router.Get("/metrics", metrics.PromHTTP.Handler().ServeHTTP)

	return router
}
