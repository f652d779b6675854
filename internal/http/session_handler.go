package http

import (
	"errors"
	"net/http"

	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/models"
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/stores"

	"github.com/go-chi/chi/v5"
)

type AppHttpHandler interface {
	Handle(w http.ResponseWriter, r *http.Request) error
}

// SnapshotProvider exposes the active session's state for export.
type SnapshotProvider interface {
	Snapshot() *models.SessionSnapshot
}

type currentSessionHandler struct {
	provider SnapshotProvider
}

// NewCurrentSessionHandler serves GET /session.
func NewCurrentSessionHandler(provider SnapshotProvider) AppHttpHandler {
	return &currentSessionHandler{
		provider: provider,
	}
}

func (h *currentSessionHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	snapshot := h.provider.Snapshot()
	if snapshot == nil {
		return errNoActiveSession()
	}

	writeJSONResponse(w, http.StatusOK, snapshot)
	return nil
}

type storedSessionHandler struct {
	sessionStore stores.SessionStore
}

// NewStoredSessionHandler serves GET /sessions/{sessionID}.
func NewStoredSessionHandler(sessionStore stores.SessionStore) AppHttpHandler {
	return &storedSessionHandler{
		sessionStore: sessionStore,
	}
}

func (h *storedSessionHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	sessionID := chi.URLParam(r, "sessionID")

	snapshot, err := h.sessionStore.Get(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, stores.ErrSessionNotFound) {
			return errSessionNotFound(sessionID, err)
		}
		return errSessionLookupFailed(err)
	}

	writeJSONResponse(w, http.StatusOK, snapshot)
	return nil
}

// SessionListResponse lists the ids of all persisted sessions.
type SessionListResponse struct {
	Sessions []string `json:"sessions"`
}

type sessionListHandler struct {
	sessionStore stores.SessionStore
}

// NewSessionListHandler serves GET /sessions.
func NewSessionListHandler(sessionStore stores.SessionStore) AppHttpHandler {
	return &sessionListHandler{
		sessionStore: sessionStore,
	}
}

func (h *sessionListHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	ids, err := h.sessionStore.List(r.Context())
	if err != nil {
		return errSessionLookupFailed(err)
	}
	if ids == nil {
		ids = []string{}
	}

	writeJSONResponse(w, http.StatusOK, SessionListResponse{Sessions: ids})
	return nil
}
