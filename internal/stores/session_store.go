// Package stores persists finalized session snapshots as JSON blobs for the
// export surface to read back.
package stores

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/models"
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/shared/filestorages"
)

var (
	ErrSessionNotFound = errors.New("session not found")
)

//go:generate mockgen -source=session_store.go -destination=./mocks/session_store_mock.go -package=mocks
type SessionStore interface {
	// Put writes the snapshot, replacing any previous snapshot of the same
	// session.
	Put(ctx context.Context, snapshot *models.SessionSnapshot) error
	// Get reads a snapshot back by session id.
	Get(ctx context.Context, id string) (*models.SessionSnapshot, error)
	// List returns the ids of all persisted sessions in lexicographic order.
	List(ctx context.Context) ([]string, error)
}

type sessionStore struct {
	fileStorage filestorages.FileStorage
	dir         string
}

func NewSessionStore(fileStorage filestorages.FileStorage) SessionStore {
	return &sessionStore{fileStorage: fileStorage, dir: "sessions"}
}

func (s *sessionStore) Put(ctx context.Context, snapshot *models.SessionSnapshot) error {
	jsonData, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal session snapshot: %w", err)
	}

	key := s.key(snapshot.ID)
	if _, err := s.fileStorage.Put(ctx, key, bytes.NewReader(jsonData)); err != nil {
		return fmt.Errorf("failed to put session snapshot: %w", err)
	}
	return nil
}

func (s *sessionStore) Get(ctx context.Context, id string) (*models.SessionSnapshot, error) {
	reader, err := s.fileStorage.Get(ctx, s.key(id))
	if err != nil {
		if errors.Is(err, filestorages.ErrFileNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session snapshot: %w", err)
	}
	defer func() { _ = reader.Close() }()

	var snapshot models.SessionSnapshot
	if err := json.NewDecoder(reader).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode session snapshot: %w", err)
	}
	return &snapshot, nil
}

func (s *sessionStore) List(ctx context.Context) ([]string, error) {
	keys, err := s.fileStorage.List(ctx, s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list session snapshots: %w", err)
	}

	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		name := strings.TrimPrefix(key, s.dir+"/")
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}

func (s *sessionStore) key(id string) string {
	return fmt.Sprintf("%s/%s.json", s.dir, id)
}
