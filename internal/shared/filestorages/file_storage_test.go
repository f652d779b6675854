package filestorages

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) FileStorage {
	t.Helper()

	storage, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)
	return storage
}

func readAll(t *testing.T, rc io.ReadCloser) string {
	t.Helper()

	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(data)
}

func TestNewFileStorage_EmptyRootDir(t *testing.T) {
	t.Parallel()

	_, err := NewFileStorage("")
	assert.ErrorIs(t, err, ErrInvalidRootDir)
}

func TestFileStorage_PutGetRoundTrip(t *testing.T) {
	t.Parallel()

	storage := newTestStorage(t)
	ctx := context.Background()

	result, err := storage.Put(ctx, "sessions/01HAAA.json", strings.NewReader(`{"id":"01HAAA"}`))
	require.NoError(t, err)
	assert.Equal(t, "sessions/01HAAA.json", result.FileKey)

	rc, err := storage.Get(ctx, "sessions/01HAAA.json")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"01HAAA"}`, readAll(t, rc))
}

func TestFileStorage_PutOverwrites(t *testing.T) {
	t.Parallel()

	storage := newTestStorage(t)
	ctx := context.Background()

	_, err := storage.Put(ctx, "sessions/01HAAA.json", strings.NewReader("first"))
	require.NoError(t, err)
	_, err = storage.Put(ctx, "sessions/01HAAA.json", strings.NewReader("second"))
	require.NoError(t, err)

	rc, err := storage.Get(ctx, "sessions/01HAAA.json")
	require.NoError(t, err)
	assert.Equal(t, "second", readAll(t, rc))
}

func TestFileStorage_GetNotFound(t *testing.T) {
	t.Parallel()

	storage := newTestStorage(t)

	_, err := storage.Get(context.Background(), "sessions/missing.json")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestFileStorage_List(t *testing.T) {
	t.Parallel()

	storage := newTestStorage(t)
	ctx := context.Background()

	for _, key := range []string{"sessions/01HCCC.json", "sessions/01HAAA.json", "sessions/01HBBB.json", "other/x.json"} {
		_, err := storage.Put(ctx, key, strings.NewReader("{}"))
		require.NoError(t, err)
	}

	keys, err := storage.List(ctx, "sessions/")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"sessions/01HAAA.json",
		"sessions/01HBBB.json",
		"sessions/01HCCC.json",
	}, keys)
}

func TestFileStorage_ListEmptyPrefix(t *testing.T) {
	t.Parallel()

	storage := newTestStorage(t)

	keys, err := storage.List(context.Background(), "sessions/")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestFileStorage_InvalidKeys(t *testing.T) {
	t.Parallel()

	storage := newTestStorage(t)
	ctx := context.Background()

	invalidKeys := []string{
		"",
		"../escape.json",
		"sessions/../../escape.json",
		"/absolute/path.json",
	}

	for _, key := range invalidKeys {
		_, err := storage.Put(ctx, key, strings.NewReader("{}"))
		assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
	}
}
