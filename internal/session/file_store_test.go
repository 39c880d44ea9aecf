package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-partner/internal/types"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "sessions"), nil)
	require.NoError(t, err)
	return store
}

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestFileStore(t)

	s := &types.Session{
		ID:          "session_abc123def456",
		Role:        "Backend Engineer",
		Status:      types.StatusInProgress,
		Questions:   []types.Question{{ID: 1, Question: "Tell me about yourself."}},
		LastUpdated: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.Role, got.Role)
	assert.Equal(t, s.Questions, got.Questions)
	assert.True(t, s.LastUpdated.Equal(got.LastUpdated))

	s.Role = "Data Engineer"
	require.NoError(t, store.Save(ctx, s))
	got, err = store.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Data Engineer", got.Role)

	entries, err := os.ReadDir(store.dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files should be left behind")
}

func TestFileStore_NotFound(t *testing.T) {
	ctx := context.Background()
	store := newTestFileStore(t)

	_, err := store.Load(ctx, "session_missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	err = store.Delete(ctx, "session_missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFileStore_RejectsPathTraversal(t *testing.T) {
	ctx := context.Background()
	store := newTestFileStore(t)

	_, err := store.Load(ctx, "../../etc/passwd")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Error(t, store.Save(ctx, &types.Session{ID: "../evil"}))
}

func TestFileStore_ListSkipsCorruptFiles(t *testing.T) {
	ctx := context.Background()
	store := newTestFileStore(t)

	require.NoError(t, store.Save(ctx, &types.Session{ID: "session_one"}))
	require.NoError(t, store.Save(ctx, &types.Session{ID: "session_two"}))
	require.NoError(t, os.WriteFile(filepath.Join(store.dir, "session_bad.json"), []byte("{not json"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(store.dir, "notes.txt"), []byte("ignore me"), 0o644))

	sessions, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)

	require.NoError(t, store.Delete(ctx, "session_one"))
	sessions, err = store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestValidID(t *testing.T) {
	assert.True(t, ValidID("session_0123456789ab"))
	assert.True(t, ValidID(NewID()))
	assert.False(t, ValidID(""))
	assert.False(t, ValidID("a/b"))
	assert.False(t, ValidID("session.json"))
}
