package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/jonathan/interview-partner/internal/types"
)

// FileStore keeps one JSON document per session in a directory.
type FileStore struct {
	dir    string
	mu     sync.RWMutex
	logger *zap.Logger
}

// NewFileStore creates dir if needed and returns a store rooted there.
func NewFileStore(dir string, logger *zap.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create session directory %s: %w", dir, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{dir: dir, logger: logger}, nil
}

func (f *FileStore) path(id string) string {
	return filepath.Join(f.dir, id+".json")
}

// Load reads a session.
func (f *FileStore) Load(_ context.Context, id string) (*types.Session, error) {
	if !ValidID(id) {
		return nil, ErrNotFound
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := os.ReadFile(f.path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read session %s: %w", id, err)
	}

	var s types.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", id, err)
	}
	return &s, nil
}

// Save writes a session atomically: a temp file in the same directory is renamed over the target.
func (f *FileStore) Save(_ context.Context, s *types.Session) error {
	if s == nil || !ValidID(s.ID) {
		return fmt.Errorf("invalid session id")
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", s.ID, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(f.dir, s.ID+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write session %s: %w", s.ID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.path(s.ID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace session %s: %w", s.ID, err)
	}
	return nil
}

// Delete removes a session file.
func (f *FileStore) Delete(_ context.Context, id string) error {
	if !ValidID(id) {
		return ErrNotFound
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path(id)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	return nil
}

// List returns every readable session. Corrupt files are logged and skipped.
func (f *FileStore) List(ctx context.Context) ([]*types.Session, error) {
	f.mu.RLock()
	entries, err := os.ReadDir(f.dir)
	f.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	sessions := make([]*types.Session, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		s, err := f.Load(ctx, strings.TrimSuffix(name, ".json"))
		if err != nil {
			f.logger.Warn("skipping unreadable session file", zap.String("file", name), zap.Error(err))
			continue
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

// Close is a no-op for the file store.
func (f *FileStore) Close() error { return nil }
