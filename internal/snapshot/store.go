package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/atelierhub/sheetmirror/internal/logger"
	"github.com/atelierhub/sheetmirror/internal/utils"
)

// ErrPersist marks a failed durable write. The in-memory snapshot held by
// the store is still updated, so the running process keeps its fallback.
var ErrPersist = errors.New("snapshot persist failed")

type Store interface {
	Reader

	// Write installs snap as the current snapshot and persists it atomically.
	// A returned ErrPersist means disk failed but the hot copy is in place.
	Write(ctx context.Context, snap Snapshot) error
}

// FSStore keeps the current snapshot in memory and mirrors it to one JSON
// file, written via tmp+rename so readers never observe a partial document.
type FSStore struct {
	path string

	mu     sync.RWMutex
	cur    Snapshot
	loaded bool
}

func NewFSStore(path string) (*FSStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	s := &FSStore{path: path}
	s.loadFromDisk() // best-effort at boot
	return s, nil
}

// Current returns the latest snapshot, hot copy first.
func (s *FSStore) Current() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur, s.loaded
}

func (s *FSStore) Write(ctx context.Context, snap Snapshot) error {
	s.mu.Lock()
	s.cur = snap
	s.loaded = true
	s.mu.Unlock()

	if err := utils.WriteJSONAtomic(s.path, snap); err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	logger.Debug("snapshot persisted to %s (%d tables)", s.path, len(snap.Tables))
	return nil
}

func (s *FSStore) loadFromDisk() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("failed to read snapshot at %s: %v", s.path, err)
		}
		return
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		logger.Warn("corrupt snapshot at %s (will rebuild on next sync): %v", s.path, err)
		return
	}

	s.mu.Lock()
	s.cur = snap
	s.loaded = true
	s.mu.Unlock()
	logger.Debug("loaded snapshot from disk (%d tables, captured %s)", len(snap.Tables), snap.CapturedAt)
}
