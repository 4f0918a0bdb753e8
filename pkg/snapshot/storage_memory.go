package snapshot

import (
	"bytes"
	"context"
	"sync"

	"github.com/rotisserie/eris"
)

// MemoryStorage keeps the latest snapshot and the one before it in process memory. Snapshots are
// copied on the way in and out.
type MemoryStorage struct {
	mu      sync.RWMutex
	current *Snapshot
	backup  *Snapshot
}

var _ Storage = (*MemoryStorage)(nil)

// NewMemoryStorage creates an empty in-memory snapshot storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Store(_ context.Context, snapshot *Snapshot) error {
	if err := snapshot.validate(); err != nil {
		return eris.Wrap(err, "invalid snapshot")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.backup = m.current
	m.current = clone(snapshot)
	return nil
}

func (m *MemoryStorage) Load(_ context.Context) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil {
		return nil, ErrSnapshotNotFound
	}
	return clone(m.current), nil
}

// LoadBackup returns the snapshot stored before the current one.
func (m *MemoryStorage) LoadBackup(_ context.Context) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.backup == nil {
		return nil, eris.Wrap(ErrSnapshotNotFound, "no backup snapshot")
	}
	return clone(m.backup), nil
}

func clone(s *Snapshot) *Snapshot {
	c := *s
	c.Data = bytes.Clone(s.Data)
	return &c
}
