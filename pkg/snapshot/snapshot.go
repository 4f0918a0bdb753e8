// Package snapshot persists serialized world state between runs.
package snapshot

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Snapshot represents a point-in-time capture of world state.
type Snapshot struct {
	TickHeight uint64    `json:"tick_height"`
	Timestamp  time.Time `json:"timestamp"`
	InstanceID string    `json:"instance_id"` // ID of the process that took the snapshot
	Data       []byte    `json:"data"`
	Version    uint32    `json:"version"`
}

const CurrentVersion uint32 = 1

var ErrSnapshotNotFound = eris.New("snapshot not found")

// Storage provides persistence for world snapshots.
// Implementations handle atomic storage with automatic backup of previous snapshots.
type Storage interface {
	// Store saves the snapshot, atomically replacing any existing snapshot.
	// The previous snapshot should be preserved as backup if possible.
	Store(ctx context.Context, snapshot *Snapshot) error

	// Load retrieves the current snapshot.
	// Returns ErrSnapshotNotFound if no snapshot exists.
	Load(ctx context.Context) (*Snapshot, error)
}

// validate rejects snapshots this version can't restore.
func (s *Snapshot) validate() error {
	if s == nil {
		return eris.New("snapshot cannot be nil")
	}
	if s.Version != CurrentVersion {
		return eris.Errorf("unsupported snapshot version %d (want %d)", s.Version, CurrentVersion)
	}
	if len(s.Data) == 0 {
		return eris.New("snapshot data cannot be empty")
	}
	return nil
}

// StorageType defines the type of snapshot storage to use.
type StorageType uint8

const (
	StorageTypeUndefined StorageType = iota
	StorageTypeNop
	StorageTypeMemory
	StorageTypeRedis
)

const (
	nopStorageString       = "NOP"
	memoryStorageString    = "MEMORY"
	redisStorageString     = "REDIS"
	undefinedStorageString = "UNDEFINED"
)

func (s StorageType) String() string {
	switch s {
	case StorageTypeUndefined:
		return undefinedStorageString
	case StorageTypeNop:
		return nopStorageString
	case StorageTypeMemory:
		return memoryStorageString
	case StorageTypeRedis:
		return redisStorageString
	default:
		return undefinedStorageString
	}
}

func (s StorageType) IsValid() bool {
	return s == StorageTypeNop || s == StorageTypeMemory || s == StorageTypeRedis
}

func ParseStorageType(s string) (StorageType, error) {
	switch strings.ToUpper(s) {
	case nopStorageString:
		return StorageTypeNop, nil
	case memoryStorageString:
		return StorageTypeMemory, nil
	case redisStorageString:
		return StorageTypeRedis, nil
	default:
		return StorageTypeUndefined, eris.Errorf("invalid snapshot storage type: %s", s)
	}
}
