package snapshot

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
)

const (
	snapshotKey       = "SNAPSHOT"
	snapshotBackupKey = "SNAPSHOT-BACKUP"
)

// RedisStorage stores snapshots as JSON in Redis. The current snapshot lives under
// "<namespace>:SNAPSHOT" and the previous one under "<namespace>:SNAPSHOT-BACKUP".
type RedisStorage struct {
	client    redis.Cmdable
	namespace string
}

var _ Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a Redis-backed snapshot storage. Namespaces let several worlds share a
// Redis instance.
func NewRedisStorage(client redis.Cmdable, namespace string) (*RedisStorage, error) {
	if client == nil {
		return nil, eris.New("redis client cannot be nil")
	}
	if namespace == "" {
		return nil, eris.New("namespace cannot be empty")
	}
	return &RedisStorage{client: client, namespace: namespace}, nil
}

func (r *RedisStorage) key(name string) string {
	return r.namespace + ":" + name
}

// Store writes the snapshot and moves the previous one to the backup key in a single MULTI/EXEC
// transaction.
func (r *RedisStorage) Store(ctx context.Context, snapshot *Snapshot) error {
	if err := snapshot.validate(); err != nil {
		return eris.Wrap(err, "invalid snapshot")
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return eris.Wrap(err, "failed to marshal snapshot")
	}

	previous, err := r.client.Get(ctx, r.key(snapshotKey)).Bytes()
	if err != nil && !eris.Is(err, redis.Nil) {
		return eris.Wrap(err, "failed to read current snapshot")
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if previous != nil {
			pipe.Set(ctx, r.key(snapshotBackupKey), previous, 0)
		}
		pipe.Set(ctx, r.key(snapshotKey), data, 0)
		return nil
	})
	if err != nil {
		return eris.Wrap(err, "failed to store snapshot")
	}
	return nil
}

func (r *RedisStorage) Load(ctx context.Context) (*Snapshot, error) {
	return r.load(ctx, snapshotKey)
}

// LoadBackup returns the snapshot stored before the current one.
func (r *RedisStorage) LoadBackup(ctx context.Context) (*Snapshot, error) {
	return r.load(ctx, snapshotBackupKey)
}

func (r *RedisStorage) load(ctx context.Context, name string) (*Snapshot, error) {
	data, err := r.client.Get(ctx, r.key(name)).Bytes()
	if eris.Is(err, redis.Nil) {
		return nil, eris.Wrapf(ErrSnapshotNotFound, "key %s", r.key(name))
	}
	if err != nil {
		return nil, eris.Wrapf(err, "failed to read %s", r.key(name))
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, eris.Wrap(err, "failed to unmarshal snapshot")
	}
	return &snapshot, nil
}
