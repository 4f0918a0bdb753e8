package snapshot

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSnapshot(tick uint64, data string) *Snapshot {
	return &Snapshot{
		TickHeight: tick,
		Timestamp:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		InstanceID: "instance",
		Data:       []byte(data),
		Version:    CurrentVersion,
	}
}

func newRedisStorage(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()

	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	storage, err := NewRedisStorage(client, "fonts")
	require.NoError(t, err)
	return storage, s
}

func TestParseStorageType(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input   string
		want    StorageType
		wantErr bool
	}{
		{input: "NOP", want: StorageTypeNop},
		{input: "memory", want: StorageTypeMemory},
		{input: "Redis", want: StorageTypeRedis},
		{input: "jetstream", want: StorageTypeUndefined, wantErr: true},
		{input: "", want: StorageTypeUndefined, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseStorageType(tc.input)
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.True(t, got.IsValid())
			}
			assert.Equal(t, tc.want, got)
		})
	}

	assert.Equal(t, "REDIS", StorageTypeRedis.String())
	assert.Equal(t, "UNDEFINED", StorageType(42).String())
}

func TestNopStorage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage := NewNopStorage()
	require.NoError(t, storage.Store(ctx, newSnapshot(1, "{}")))

	_, err := storage.Load(ctx)
	require.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestStorage_StoreLoadWithBackup(t *testing.T) {
	t.Parallel()

	type backupStorage interface {
		Storage
		LoadBackup(ctx context.Context) (*Snapshot, error)
	}

	testCases := []struct {
		name  string
		setup func(t *testing.T) backupStorage
	}{
		{
			name:  "memory",
			setup: func(*testing.T) backupStorage { return NewMemoryStorage() },
		},
		{
			name: "redis",
			setup: func(t *testing.T) backupStorage {
				storage, _ := newRedisStorage(t)
				return storage
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			storage := tc.setup(t)

			_, err := storage.Load(ctx)
			require.ErrorIs(t, err, ErrSnapshotNotFound)
			_, err = storage.LoadBackup(ctx)
			require.ErrorIs(t, err, ErrSnapshotNotFound)

			first := newSnapshot(10, `{"tick":10}`)
			require.NoError(t, storage.Store(ctx, first))

			loaded, err := storage.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, first, loaded)

			second := newSnapshot(20, `{"tick":20}`)
			require.NoError(t, storage.Store(ctx, second))

			loaded, err = storage.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, second, loaded)

			backup, err := storage.LoadBackup(ctx)
			require.NoError(t, err)
			assert.Equal(t, first, backup)
		})
	}
}

func TestStorage_RejectsInvalidSnapshots(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	redisStorage, _ := newRedisStorage(t)

	for _, storage := range []Storage{NewMemoryStorage(), redisStorage} {
		require.Error(t, storage.Store(ctx, nil))

		wrongVersion := newSnapshot(1, "{}")
		wrongVersion.Version = CurrentVersion + 1
		require.Error(t, storage.Store(ctx, wrongVersion))

		require.Error(t, storage.Store(ctx, newSnapshot(1, "")))
	}
}

func TestMemoryStorage_CopiesData(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage := NewMemoryStorage()

	snap := newSnapshot(1, "abc")
	require.NoError(t, storage.Store(ctx, snap))
	snap.Data[0] = 'x'

	loaded, err := storage.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(loaded.Data))
}

func TestRedisStorage_Keys(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage, server := newRedisStorage(t)

	require.NoError(t, storage.Store(ctx, newSnapshot(1, "{}")))
	assert.True(t, server.Exists("fonts:SNAPSHOT"))
	assert.False(t, server.Exists("fonts:SNAPSHOT-BACKUP"))

	require.NoError(t, storage.Store(ctx, newSnapshot(2, "{}")))
	assert.True(t, server.Exists("fonts:SNAPSHOT-BACKUP"))

	server.Set("fonts:SNAPSHOT", "not json")
	_, err := storage.Load(ctx)
	require.Error(t, err)

	_, err = NewRedisStorage(nil, "fonts")
	require.Error(t, err)
}
