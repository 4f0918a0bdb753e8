package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/argus-labs/reactive-font/pkg/ecs"
	"github.com/argus-labs/reactive-font/pkg/font"
	"github.com/argus-labs/reactive-font/pkg/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, opts Options) *App {
	t.Helper()

	if opts.TickRate == 0 {
		opts.TickRate = 1000
	}
	if opts.MaxTicks == 0 {
		opts.MaxTicks = 3
	}
	a, err := New(opts)
	require.NoError(t, err)
	return a
}

func spawnTitle(t *testing.T, a *App, key string) ecs.EntityID {
	t.Helper()

	var eid ecs.EntityID
	require.NoError(t, a.Update(func(w *ecs.World) error {
		var err error
		eid, err = font.SpawnText(w.State(), key, "Hello", font.Bold{})
		return err
	}))
	return eid
}

func TestApp_RunStopsAtMaxTicks(t *testing.T) {
	t.Parallel()

	storage := snapshot.NewMemoryStorage()
	a := newTestApp(t, Options{Storage: storage})
	require.NoError(t, a.Registry().Register("mono", font.Preset{Key: "mono", Regular: "mono.ttf", Bold: "mono-bold.ttf"}))
	eid := spawnTitle(t, a, "mono")

	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, uint64(3), a.World().TickHeight())

	textFont, err := ecs.Get[font.TextFont](a.World().State(), eid)
	require.NoError(t, err)
	assert.Equal(t, font.Handle("mono-bold.ttf"), textFont.Font)

	// The final snapshot is stored on shutdown.
	snap, err := storage.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(3), snap.TickHeight)
	assert.Equal(t, a.InstanceID(), snap.InstanceID)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	t.Parallel()

	a, err := New(Options{TickRate: 1000, Storage: snapshot.NewMemoryStorage()})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, a.Run(ctx))
}

func TestApp_SnapshotEvery(t *testing.T) {
	t.Parallel()

	storage := snapshot.NewMemoryStorage()
	a := newTestApp(t, Options{Storage: storage, SnapshotEvery: 2})

	ctx := context.Background()
	require.NoError(t, a.Tick(ctx))
	_, err := storage.Load(ctx)
	require.ErrorIs(t, err, snapshot.ErrSnapshotNotFound)

	require.NoError(t, a.Tick(ctx))
	snap, err := storage.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), snap.TickHeight)
}

func TestApp_RestoresSnapshot(t *testing.T) {
	t.Parallel()

	storage := snapshot.NewMemoryStorage()

	first := newTestApp(t, Options{Storage: storage})
	require.NoError(t, first.Registry().Register("mono", font.Preset{Key: "mono", Regular: "mono.ttf", Size: 20}))
	eid := spawnTitle(t, first, "mono")
	require.NoError(t, first.Run(context.Background()))

	// The second process knows the same key with a different size.
	second := newTestApp(t, Options{Storage: storage, MaxTicks: 1})
	require.NoError(t, second.Registry().Register("mono", font.Preset{Key: "mono", Regular: "mono.ttf", Size: 30}))
	require.NoError(t, second.Run(context.Background()))

	ws := second.World().State()
	assert.True(t, ecs.Alive(ws, eid))
	assert.Equal(t, uint64(4), second.World().TickHeight())
	assert.Equal(t, []ecs.EntityID{eid}, second.Registry().UsedBy("mono"))

	textFont, err := ecs.Get[font.TextFont](ws, eid)
	require.NoError(t, err)
	assert.InDelta(t, float32(30), textFont.Size, 0)
}

func TestApp_RestoreIgnoresBrokenSnapshot(t *testing.T) {
	t.Parallel()

	storage := snapshot.NewMemoryStorage()
	require.NoError(t, storage.Store(context.Background(), &snapshot.Snapshot{
		TickHeight: 10,
		Data:       []byte(`{"archetypes":[{"entities":[0],"columns":[{"component":"unknown","values":[{}]}]}]}`),
		Version:    snapshot.CurrentVersion,
	}))

	a := newTestApp(t, Options{Storage: storage, MaxTicks: 1})
	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, uint64(1), a.World().TickHeight())
}

func TestApp_RedisStorage(t *testing.T) {
	t.Parallel()

	s := miniredis.RunT(t)
	a := newTestApp(t, Options{
		SnapshotStorage: snapshot.StorageTypeRedis,
		RedisAddress:    s.Addr(),
		Namespace:       "test",
	})
	spawnTitle(t, a, "")
	require.NoError(t, a.Run(context.Background()))

	assert.True(t, s.Exists("test:SNAPSHOT"))
}

func TestApp_PresetsFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "presets.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
default = "mono"

[[preset]]
key = "mono"
regular = "mono.ttf"
`), 0o600))

	a := newTestApp(t, Options{PresetsFile: path})
	assert.Equal(t, []string{"mono"}, a.Registry().Keys())
	assert.Equal(t, "mono", a.Registry().DefaultKey())

	_, err := New(Options{TickRate: 30, PresetsFile: filepath.Join(t.TempDir(), "missing.toml")})
	require.Error(t, err)
}
