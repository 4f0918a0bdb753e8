package ecs

import (
	"context"
	"testing"

	. "github.com/argus-labs/reactive-font/pkg/ecs/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorld_SerializeDeserialize_RoundTrip(t *testing.T) {
	t.Parallel()

	w1 := NewWorld()
	var kept, destroyed EntityID
	w1.CustomTick(func(ws *WorldState) {
		var err error
		kept, err = Create(ws)
		require.NoError(t, err)
		require.NoError(t, Set(ws, kept, Health{Value: 100}))
		require.NoError(t, Set(ws, kept, Position{X: 10, Y: 20}))

		destroyed, err = Create(ws)
		require.NoError(t, err)
		require.NoError(t, Set(ws, destroyed, Velocity{X: 1}))

		empty, err := Create(ws)
		require.NoError(t, err)
		require.NoError(t, Set(ws, empty, PlayerTag{Tag: "a"}))
		require.NoError(t, Remove[PlayerTag](ws, empty))

		require.NoError(t, Destroy(ws, destroyed))
	})
	require.NoError(t, w1.Tick(context.Background()))

	data, err := w1.Serialize()
	require.NoError(t, err)

	// Register in a different order than the original world used.
	w2 := NewWorld()
	require.NoError(t, RegisterComponent[PlayerTag](w2))
	require.NoError(t, RegisterComponent[Velocity](w2))
	require.NoError(t, RegisterComponent[Position](w2))
	require.NoError(t, RegisterComponent[Health](w2))

	initRuns := 0
	type initState struct{ BaseSystemState }
	require.NoError(t, RegisterSystem(w2, func(*initState) error {
		initRuns++
		return nil
	}, WithHook(Init)))

	require.NoError(t, w2.Deserialize(data))

	assert.Equal(t, w1.TickHeight(), w2.TickHeight())
	assert.Equal(t, w1.EntityCount(), w2.EntityCount())
	assert.Equal(t, w1.state.Entities(), w2.state.Entities())

	health, err := Get[Health](w2.state, kept)
	require.NoError(t, err)
	assert.Equal(t, 100, health.Value)
	pos, err := Get[Position](w2.state, kept)
	require.NoError(t, err)
	assert.Equal(t, Position{X: 10, Y: 20}, pos)
	assert.False(t, Alive(w2.state, destroyed))

	// The free list survives, so the destroyed ID is recycled next.
	w2.CustomTick(func(ws *WorldState) {
		eid, err := Create(ws)
		require.NoError(t, err)
		assert.Equal(t, destroyed, eid)
	})

	require.NoError(t, w2.Tick(context.Background()))
	assert.Equal(t, 0, initRuns)
}

func TestWorld_Deserialize_UnregisteredComponent(t *testing.T) {
	t.Parallel()

	w1 := NewWorld()
	w1.CustomTick(func(ws *WorldState) {
		eid, err := Create(ws)
		require.NoError(t, err)
		require.NoError(t, Set(ws, eid, Health{Value: 1}))
	})
	data, err := w1.Serialize()
	require.NoError(t, err)

	w2 := NewWorld()
	var eid EntityID
	w2.CustomTick(func(ws *WorldState) {
		eid, err = Create(ws)
		require.NoError(t, err)
	})

	err = w2.Deserialize(data)
	require.ErrorIs(t, err, ErrComponentNotFound)
	assert.True(t, Alive(w2.state, eid), "failed restore must leave the state untouched")

	require.Error(t, w2.Deserialize([]byte("not json")))
}
