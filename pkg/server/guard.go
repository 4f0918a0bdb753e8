package server

import (
	"sync"

	"github.com/argus-labs/reactive-font/pkg/ecs"
)

// WorldGuard is a Guard backed by a read-write mutex. The owner of the tick loop calls Update
// around every tick, while handlers read through View.
type WorldGuard struct {
	mu    sync.RWMutex
	world *ecs.World
}

var _ Guard = (*WorldGuard)(nil)

func NewWorldGuard(world *ecs.World) *WorldGuard {
	return &WorldGuard{world: world}
}

func (g *WorldGuard) View(fn func(w *ecs.World) error) error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return fn(g.world)
}

func (g *WorldGuard) Update(fn func(w *ecs.World) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn(g.world)
}
