package ecsim

import (
	"github.com/rs/zerolog"
)

// WorldContext is handed to every system. It gives access to the world's state, the tick in progress and a logger
// scoped to the running system.
type WorldContext interface {
	Logger() *zerolog.Logger
	SetLogger(logger zerolog.Logger)
	// CurrentTick returns the id of the tick being run, or of the next tick when called between ticks.
	CurrentTick() uint64
	// EmitEvent records an event on the current tick.
	EmitEvent(name string, event any)

	getWorld() *World
}

var _ WorldContext = (*worldContext)(nil)

type worldContext struct {
	world  *World
	logger *zerolog.Logger
}

func NewWorldContext(world *World) WorldContext {
	logger := *world.logger
	return &worldContext{
		world:  world,
		logger: &logger,
	}
}

func (w *worldContext) Logger() *zerolog.Logger {
	return w.logger
}

func (w *worldContext) SetLogger(logger zerolog.Logger) {
	w.logger = &logger
}

func (w *worldContext) CurrentTick() uint64 {
	return w.world.next.ID
}

func (w *worldContext) EmitEvent(name string, event any) {
	w.world.next.AddEvent(name, event)
}

func (w *worldContext) getWorld() *World {
	return w.world
}
