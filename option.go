package ecsim

import (
	"github.com/rs/zerolog"

	"pkg.world.dev/world-engine/ecsim/tick"
)

// WorldOption represents an option that can be used to augment how the World will be run. Options are applied
// after the configuration has been loaded from the environment.
type WorldOption func(*World)

// WithConfig replaces the configuration loaded from the environment.
func WithConfig(cfg WorldConfig) WorldOption {
	return func(world *World) {
		world.config = cfg
	}
}

// WithLogger sets the logger used by the world and, through the world context, by its systems.
func WithLogger(logger zerolog.Logger) WorldOption {
	return func(world *World) {
		world.baseLogger = &logger
	}
}

func WithPrettyLog() WorldOption {
	return func(world *World) {
		world.config.LogPretty = true
	}
}

// WithMaxEntities caps the number of entity slots.
func WithMaxEntities(n int) WorldOption {
	return func(world *World) {
		world.config.MaxEntities = n
	}
}

func WithInitialCapacity(n int) WorldOption {
	return func(world *World) {
		world.config.InitialCapacity = n
	}
}

// WithTickHook subscribes fn to every committed tick, including the initialization record.
func WithTickHook(fn func(*tick.Tick)) WorldOption {
	return func(world *World) {
		world.Subscribe(fn)
	}
}
