package testutils

import (
	"testing"

	"github.com/rs/zerolog"

	"pkg.world.dev/world-engine/ecsim"
	"pkg.world.dev/world-engine/ecsim/assert"
)

// WorldOptions returns options that make a world ignore ECSIM_* variables set in the environment and log warnings
// and errors through t.
func WorldOptions(t testing.TB) []ecsim.WorldOption {
	logger := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.WarnLevel)
	return []ecsim.WorldOption{
		ecsim.WithConfig(ecsim.DefaultWorldConfig()),
		ecsim.WithLogger(logger),
	}
}

// NewTestWorld creates a World object suitable for unit tests.
func NewTestWorld(t testing.TB, opts ...ecsim.WorldOption) *ecsim.World {
	t.Helper()
	world, err := ecsim.NewWorld(append(WorldOptions(t), opts...)...)
	assert.NilError(t, err, "unable to initialize test world")
	return world
}

// WorldToWorldContext returns a context for driving the world directly from a test, outside of any system.
func WorldToWorldContext(world *ecsim.World) ecsim.WorldContext {
	return ecsim.NewWorldContext(world)
}
