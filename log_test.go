package ecsim_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"pkg.world.dev/world-engine/ecsim"
	"pkg.world.dev/world-engine/ecsim/assert"
	"pkg.world.dev/world-engine/ecsim/entity"
	"pkg.world.dev/world-engine/ecsim/testutils"
)

func TestLogWorldAndEntity(t *testing.T) {
	var buf bytes.Buffer
	world := newWorld(t, ecsim.WithLogger(zerolog.New(&buf)))
	assert.NilError(t, world.RegisterSystems(noop("movement")))

	world.LogWorld(zerolog.InfoLevel)
	out := buf.String()
	assert.Check(t, strings.Contains(out, `"total_components":2`), out)
	assert.Check(t, strings.Contains(out, `"systems":["movement"]`), out)

	buf.Reset()
	id, err := ecsim.Create(testutils.WorldToWorldContext(world), Energy{}, Tag{})
	assert.NilError(t, err)
	buf.Reset()
	assert.NilError(t, world.LogEntity(zerolog.InfoLevel, id))
	out = buf.String()
	assert.Check(t, strings.Contains(out, `"component_name":"energy"`), out)
	assert.Check(t, strings.Contains(out, `"component_name":"tag"`), out)

	assert.ErrorIs(t, world.LogEntity(zerolog.InfoLevel, entity.New(9, 1)), ecsim.ErrInvalidEntity)
}
