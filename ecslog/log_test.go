package ecslog_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"

	"pkg.world.dev/world-engine/ecsim/assert"
	"pkg.world.dev/world-engine/ecsim/component"
	"pkg.world.dev/world-engine/ecsim/ecslog"
	"pkg.world.dev/world-engine/ecsim/entity"
)

type EnergyComp struct {
	Value int
}

func (EnergyComp) Name() string { return "energy" }

type fakeWorld struct {
	components []component.ComponentMetadata
	systems    []string
}

func (f fakeWorld) GetComponents() []component.ComponentMetadata { return f.components }
func (f fakeWorld) GetSystemNames() []string                    { return f.systems }

func newBufLogger() (*ecslog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf)
	return ecslog.New(&zl), &buf
}

func TestLogWorld(t *testing.T) {
	energy := component.NewComponentMetadata[EnergyComp]()
	assert.NilError(t, energy.SetID(1))
	world := fakeWorld{
		components: []component.ComponentMetadata{energy},
		systems:    []string{"movement", "life"},
	}

	logger, buf := newBufLogger()
	logger.LogWorld(world, zerolog.InfoLevel)
	assert.JSONEq(t, `{
		"level": "info",
		"total_components": 1,
		"components": [{"component_id": 1, "component_name": "energy"}],
		"total_systems": 2,
		"systems": ["movement", "life"]
	}`, buf.String())
}

func TestLogEntity(t *testing.T) {
	energy := component.NewComponentMetadata[EnergyComp]()
	assert.NilError(t, energy.SetID(4))

	logger, buf := newBufLogger()
	logger.LogEntity(zerolog.DebugLevel, entity.New(7, 2), []component.ComponentMetadata{energy})
	assert.JSONEq(t, `{
		"level": "debug",
		"components": [{"component_id": 4, "component_name": "energy"}],
		"entity_index": 7,
		"entity_generation": 2
	}`, buf.String())
}

func TestSystemLogger(t *testing.T) {
	logger, buf := newBufLogger()

	systemLogger := logger.CreateSystemLogger("collision")
	systemLogger.Info().Msg("hit")
	assert.JSONEq(t, `{"level":"info","system":"collision","message":"hit"}`, buf.String())

	buf.Reset()
	logger.Info().Msg("plain")
	assert.JSONEq(t, `{"level":"info","message":"plain"}`, buf.String(), "the parent logger is unchanged")
}
