package ecsim

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"pkg.world.dev/world-engine/ecsim/component"
	"pkg.world.dev/world-engine/ecsim/ecslog"
	"pkg.world.dev/world-engine/ecsim/entity"
)

// newLogger builds the world logger from the config. A logger injected with WithLogger is used as is.
func newLogger(cfg WorldConfig, injected *zerolog.Logger) (zerolog.Logger, error) {
	if injected != nil {
		return *injected, nil
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Nop(), eris.Wrap(err, "")
	}
	var logger zerolog.Logger
	if cfg.LogPretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Logger(), nil
}

// LogWorld logs the registered components and systems.
func (w *World) LogWorld(level zerolog.Level) {
	ecslog.New(w.logger).LogWorld(w, level)
}

// LogEntity logs an entity together with its attached components.
func (w *World) LogEntity(level zerolog.Level, id entity.ID) error {
	types, err := w.state.ComponentTypesForEntity(id)
	if err != nil {
		return err
	}
	components := make([]component.ComponentMetadata, 0, len(types))
	for _, typeID := range types {
		components = append(components, w.components[typeID-1])
	}
	ecslog.New(w.logger).LogEntity(level, id, components)
	return nil
}
