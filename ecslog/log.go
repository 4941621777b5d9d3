package ecslog

import (
	"github.com/rs/zerolog"

	"pkg.world.dev/world-engine/ecsim/component"
	"pkg.world.dev/world-engine/ecsim/entity"
)

type Loggable interface {
	GetComponents() []component.ComponentMetadata
	GetSystemNames() []string
}

type Logger struct {
	*zerolog.Logger
}

func New(logger *zerolog.Logger) *Logger {
	return &Logger{logger}
}

func (*Logger) loadComponentIntoArrayLogger(
	component component.ComponentMetadata,
	arrayLogger *zerolog.Array,
) *zerolog.Array {
	dictLogger := zerolog.Dict()
	dictLogger = dictLogger.Int("component_id", int(component.ID()))
	dictLogger = dictLogger.Str("component_name", component.Name())
	return arrayLogger.Dict(dictLogger)
}

func (l *Logger) loadComponentsToEvent(zeroLoggerEvent *zerolog.Event, target Loggable) *zerolog.Event {
	zeroLoggerEvent.Int("total_components", len(target.GetComponents()))
	arrayLogger := zerolog.Arr()
	for _, c := range target.GetComponents() {
		arrayLogger = l.loadComponentIntoArrayLogger(c, arrayLogger)
	}
	return zeroLoggerEvent.Array("components", arrayLogger)
}

func (l *Logger) loadSystemIntoEvent(zeroLoggerEvent *zerolog.Event, target Loggable) *zerolog.Event {
	zeroLoggerEvent.Int("total_systems", len(target.GetSystemNames()))
	arrayLogger := zerolog.Arr()
	for _, name := range target.GetSystemNames() {
		arrayLogger = arrayLogger.Str(name)
	}
	return zeroLoggerEvent.Array("systems", arrayLogger)
}

// LogEntity logs an entity together with the components attached to it.
func (l *Logger) LogEntity(level zerolog.Level, id entity.ID, components []component.ComponentMetadata) {
	arrayLogger := zerolog.Arr()
	for _, c := range components {
		arrayLogger = l.loadComponentIntoArrayLogger(c, arrayLogger)
	}
	l.WithLevel(level).
		Array("components", arrayLogger).
		Uint32("entity_index", id.Index).
		Uint32("entity_generation", id.Generation).
		Send()
}

// LogWorld Logs everything about the world (components and Systems)
func (l *Logger) LogWorld(target Loggable, level zerolog.Level) {
	zeroLoggerEvent := l.WithLevel(level)
	zeroLoggerEvent = l.loadComponentsToEvent(zeroLoggerEvent, target)
	zeroLoggerEvent = l.loadSystemIntoEvent(zeroLoggerEvent, target)
	zeroLoggerEvent.Send()
}

// CreateSystemLogger creates a Sub Logger with the entry {"system" : systemName}
func (l *Logger) CreateSystemLogger(systemName string) Logger {
	zeroLogger := l.Logger.With().
		Str("system", systemName).Logger()
	return Logger{
		&zeroLogger,
	}
}
