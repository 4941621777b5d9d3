package ecsim

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"pkg.world.dev/world-engine/ecsim/component"
	"pkg.world.dev/world-engine/ecsim/gamestate"
	"pkg.world.dev/world-engine/ecsim/statsd"
	"pkg.world.dev/world-engine/ecsim/tick"
)

// World owns the entity state, the registered components and the systems, and advances them one tick at a time.
// A World is not safe for concurrent use.
type World struct {
	id     uuid.UUID
	config WorldConfig

	state         *gamestate.State
	systemManager *SystemManager

	// components are ordered by type id, componentsByName indexes the same metadata by name.
	components       []component.ComponentMetadata
	componentsByName map[string]component.ComponentMetadata

	baseLogger *zerolog.Logger
	logger     *zerolog.Logger
	tracer     trace.Tracer

	// next is the record of the tick that will be committed next. Events emitted between ticks land here too.
	next        *tick.Tick
	initialized bool
	initFailed  bool
	subscribers []func(*tick.Tick)
}

// NewWorld creates a World configured from the environment (see WorldConfig) and the given options.
func NewWorld(opts ...WorldOption) (*World, error) {
	cfg, err := LoadWorldConfig()
	if err != nil {
		return nil, err
	}

	tracer := otel.Tracer("ecsim")
	w := &World{
		id:               uuid.New(),
		config:           cfg,
		systemManager:    NewSystemManager(tracer),
		components:       make([]component.ComponentMetadata, 0),
		componentsByName: make(map[string]component.ComponentMetadata),
		tracer:           tracer,
		next:             tick.New(0, 0),
	}
	for _, opt := range opts {
		opt(w)
	}
	if err := w.config.Validate(); err != nil {
		return nil, eris.Wrap(err, "invalid world config")
	}

	logger, err := newLogger(w.config, w.baseLogger)
	if err != nil {
		return nil, err
	}
	logger = logger.With().Str("world_id", w.id.String()).Logger()
	w.logger = &logger

	if w.config.StatsdAddress != "" {
		if err := statsd.Init(w.config.StatsdAddress, w.config.statsdTags()); err != nil {
			return nil, eris.Wrap(err, "failed to initialize statsd")
		}
	}

	w.state = gamestate.New(
		gamestate.WithMaxEntities(w.config.MaxEntities),
		gamestate.WithInitialCapacity(w.config.InitialCapacity),
	)
	return w, nil
}

func (w *World) ID() string {
	return w.id.String()
}

func (w *World) Config() WorldConfig {
	return w.config
}

func (w *World) Logger() *zerolog.Logger {
	return w.logger
}

// State exposes the underlying entity table.
func (w *World) State() *gamestate.State {
	return w.state
}

// CurrentTick returns the id of the next tick to be committed. Tick 0 is the initialization.
func (w *World) CurrentTick() uint64 {
	return w.next.ID
}

func (w *World) IsInitialized() bool {
	return w.initialized
}

func (w *World) RegisterSystems(systems ...System) error {
	return w.systemManager.RegisterSystems(systems...)
}

// RegisterInitSystems registers systems that only run once, before the first tick.
func (w *World) RegisterInitSystems(systems ...System) error {
	return w.systemManager.RegisterInitSystems(systems...)
}

func (w *World) GetSystemNames() []string {
	return w.systemManager.GetSystemNames()
}

func (w *World) GetComponents() []component.ComponentMetadata {
	return w.components
}

func (w *World) GetComponentByName(name string) (component.ComponentMetadata, error) {
	c, ok := w.componentsByName[name]
	if !ok {
		return nil, eris.Wrapf(ErrComponentNotRegistered, "component %q", name)
	}
	return c, nil
}

// Subscribe registers fn to be called with every committed tick, in commit order. Subscribers run synchronously at
// the end of Init and Tick.
func (w *World) Subscribe(fn func(*tick.Tick)) {
	w.subscribers = append(w.subscribers, fn)
}

// Init runs the init systems and commits the entities they created, producing tick 0. It can only run once. Tick
// calls Init on its own when needed. Init systems are not run a second time after one of them failed: the world is
// left half populated and every later Init or Tick returns ErrWorldInitFailed.
func (w *World) Init() (*tick.Tick, error) {
	if w.initialized {
		return nil, eris.Wrap(ErrWorldAlreadyInitialized, "")
	}
	if w.initFailed {
		return nil, eris.Wrap(ErrWorldInitFailed, "")
	}
	ctx, span := w.tracer.Start(context.Background(), "world.init")
	defer span.End()

	startTime := time.Now()
	if err := w.systemManager.RunInitSystems(ctx, NewWorldContext(w)); err != nil {
		w.initFailed = true
		span.SetStatus(codes.Error, eris.ToString(err, true))
		span.RecordError(err)
		return nil, err
	}
	w.initialized = true
	w.LogWorld(zerolog.DebugLevel)
	return w.commit(startTime), nil
}

// Tick runs every registered system once with the time step dt, then commits the pending creations and
// destructions. If a system fails the tick is aborted without committing and the error is returned. The systems that
// ran before the failing one keep their effects, so a failed tick cannot be replayed and the driver should halt.
func (w *World) Tick(dt float64) (*tick.Tick, error) {
	if !w.initialized {
		if _, err := w.Init(); err != nil {
			return nil, err
		}
	}
	ctx, span := w.tracer.Start(context.Background(), "world.tick")
	defer span.End()

	startTime := time.Now()
	w.next.DT = dt
	if err := w.systemManager.RunSystems(ctx, NewWorldContext(w), dt); err != nil {
		span.SetStatus(codes.Error, eris.ToString(err, true))
		span.RecordError(err)
		return nil, eris.Wrapf(err, "tick %d failed", w.next.ID)
	}
	return w.commit(startTime), nil
}

// commit refreshes the state, closes the pending tick record and hands it to the subscribers.
func (w *World) commit(startTime time.Time) *tick.Tick {
	t := w.next
	res := w.state.Refresh()
	t.Activated = res.Activated
	t.Reaped = res.Reaped
	w.next = tick.New(t.ID+1, 0)

	stats := w.state.Registry().Stats()
	statsd.EmitTickStat(startTime, "full_tick")
	statsd.EmitGauge("entities.alive", float64(stats.Alive))
	statsd.EmitGauge("entities.slots", float64(stats.Slots))

	w.logger.Debug().
		Uint64("tick", t.ID).
		Dur("duration", time.Since(startTime)).
		Int("activated", len(t.Activated)).
		Int("reaped", len(t.Reaped)).
		Int("alive", stats.Alive).
		Msg("Tick completed")

	for _, fn := range w.subscribers {
		fn(t)
	}
	return t
}

func (w *World) Stats() gamestate.RegistryStats {
	return w.state.Registry().Stats()
}
