package sim

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"pkg.world.dev/world-engine/ecsim"
	"pkg.world.dev/world-engine/ecsim/entity"
	"pkg.world.dev/world-engine/ecsim/tick"
)

// Spawn describes an entity that became visible during a tick.
type Spawn struct {
	ID        entity.ID `json:"id"`
	Position  Position  `json:"position"`
	Direction Direction `json:"direction"`
}

// Report is the outcome of one tick: the entities that were committed and the ones the LifeSystem destroyed.
type Report struct {
	Tick    uint64      `json:"tick"`
	Spawned []Spawn     `json:"spawned"`
	Removed []entity.ID `json:"removed"`
}

type Stats struct {
	Ticks   uint64 `json:"ticks"`
	Created uint64 `json:"created"`
	Removed uint64 `json:"removed"`
	Alive   int    `json:"alive"`
}

// Summary is the result of a full run.
type Summary struct {
	Stats
	Elapsed time.Duration `json:"elapsed"`
}

// Simulation wires the components and systems of the particle simulation into a world.
type Simulation struct {
	cfg     Config
	world   *ecsim.World
	wCtx    ecsim.WorldContext
	spawner *Spawner
	life    *LifeSystem
	ticks   uint64
}

func New(cfg Config, opts ...ecsim.WorldOption) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, eris.Wrap(err, "invalid sim config")
	}
	world, err := ecsim.NewWorld(opts...)
	if err != nil {
		return nil, err
	}
	if err := ecsim.RegisterComponent[Position](world); err != nil {
		return nil, err
	}
	if err := ecsim.RegisterComponent[Direction](world); err != nil {
		return nil, err
	}
	if err := ecsim.RegisterComponent[Health](world); err != nil {
		return nil, err
	}

	s := &Simulation{
		cfg:     cfg,
		world:   world,
		wCtx:    ecsim.NewWorldContext(world),
		spawner: NewSpawner(cfg),
		life:    NewLifeSystem(),
	}
	if err := world.RegisterInitSystems(s.spawner.InitSystem(cfg.InitialEntities)); err != nil {
		return nil, err
	}
	err = world.RegisterSystems(
		NewMovementSystem(),
		NewCollisionSystem(cfg.CollisionRadius, cfg.CollisionDamage),
		s.life,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Simulation) World() *ecsim.World {
	return s.world
}

func (s *Simulation) Config() Config {
	return s.cfg
}

// Init spawns and commits the initial population.
func (s *Simulation) Init() (*Report, error) {
	t, err := s.world.Init()
	if err != nil {
		return nil, err
	}
	return s.report(t)
}

// Spawn creates one random entity between ticks. It is committed by the next tick.
func (s *Simulation) Spawn() (entity.ID, error) {
	return s.spawner.Spawn(s.wCtx)
}

// Tick runs movement, collision and life once with the time step dt and commits the result. The initial population
// is spawned first if Init has not been called.
func (s *Simulation) Tick(dt float64) (*Report, error) {
	if !s.world.IsInitialized() {
		if _, err := s.Init(); err != nil {
			return nil, err
		}
	}
	t, err := s.world.Tick(dt)
	if err != nil {
		return nil, err
	}
	s.ticks++
	return s.report(t)
}

func (s *Simulation) Stats() Stats {
	stats := s.world.Stats()
	return Stats{
		Ticks:   s.ticks,
		Created: stats.Created,
		Removed: s.life.Removed(),
		Alive:   stats.Alive,
	}
}

// Run initializes the simulation and runs the configured number of ticks, spawning an entity before every tick
// selected by Config.ShouldSpawn. onReport, if not nil, is called with the initialization report and after every
// tick; an error from it stops the run. Cancellation is checked between ticks.
func (s *Simulation) Run(ctx context.Context, onReport func(*Report) error) (Summary, error) {
	startTime := time.Now()
	emit := func(r *Report) error {
		if onReport == nil {
			return nil
		}
		return onReport(r)
	}

	if !s.world.IsInitialized() {
		report, err := s.Init()
		if err != nil {
			return Summary{}, err
		}
		if err := emit(report); err != nil {
			return Summary{}, err
		}
	}

	for i := 0; i < s.cfg.Ticks; i++ {
		if err := ctx.Err(); err != nil {
			return s.summary(startTime), eris.Wrapf(err, "run stopped before tick %d", i)
		}
		if s.cfg.ShouldSpawn(i) {
			if _, err := s.Spawn(); err != nil {
				return s.summary(startTime), err
			}
		}
		report, err := s.Tick(s.cfg.DT)
		if err != nil {
			return s.summary(startTime), err
		}
		if err := emit(report); err != nil {
			return s.summary(startTime), err
		}
	}
	return s.summary(startTime), nil
}

func (s *Simulation) summary(startTime time.Time) Summary {
	return Summary{
		Stats:   s.Stats(),
		Elapsed: time.Since(startTime),
	}
}

func (s *Simulation) report(t *tick.Tick) (*Report, error) {
	r := &Report{
		Tick:    t.ID,
		Spawned: make([]Spawn, 0, len(t.Activated)),
		Removed: make([]entity.ID, 0),
	}
	positions, err := ecsim.StoreOf[Position](s.wCtx)
	if err != nil {
		return nil, err
	}
	directions, err := ecsim.StoreOf[Direction](s.wCtx)
	if err != nil {
		return nil, err
	}
	for _, id := range t.Activated {
		if !positions.Has(id) || !directions.Has(id) {
			continue
		}
		pos, err := positions.Get(id)
		if err != nil {
			return nil, err
		}
		dir, err := directions.Get(id)
		if err != nil {
			return nil, err
		}
		r.Spawned = append(r.Spawned, Spawn{ID: id, Position: *pos, Direction: *dir})
	}
	for _, event := range t.EventsNamed(RemovalEvent) {
		if removal, ok := event.(Removal); ok {
			r.Removed = append(r.Removed, removal.ID)
		}
	}
	return r, nil
}
