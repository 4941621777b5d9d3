package sim

import (
	"math/rand/v2"

	"pkg.world.dev/world-engine/ecsim"
	"pkg.world.dev/world-engine/ecsim/entity"
)

// Spawner creates entities with a uniformly random Position and Direction and full Health.
type Spawner struct {
	cfg Config
	rng *rand.Rand
}

func NewSpawner(cfg Config) *Spawner {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Spawner{
		cfg: cfg,
		rng: rand.New(rand.NewPCG(seed, seed>>32|seed<<32)),
	}
}

// Spawn creates one entity and requests its activation. It becomes visible at the next refresh.
func (s *Spawner) Spawn(wCtx ecsim.WorldContext) (entity.ID, error) {
	return ecsim.Create(wCtx,
		Position{
			X: s.uniform(s.cfg.PositionMin, s.cfg.PositionMax),
			Y: s.uniform(s.cfg.PositionMin, s.cfg.PositionMax),
		},
		Direction{
			X: s.uniform(s.cfg.DirectionMin, s.cfg.DirectionMax),
			Y: s.uniform(s.cfg.DirectionMin, s.cfg.DirectionMax),
		},
		Health{Value: s.cfg.Health},
	)
}

func (s *Spawner) SpawnMany(wCtx ecsim.WorldContext, n int) ([]entity.ID, error) {
	ids := make([]entity.ID, 0, n)
	for i := 0; i < n; i++ {
		id, err := s.Spawn(wCtx)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// InitSystem returns a system that spawns the initial population of n entities.
func (s *Spawner) InitSystem(n int) ecsim.System {
	return ecsim.NewSystem("spawn_initial", func(wCtx ecsim.WorldContext, _ float64) error {
		_, err := s.SpawnMany(wCtx, n)
		return err
	})
}

// uniform returns a value in [lo, hi).
func (s *Spawner) uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}
