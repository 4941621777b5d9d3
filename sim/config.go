package sim

import (
	"github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
)

// Config describes a simulation run. Every field can be set through the environment variable named in its tag.
type Config struct {
	InitialEntities int     `config:"SIM_INITIAL_ENTITIES"`
	Ticks           int     `config:"SIM_TICKS"`
	DT              float64 `config:"SIM_DT"`

	// A new entity is spawned before every tick i with i % SpawnEvery == SpawnOffset. Zero disables spawning.
	SpawnEvery  int `config:"SIM_SPAWN_EVERY"`
	SpawnOffset int `config:"SIM_SPAWN_OFFSET"`

	// Seed of the spawner's random source. Zero picks a random seed.
	Seed uint64 `config:"SIM_SEED"`

	CollisionRadius float64 `config:"SIM_COLLISION_RADIUS"`
	CollisionDamage float64 `config:"SIM_COLLISION_DAMAGE"`

	PositionMin  float64 `config:"SIM_POSITION_MIN"`
	PositionMax  float64 `config:"SIM_POSITION_MAX"`
	DirectionMin float64 `config:"SIM_DIRECTION_MIN"`
	DirectionMax float64 `config:"SIM_DIRECTION_MAX"`
	Health       float64 `config:"SIM_HEALTH"`
}

var defaultConfig = Config{
	InitialEntities: 1000,
	Ticks:           1000,
	DT:              0.16666,
	SpawnEvery:      10,
	SpawnOffset:     1,
	Seed:            0,
	CollisionRadius: DefaultCollisionRadius,
	CollisionDamage: DefaultCollisionDamage,
	PositionMin:     0,
	PositionMax:     250,
	DirectionMin:    -1,
	DirectionMax:    1,
	Health:          DefaultHealth,
}

func DefaultConfig() Config {
	return defaultConfig
}

// LoadConfig reads the simulation configuration from the environment on top of the defaults.
func LoadConfig() (Config, error) {
	cfg := defaultConfig
	if err := config.FromEnv().To(&cfg); err != nil {
		return cfg, eris.Wrap(err, "failed to load sim config from env")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, eris.Wrap(err, "invalid sim config")
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.InitialEntities < 0:
		return eris.New("initial entities must not be negative")
	case c.Ticks < 0:
		return eris.New("ticks must not be negative")
	case c.DT < 0:
		return eris.New("dt must not be negative")
	case c.SpawnEvery < 0:
		return eris.New("spawn every must not be negative")
	case c.SpawnEvery > 0 && (c.SpawnOffset < 0 || c.SpawnOffset >= c.SpawnEvery):
		return eris.Errorf("spawn offset must be in [0, %d)", c.SpawnEvery)
	case c.CollisionRadius < 0:
		return eris.New("collision radius must not be negative")
	case c.CollisionDamage < 0:
		return eris.New("collision damage must not be negative")
	case c.PositionMax <= c.PositionMin:
		return eris.New("position range is empty")
	case c.DirectionMax <= c.DirectionMin:
		return eris.New("direction range is empty")
	case c.Health <= 0:
		return eris.New("health must be positive")
	}
	return nil
}

// ShouldSpawn reports whether an entity is spawned before the tick with the given zero based index.
func (c Config) ShouldSpawn(i int) bool {
	return c.SpawnEvery > 0 && i%c.SpawnEvery == c.SpawnOffset
}
