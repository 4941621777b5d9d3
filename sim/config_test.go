package sim

import (
	"testing"

	"pkg.world.dev/world-engine/ecsim/assert"
)

func TestConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	assert.NilError(t, err)
	assert.Equal(t, defaultConfig, cfg)
}

func TestConfig_LoadFromEnv(t *testing.T) {
	t.Setenv("SIM_INITIAL_ENTITIES", "10")
	t.Setenv("SIM_TICKS", "20")
	t.Setenv("SIM_DT", "0.5")
	t.Setenv("SIM_SEED", "99")
	t.Setenv("SIM_COLLISION_RADIUS", "3")

	cfg, err := LoadConfig()
	assert.NilError(t, err)
	assert.Equal(t, 10, cfg.InitialEntities)
	assert.Equal(t, 20, cfg.Ticks)
	assert.Equal(t, 0.5, cfg.DT)
	assert.Equal(t, uint64(99), cfg.Seed)
	assert.Equal(t, 3.0, cfg.CollisionRadius)
	assert.Equal(t, DefaultCollisionDamage, cfg.CollisionDamage)
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "negative entities", mutate: func(c *Config) { c.InitialEntities = -1 }},
		{name: "negative ticks", mutate: func(c *Config) { c.Ticks = -1 }},
		{name: "offset outside cadence", mutate: func(c *Config) { c.SpawnOffset = 10 }},
		{name: "empty position range", mutate: func(c *Config) { c.PositionMax = c.PositionMin }},
		{name: "empty direction range", mutate: func(c *Config) { c.DirectionMin = 2 }},
		{name: "no health", mutate: func(c *Config) { c.Health = 0 }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			assert.Check(t, cfg.Validate() != nil)
		})
	}
	assert.NilError(t, DefaultConfig().Validate())
}

func TestConfig_ShouldSpawn(t *testing.T) {
	cfg := DefaultConfig()
	var got []int
	for i := 0; i < 25; i++ {
		if cfg.ShouldSpawn(i) {
			got = append(got, i)
		}
	}
	assert.DeepEqual(t, []int{1, 11, 21}, got)

	cfg.SpawnEvery = 0
	assert.Check(t, !cfg.ShouldSpawn(1))
}
