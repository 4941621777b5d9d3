package ecsim

import (
	"strings"

	"github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"pkg.world.dev/world-engine/ecsim/gamestate"
)

const (
	DefaultLogLevel = "info"
)

// WorldConfig holds the configuration for a World. Every field can be set through the environment variable named in
// its tag; unset variables keep the defaults.
type WorldConfig struct {
	LogLevel  string `config:"ECSIM_LOG_LEVEL"`
	LogPretty bool   `config:"ECSIM_LOG_PRETTY"`

	// StatsdAddress enables metrics when set, e.g. "localhost:8125".
	StatsdAddress string `config:"ECSIM_STATSD_ADDRESS"`
	// StatsdTags is a comma separated list of tags added to every metric.
	StatsdTags string `config:"ECSIM_STATSD_TAGS"`

	MaxEntities     int `config:"ECSIM_MAX_ENTITIES"`
	InitialCapacity int `config:"ECSIM_INITIAL_CAPACITY"`
}

var defaultConfig = WorldConfig{
	LogLevel:        DefaultLogLevel,
	LogPretty:       false,
	StatsdAddress:   "",
	StatsdTags:      "",
	MaxEntities:     gamestate.DefaultMaxEntities,
	InitialCapacity: gamestate.DefaultInitialCapacity,
}

func DefaultWorldConfig() WorldConfig {
	return defaultConfig
}

// LoadWorldConfig reads the world configuration from the environment on top of the defaults.
func LoadWorldConfig() (WorldConfig, error) {
	cfg := defaultConfig
	if err := config.FromEnv().To(&cfg); err != nil {
		return cfg, eris.Wrap(err, "failed to load world config from env")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, eris.Wrap(err, "invalid world config")
	}
	return cfg, nil
}

func (w WorldConfig) Validate() error {
	if _, err := zerolog.ParseLevel(w.LogLevel); err != nil {
		return eris.Wrapf(err, "ECSIM_LOG_LEVEL %q is not a valid log level", w.LogLevel)
	}
	if w.MaxEntities <= 0 {
		return eris.New("ECSIM_MAX_ENTITIES must be positive")
	}
	if w.InitialCapacity < 0 {
		return eris.New("ECSIM_INITIAL_CAPACITY must not be negative")
	}
	return nil
}

func (w WorldConfig) statsdTags() []string {
	var tags []string
	for _, tag := range strings.Split(w.StatsdTags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
