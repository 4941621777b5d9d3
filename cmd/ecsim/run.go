package main

import (
	"fmt"
	"os"

	"github.com/pkg/profile"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"pkg.world.dev/world-engine/ecsim"
	"pkg.world.dev/world-engine/ecsim/codec"
	"pkg.world.dev/world-engine/ecsim/sim"
	"pkg.world.dev/world-engine/ecsim/statsd"
)

const (
	profileNone  = ""
	profileCPU   = "cpu"
	profileMem   = "mem"
	profileTrace = "trace"
)

type runFlags struct {
	json        bool
	quiet       bool
	pretty      bool
	logLevel    string
	profile     string
	profilePath string
}

func newRunCmd() *cobra.Command {
	cfg, cfgErr := sim.LoadConfig()
	flags := runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the particle simulation and report created and destroyed entities",
		Example: "  ecsim run --entities 1000 --ticks 1000\n" +
			"  ecsim run --json --quiet --profile cpu",
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfgErr != nil {
				return cfgErr
			}
			return runSimulation(cmd, cfg, flags)
		},
	}

	f := cmd.Flags()
	f.IntVar(&cfg.InitialEntities, "entities", cfg.InitialEntities, "number of entities spawned before the first tick")
	f.IntVar(&cfg.Ticks, "ticks", cfg.Ticks, "number of ticks to run")
	f.Float64Var(&cfg.DT, "dt", cfg.DT, "time step of every tick")
	f.IntVar(&cfg.SpawnEvery, "spawn-every", cfg.SpawnEvery, "spawn an entity every n ticks, 0 disables spawning")
	f.IntVar(&cfg.SpawnOffset, "spawn-offset", cfg.SpawnOffset, "tick offset within the spawn cadence")
	f.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "random seed, 0 picks one")
	f.Float64Var(&cfg.CollisionRadius, "radius", cfg.CollisionRadius, "collision radius")
	f.Float64Var(&cfg.CollisionDamage, "damage", cfg.CollisionDamage, "health lost by both entities of a collision")
	f.Float64Var(&cfg.Health, "health", cfg.Health, "initial health of spawned entities")

	f.BoolVar(&flags.json, "json", false, "write tick reports and the summary as line delimited JSON to stdout")
	f.BoolVar(&flags.quiet, "quiet", false, "do not log created and destroyed entities")
	f.BoolVar(&flags.pretty, "pretty", false, "human readable logs")
	f.StringVar(&flags.logLevel, "log-level", "", "world log level, overrides ECSIM_LOG_LEVEL")
	f.StringVar(&flags.profile, "profile", profileNone, "profile the run: cpu, mem or trace")
	f.StringVar(&flags.profilePath, "profile-path", ".", "directory the profile is written to")
	return cmd
}

func runSimulation(cmd *cobra.Command, cfg sim.Config, flags runFlags) error {
	worldCfg, err := ecsim.LoadWorldConfig()
	if err != nil {
		return err
	}
	if flags.logLevel != "" {
		worldCfg.LogLevel = flags.logLevel
	}
	if flags.pretty {
		worldCfg.LogPretty = true
	}
	defer func() {
		if err := statsd.Close(); err != nil {
			cmd.PrintErrln("failed to close statsd client:", err)
		}
	}()

	level, err := zerolog.ParseLevel(worldCfg.LogLevel)
	if err != nil {
		return eris.Wrapf(err, "invalid log level %q", worldCfg.LogLevel)
	}
	var logger zerolog.Logger
	if worldCfg.LogPretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()})
	} else {
		logger = zerolog.New(cmd.ErrOrStderr())
	}
	logger = logger.Level(level).With().Timestamp().Logger()

	s, err := sim.New(cfg, ecsim.WithConfig(worldCfg), ecsim.WithLogger(logger))
	if err != nil {
		return err
	}

	stop, err := startProfile(flags)
	if err != nil {
		return err
	}
	defer stop()

	out := cmd.OutOrStdout()
	if !flags.json {
		fmt.Fprintln(out, "Running ecsim test")
	}
	summary, err := s.Run(cmd.Context(), func(r *sim.Report) error {
		if !flags.quiet {
			logReport(&logger, r)
		}
		if !flags.json {
			return nil
		}
		bz, err := codec.EncodeLine(r)
		if err != nil {
			return err
		}
		_, err = out.Write(bz)
		return eris.Wrap(err, "failed to write report")
	})
	if err != nil {
		return err
	}

	if flags.json {
		bz, err := codec.EncodeLine(summary)
		if err != nil {
			return err
		}
		_, err = out.Write(bz)
		return eris.Wrap(err, "failed to write summary")
	}
	fmt.Fprintf(out, "End of ecsim test. Time taken: %d us\nEntities created: %d\nEntities removed: %d\n",
		summary.Elapsed.Microseconds(), summary.Created, summary.Removed)
	return nil
}

func logReport(logger *zerolog.Logger, r *sim.Report) {
	for _, spawn := range r.Spawned {
		logger.Info().
			Uint64("tick", r.Tick).
			Uint32("entity_index", spawn.ID.Index).
			Float64("x", spawn.Position.X).
			Float64("y", spawn.Position.Y).
			Float64("dir_x", spawn.Direction.X).
			Float64("dir_y", spawn.Direction.Y).
			Msg("Created entity")
	}
	for _, id := range r.Removed {
		logger.Info().
			Uint64("tick", r.Tick).
			Uint32("entity_index", id.Index).
			Msg("Destroyed entity")
	}
}

// startProfile starts the requested profiler and returns the function that stops it.
func startProfile(flags runFlags) (func(), error) {
	var mode func(*profile.Profile)
	switch flags.profile {
	case profileNone:
		return func() {}, nil
	case profileCPU:
		mode = profile.CPUProfile
	case profileMem:
		mode = profile.MemProfileAllocs
	case profileTrace:
		mode = profile.TraceProfile
	default:
		return nil, eris.Errorf("unknown profile %q, want cpu, mem or trace", flags.profile)
	}
	if err := os.MkdirAll(flags.profilePath, 0o755); err != nil {
		return nil, eris.Wrap(err, "failed to create profile directory")
	}
	p := profile.Start(mode, profile.ProfilePath(flags.profilePath), profile.NoShutdownHook, profile.Quiet)
	return p.Stop, nil
}
