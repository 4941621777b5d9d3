package ecsim

import (
	"context"
	"slices"
	"time"

	"github.com/rotisserie/eris"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"pkg.world.dev/world-engine/ecsim/ecslog"
	"pkg.world.dev/world-engine/ecsim/statsd"
)

const initSystemStage = "init_systems"

type SystemManager struct {
	// registeredSystems holds the systems in the order that they were registered.
	registeredSystems []System
	initSystems       []System

	tracer trace.Tracer
}

func NewSystemManager(tracer trace.Tracer) *SystemManager {
	return &SystemManager{
		registeredSystems: make([]System, 0),
		initSystems:       make([]System, 0),
		tracer:            tracer,
	}
}

// RegisterSystems registers multiple systems with the system manager.
// There can only be one system with a given name. If there is a duplicate system name, an error will be returned and
// none of the systems will be registered.
func (m *SystemManager) RegisterSystems(systems ...System) error {
	if err := m.checkNames(systems); err != nil {
		return err
	}
	m.registeredSystems = append(m.registeredSystems, systems...)
	return nil
}

// RegisterInitSystems registers systems that run once, before the first tick.
func (m *SystemManager) RegisterInitSystems(systems ...System) error {
	if err := m.checkNames(systems); err != nil {
		return err
	}
	m.initSystems = append(m.initSystems, systems...)
	return nil
}

// checkNames is done before registering any of the systems to ensure that all are registered or none of them are.
func (m *SystemManager) checkNames(systems []System) error {
	systemNames := make([]string, 0, len(systems))
	for _, system := range systems {
		systemName := system.Name()
		if slices.Contains(systemNames, systemName) {
			return eris.Wrapf(ErrDuplicateSystem, "duplicate system %q in slice", systemName)
		}
		if m.isRegistered(systemName) {
			return eris.Wrapf(ErrDuplicateSystem, "system %q is already registered", systemName)
		}
		systemNames = append(systemNames, systemName)
	}
	return nil
}

// RunSystems runs all the registered system in the order that they were registered. The first failing system stops
// the run.
func (m *SystemManager) RunSystems(ctx context.Context, wCtx WorldContext, dt float64) error {
	allSystemStartTime := time.Now()
	if err := m.run(ctx, wCtx, m.registeredSystems, dt); err != nil {
		return err
	}
	statsd.EmitTickStat(allSystemStartTime, "all_systems")
	return nil
}

// RunInitSystems runs the init systems with a zero time step.
func (m *SystemManager) RunInitSystems(ctx context.Context, wCtx WorldContext) error {
	startTime := time.Now()
	if err := m.run(ctx, wCtx, m.initSystems, 0); err != nil {
		return eris.Wrap(err, "init system generated an error")
	}
	statsd.EmitTickStat(startTime, initSystemStage)
	return nil
}

func (m *SystemManager) run(ctx context.Context, wCtx WorldContext, systems []System, dt float64) error {
	baseLogger := *wCtx.Logger()
	defer wCtx.SetLogger(baseLogger)

	for _, system := range systems {
		systemName := system.Name()

		// Inject the system name into the logger
		systemLogger := ecslog.New(&baseLogger).CreateSystemLogger(systemName)
		wCtx.SetLogger(*systemLogger.Logger)

		_, span := m.tracer.Start(ctx, "system."+systemName)
		systemStartTime := time.Now()
		if err := system.Update(wCtx, dt); err != nil {
			span.SetStatus(codes.Error, eris.ToString(err, true))
			span.RecordError(err)
			span.End()
			return eris.Wrapf(err, "system %s generated an error", systemName)
		}
		span.End()

		// Emit the total time it took to run `systemName`
		statsd.EmitTickStat(systemStartTime, systemName)
	}
	return nil
}

func (m *SystemManager) GetSystemNames() []string {
	names := make([]string, 0, len(m.registeredSystems))
	for _, system := range m.registeredSystems {
		names = append(names, system.Name())
	}
	return names
}

func (m *SystemManager) isRegistered(systemName string) bool {
	has := func(s System) bool { return s.Name() == systemName }
	return slices.ContainsFunc(m.registeredSystems, has) || slices.ContainsFunc(m.initSystems, has)
}
