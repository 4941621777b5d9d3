package ecsim_test

import (
	"errors"
	"strings"
	"testing"

	"pkg.world.dev/world-engine/ecsim"
	"pkg.world.dev/world-engine/ecsim/assert"
	"pkg.world.dev/world-engine/ecsim/entity"
	"pkg.world.dev/world-engine/ecsim/testutils"
	"pkg.world.dev/world-engine/ecsim/tick"
)

type Energy struct {
	Amount int `json:"amount"`
}

func (Energy) Name() string { return "energy" }

type Tag struct{}

func (Tag) Name() string { return "tag" }

func newWorld(t *testing.T, opts ...ecsim.WorldOption) *ecsim.World {
	t.Helper()
	world := testutils.NewTestWorld(t, opts...)
	assert.NilError(t, ecsim.RegisterComponent[Energy](world))
	assert.NilError(t, ecsim.RegisterComponent[Tag](world))
	return world
}

func TestTickRunsSystemsInOrderThenRefreshes(t *testing.T) {
	world := newWorld(t)

	var order []string
	var seenDuringTick int
	record := func(name string) ecsim.System {
		return ecsim.NewSystem(name, func(wCtx ecsim.WorldContext, _ float64) error {
			order = append(order, name)
			return nil
		})
	}
	spawner := ecsim.NewSystem("spawner", func(wCtx ecsim.WorldContext, _ float64) error {
		_, err := ecsim.Create(wCtx, Energy{Amount: 1})
		return err
	})
	counter := ecsim.NewSystem("counter", func(wCtx ecsim.WorldContext, _ float64) error {
		it, err := ecsim.Join(wCtx, Energy{})
		if err != nil {
			return err
		}
		seenDuringTick = it.Len()
		return nil
	})
	assert.NilError(t, world.RegisterSystems(record("a"), spawner, counter, record("b")))
	assert.DeepEqual(t, []string{"a", "spawner", "counter", "b"}, world.GetSystemNames())

	first, err := world.Tick(0.5)
	assert.NilError(t, err)
	assert.DeepEqual(t, []string{"a", "b"}, order)
	// Entities created during a tick are only visible from the next tick on.
	assert.Equal(t, 0, seenDuringTick)
	assert.Len(t, first.Activated, 1)
	assert.Equal(t, uint64(1), first.ID)
	assert.Equal(t, 0.5, first.DT)

	second, err := world.Tick(0.5)
	assert.NilError(t, err)
	assert.Equal(t, 1, seenDuringTick)
	assert.Equal(t, uint64(2), second.ID)
	assert.Equal(t, 2, world.Stats().Alive)
}

func TestInitSystemsRunOnceBeforeFirstTick(t *testing.T) {
	world := newWorld(t)
	initRuns := 0
	assert.NilError(t, world.RegisterInitSystems(ecsim.NewSystem("populate",
		func(wCtx ecsim.WorldContext, dt float64) error {
			initRuns++
			assert.Equal(t, 0.0, dt)
			_, err := ecsim.CreateMany(wCtx, 3, Energy{Amount: 10})
			return err
		})))

	visible := 0
	assert.NilError(t, world.RegisterSystems(ecsim.NewSystem("count", func(wCtx ecsim.WorldContext, _ float64) error {
		it, err := ecsim.Join(wCtx, Energy{})
		if err != nil {
			return err
		}
		visible = it.Len()
		return nil
	})))

	var records []*tick.Tick
	world.Subscribe(func(t *tick.Tick) { records = append(records, t) })

	_, err := world.Tick(1)
	assert.NilError(t, err)
	_, err = world.Tick(1)
	assert.NilError(t, err)

	assert.Equal(t, 1, initRuns)
	assert.Equal(t, 3, visible, "the initial population is committed before the first tick")
	assert.Len(t, records, 3)
	assert.Equal(t, uint64(0), records[0].ID)
	assert.Len(t, records[0].Activated, 3)

	_, err = world.Init()
	assert.ErrorIs(t, err, ecsim.ErrWorldAlreadyInitialized)
}

func TestFailingSystemAbortsTickWithoutRefresh(t *testing.T) {
	world := newWorld(t)
	_, err := world.Init()
	assert.NilError(t, err)

	errBoom := errors.New("boom")
	var created entity.ID
	assert.NilError(t, world.RegisterSystems(
		ecsim.NewSystem("create", func(wCtx ecsim.WorldContext, _ float64) error {
			if created.IsNil() {
				id, err := ecsim.Create(wCtx, Energy{})
				created = id
				return err
			}
			return nil
		}),
		ecsim.NewSystem("fail", func(ecsim.WorldContext, float64) error { return errBoom }),
	))

	_, err = world.Tick(1)
	assert.ErrorIs(t, err, errBoom)
	assert.Check(t, strings.Contains(err.Error(), "system fail generated an error"))

	wCtx := testutils.WorldToWorldContext(world)
	assert.Check(t, ecsim.IsAlive(wCtx, created))
	assert.Check(t, !ecsim.IsActivated(wCtx, created), "a failed tick must not commit")
	assert.Equal(t, uint64(1), world.CurrentTick())
}

func TestFailedInitIsNotRunAgain(t *testing.T) {
	world := newWorld(t)
	errBoom := errors.New("boom")
	runs := 0
	assert.NilError(t, world.RegisterInitSystems(
		ecsim.NewSystem("populate", func(wCtx ecsim.WorldContext, _ float64) error {
			runs++
			_, err := ecsim.CreateMany(wCtx, 2, Energy{})
			return err
		}),
		ecsim.NewSystem("fail", func(ecsim.WorldContext, float64) error { return errBoom }),
	))

	_, err := world.Init()
	assert.ErrorIs(t, err, errBoom)

	_, err = world.Init()
	assert.ErrorIs(t, err, ecsim.ErrWorldInitFailed)
	_, err = world.Tick(1)
	assert.ErrorIs(t, err, ecsim.ErrWorldInitFailed)

	assert.Equal(t, 1, runs, "init systems run at most once")
	assert.Check(t, !world.IsInitialized())
	assert.Equal(t, 2, world.Stats().Alive)
}

func TestEventsAreAttachedToTheTick(t *testing.T) {
	world := newWorld(t)
	assert.NilError(t, world.RegisterSystems(ecsim.NewSystem("emit", func(wCtx ecsim.WorldContext, _ float64) error {
		wCtx.EmitEvent("ping", wCtx.CurrentTick())
		return nil
	})))

	_, err := world.Tick(1)
	assert.NilError(t, err)
	tk, err := world.Tick(1)
	assert.NilError(t, err)
	assert.DeepEqual(t, []any{uint64(2)}, tk.EventsNamed("ping"))
}

func TestWithTickHook(t *testing.T) {
	var ids []uint64
	world := newWorld(t, ecsim.WithTickHook(func(t *tick.Tick) {
		ids = append(ids, t.ID)
	}))
	for i := 0; i < 3; i++ {
		_, err := world.Tick(1)
		assert.NilError(t, err)
	}
	assert.DeepEqual(t, []uint64{0, 1, 2, 3}, ids)
}

func TestWorldHasUniqueID(t *testing.T) {
	a := testutils.NewTestWorld(t)
	b := testutils.NewTestWorld(t)
	assert.Check(t, a.ID() != "")
	assert.Check(t, a.ID() != b.ID())
}

func TestWithMaxEntities(t *testing.T) {
	world := newWorld(t, ecsim.WithMaxEntities(2))
	wCtx := testutils.WorldToWorldContext(world)

	_, err := ecsim.CreateMany(wCtx, 2, Tag{})
	assert.NilError(t, err)
	_, err = ecsim.Create(wCtx, Tag{})
	assert.ErrorIs(t, err, ecsim.ErrCapacityExceeded)
}
