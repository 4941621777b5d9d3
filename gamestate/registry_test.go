package gamestate_test

import (
	"math/rand"
	"testing"

	"github.com/willf/bitset"

	"pkg.world.dev/world-engine/ecsim/assert"
	"pkg.world.dev/world-engine/ecsim/entity"
	"pkg.world.dev/world-engine/ecsim/gamestate"
)

func createActivated(t *testing.T, r *gamestate.Registry, n int) []entity.ID {
	t.Helper()
	ids := make([]entity.ID, 0, n)
	for i := 0; i < n; i++ {
		id, err := r.Create()
		assert.NilError(t, err)
		assert.NilError(t, r.Activate(id))
		ids = append(ids, id)
	}
	r.Refresh(nil)
	return ids
}

func visible(r *gamestate.Registry) []entity.ID {
	var ids []entity.ID
	r.EachVisible(func(id entity.ID, _ *bitset.BitSet) bool {
		ids = append(ids, id)
		return true
	})
	return ids
}

func TestCreateStartsAliveButNotActivated(t *testing.T) {
	r := gamestate.NewRegistry()
	id, err := r.Create()
	assert.NilError(t, err)

	assert.Equal(t, entity.New(0, 1), id)
	assert.Check(t, r.IsAlive(id))
	assert.Check(t, !r.IsActivated(id))
	assert.Len(t, visible(r), 0)
}

func TestActivationIsCommittedOnRefresh(t *testing.T) {
	r := gamestate.NewRegistry()
	id, err := r.Create()
	assert.NilError(t, err)
	assert.NilError(t, r.Activate(id))

	assert.Check(t, !r.IsActivated(id), "activation must wait for refresh")
	assert.Len(t, visible(r), 0)

	res := r.Refresh(nil)
	assert.DeepEqual(t, []entity.ID{id}, res.Activated)
	assert.Len(t, res.Reaped, 0)
	assert.Check(t, r.IsActivated(id))
	assert.DeepEqual(t, []entity.ID{id}, visible(r))

	// Activating twice is harmless and does not re-report the entity.
	assert.NilError(t, r.Activate(id))
	res = r.Refresh(nil)
	assert.Len(t, res.Activated, 0)
}

func TestActivateInvalidEntity(t *testing.T) {
	r := gamestate.NewRegistry()
	assert.ErrorIs(t, r.Activate(entity.New(5, 1)), gamestate.ErrInvalidEntity)
	assert.ErrorIs(t, r.Activate(entity.Nil), gamestate.ErrInvalidEntity)

	id, err := r.Create()
	assert.NilError(t, err)
	r.Kill(id)
	r.Refresh(nil)
	assert.ErrorIs(t, r.Activate(id), gamestate.ErrInvalidEntity)
}

func TestKillIsDeferredUntilRefresh(t *testing.T) {
	r := gamestate.NewRegistry()
	ids := createActivated(t, r, 3)

	r.Kill(ids[1])
	assert.Check(t, r.IsAlive(ids[1]), "killed entities stay alive until refresh")
	assert.Check(t, r.IsPendingKill(ids[1]))
	assert.DeepEqual(t, ids, visible(r))

	res := r.Refresh(nil)
	assert.DeepEqual(t, []entity.ID{ids[1]}, res.Reaped)
	assert.Check(t, !r.IsAlive(ids[1]))
	assert.DeepEqual(t, []entity.ID{ids[0], ids[2]}, visible(r))
}

func TestKillIsIdempotent(t *testing.T) {
	r := gamestate.NewRegistry()
	ids := createActivated(t, r, 2)

	r.Kill(ids[0])
	r.Kill(ids[0])
	res := r.Refresh(nil)
	assert.Len(t, res.Reaped, 1)

	// Killing an already dead entity, or one that never existed, does nothing.
	r.Kill(ids[0])
	r.Kill(entity.New(99, 1))
	res = r.Refresh(nil)
	assert.Len(t, res.Reaped, 0)
	assert.Equal(t, 1, r.Len())
}

func TestKilledBeforeActivationIsNeverVisible(t *testing.T) {
	r := gamestate.NewRegistry()
	id, err := r.Create()
	assert.NilError(t, err)
	assert.NilError(t, r.Activate(id))
	r.Kill(id)

	res := r.Refresh(nil)
	assert.DeepEqual(t, []entity.ID{id}, res.Reaped)
	assert.Len(t, res.Activated, 0)
	assert.Check(t, !r.IsAlive(id))
}

func TestRecyclingUsesLowestFreeIndexWithNewGeneration(t *testing.T) {
	r := gamestate.NewRegistry()
	ids := createActivated(t, r, 4)

	r.Kill(ids[2])
	r.Kill(ids[1])
	r.Refresh(nil)

	id, err := r.Create()
	assert.NilError(t, err)
	assert.Equal(t, entity.New(1, 2), id)

	id, err = r.Create()
	assert.NilError(t, err)
	assert.Equal(t, entity.New(2, 2), id)

	id, err = r.Create()
	assert.NilError(t, err)
	assert.Equal(t, entity.New(4, 1), id)

	// The stale handles never resolve again.
	assert.Check(t, !r.IsAlive(ids[1]))
	assert.Check(t, !r.IsAlive(ids[2]))
	_, err = r.Components(ids[1])
	assert.ErrorIs(t, err, gamestate.ErrInvalidEntity)
}

func TestReapCallbackSeesLiveEntity(t *testing.T) {
	r := gamestate.NewRegistry()
	ids := createActivated(t, r, 2)

	var reaped []entity.ID
	r.Kill(ids[1])
	r.Refresh(func(id entity.ID, _ *bitset.BitSet) {
		assert.Check(t, r.IsAlive(id), "callback runs before the slot is released")
		reaped = append(reaped, id)
	})
	assert.DeepEqual(t, []entity.ID{ids[1]}, reaped)
}

func TestCapacityExceeded(t *testing.T) {
	r := gamestate.NewRegistry(gamestate.WithMaxEntities(2))
	ids := createActivated(t, r, 2)

	_, err := r.Create()
	assert.ErrorIs(t, err, gamestate.ErrCapacityExceeded)

	// Freed slots can still be reused at the limit.
	r.Kill(ids[0])
	r.Refresh(nil)
	id, err := r.Create()
	assert.NilError(t, err)
	assert.Equal(t, entity.New(0, 2), id)
}

func TestDefaultMaxEntitiesFitsEveryPlatformInt(t *testing.T) {
	// Must stay representable as an int on 32-bit targets.
	var limit int32 = gamestate.DefaultMaxEntities
	r := gamestate.NewRegistry(gamestate.WithMaxEntities(int(limit)))
	id, err := r.Create()
	assert.NilError(t, err)
	assert.Equal(t, entity.New(0, 1), id)
}

func TestAliveCountMatchesCreationsMinusReapings(t *testing.T) {
	r := gamestate.NewRegistry()
	rng := rand.New(rand.NewSource(42))

	var live []entity.ID
	created, reaped := 0, 0
	for round := 0; round < 200; round++ {
		switch op := rng.Intn(3); {
		case op < 2 || len(live) == 0:
			id, err := r.Create()
			assert.NilError(t, err)
			assert.NilError(t, r.Activate(id))
			live = append(live, id)
			created++
		default:
			i := rng.Intn(len(live))
			r.Kill(live[i])
			// A second kill of the same id must not be counted twice.
			r.Kill(live[i])
			live = append(live[:i], live[i+1:]...)
		}
		if round%7 == 0 {
			reaped += len(r.Refresh(nil).Reaped)
			assert.Equal(t, created-reaped, r.Len())
			assert.Check(t, r.Len() >= 0)
		}
	}
	reaped += len(r.Refresh(nil).Reaped)
	assert.Equal(t, len(live), r.Len())
	assert.Equal(t, created-reaped, r.Len())

	alive := 0
	for _, id := range live {
		if r.IsAlive(id) {
			alive++
		}
	}
	assert.Equal(t, len(live), alive)

	stats := r.Stats()
	assert.Equal(t, uint64(created), stats.Created)
	assert.Equal(t, uint64(reaped), stats.Reaped)
}
