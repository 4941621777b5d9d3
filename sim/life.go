package sim

import (
	"pkg.world.dev/world-engine/ecsim"
	"pkg.world.dev/world-engine/ecsim/entity"
)

// RemovalEvent is the tick event emitted for every entity the LifeSystem destroys.
const RemovalEvent = "entity_removed"

type Removal struct {
	ID entity.ID `json:"id"`
}

// LifeSystem kills every entity whose health dropped to zero or below and counts the removals.
type LifeSystem struct {
	removed uint64
}

func NewLifeSystem() *LifeSystem {
	return &LifeSystem{}
}

func (*LifeSystem) Name() string {
	return "life"
}

func (l *LifeSystem) Update(wCtx ecsim.WorldContext, _ float64) error {
	healths, err := ecsim.StoreOf[Health](wCtx)
	if err != nil {
		return err
	}
	it, err := ecsim.Join(wCtx, Health{})
	if err != nil {
		return err
	}
	for it.HasNext() {
		id := it.Next()
		health, err := healths.Get(id)
		if err != nil {
			return err
		}
		if health.Value > 0 {
			continue
		}
		ecsim.Kill(wCtx, id)
		l.removed++
		wCtx.EmitEvent(RemovalEvent, Removal{ID: id})
		wCtx.Logger().Debug().
			Uint32("entity_index", id.Index).
			Uint32("entity_generation", id.Generation).
			Msg("Destroyed entity")
	}
	return nil
}

// Removed returns the number of entities destroyed so far.
func (l *LifeSystem) Removed() uint64 {
	return l.removed
}
