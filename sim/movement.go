package sim

import (
	"pkg.world.dev/world-engine/ecsim"
)

// MovementSystem advances every entity with a Position and a Direction by direction * dt.
type MovementSystem struct{}

func NewMovementSystem() *MovementSystem {
	return &MovementSystem{}
}

func (*MovementSystem) Name() string {
	return "movement"
}

func (*MovementSystem) Update(wCtx ecsim.WorldContext, dt float64) error {
	positions, err := ecsim.StoreOf[Position](wCtx)
	if err != nil {
		return err
	}
	directions, err := ecsim.StoreOf[Direction](wCtx)
	if err != nil {
		return err
	}
	it, err := ecsim.Join(wCtx, Position{}, Direction{})
	if err != nil {
		return err
	}
	for it.HasNext() {
		id := it.Next()
		pos, err := positions.Get(id)
		if err != nil {
			return err
		}
		dir, err := directions.Get(id)
		if err != nil {
			return err
		}
		pos.X += dir.X * dt
		pos.Y += dir.Y * dt
	}
	return nil
}
