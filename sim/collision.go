package sim

import (
	"pkg.world.dev/world-engine/ecsim"
)

const (
	DefaultCollisionRadius = 10.0
	DefaultCollisionDamage = 1.0
)

// CollisionSystem damages both entities of every pair that is closer than Radius. Each unordered pair is tested
// once per tick, in join order. The system never destroys anything; that is left to the LifeSystem.
type CollisionSystem struct {
	Radius float64
	Damage float64
}

func NewCollisionSystem(radius, damage float64) *CollisionSystem {
	return &CollisionSystem{
		Radius: radius,
		Damage: damage,
	}
}

func (*CollisionSystem) Name() string {
	return "collision"
}

func (c *CollisionSystem) Update(wCtx ecsim.WorldContext, _ float64) error {
	positionStore, err := ecsim.StoreOf[Position](wCtx)
	if err != nil {
		return err
	}
	healthStore, err := ecsim.StoreOf[Health](wCtx)
	if err != nil {
		return err
	}
	it, err := ecsim.Join(wCtx, Position{}, Health{})
	if err != nil {
		return err
	}

	// No component is added or removed below, so the pointers stay valid for the whole update.
	n := it.Len()
	positions := make([]*Position, 0, n)
	healths := make([]*Health, 0, n)
	for it.HasNext() {
		id := it.Next()
		pos, err := positionStore.Get(id)
		if err != nil {
			return err
		}
		health, err := healthStore.Get(id)
		if err != nil {
			return err
		}
		positions = append(positions, pos)
		healths = append(healths, health)
	}

	threshold := c.Radius * c.Radius
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if isClose(positions[i], positions[j], threshold) {
				healths[i].Value -= c.Damage
				healths[j].Value -= c.Damage
			}
		}
	}
	return nil
}

func isClose(a, b *Position, threshold float64) bool {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx+dy*dy < threshold
}
