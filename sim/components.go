// Package sim is the particle simulation built on the ecsim core: moving entities lose health when they come close
// to each other and are destroyed once it runs out.
package sim

const DefaultHealth = 2500.0

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (Position) Name() string {
	return "position"
}

// Direction is the velocity of an entity, in units per second.
type Direction struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (Direction) Name() string {
	return "direction"
}

type Health struct {
	Value float64 `json:"value"`
}

func (Health) Name() string {
	return "health"
}

func NewHealth() Health {
	return Health{Value: DefaultHealth}
}
