package tick

import (
	"pkg.world.dev/world-engine/ecsim/entity"
)

// Tick is the record of one completed simulation step. Activated and Reaped list the entities committed by the
// refresh that closed the tick, in ascending index order. Tick 0 records the world's initialization.
type Tick struct {
	ID        uint64           `json:"id"`
	DT        float64          `json:"dt"`
	Activated []entity.ID      `json:"activated"`
	Reaped    []entity.ID      `json:"reaped"`
	Events    map[string][]any `json:"events,omitempty"`
}

func New(id uint64, dt float64) *Tick {
	return &Tick{
		ID:     id,
		DT:     dt,
		Events: make(map[string][]any),
	}
}

// AddEvent records an event emitted by a system during this tick.
func (t *Tick) AddEvent(name string, event any) {
	t.Events[name] = append(t.Events[name], event)
}

// EventsNamed returns the events recorded under name, in emission order.
func (t *Tick) EventsNamed(name string) []any {
	return t.Events[name]
}
