package gamestate

import (
	"math"
	"slices"

	"github.com/rotisserie/eris"
	"github.com/willf/bitset"

	"pkg.world.dev/world-engine/ecsim/entity"
)

const (
	DefaultInitialCapacity = 256
	DefaultMaxEntities     = math.MaxInt32
)

type slot struct {
	generation uint32
	alive      bool
	// activated is set once a requested activation has been committed by Refresh.
	activated         bool
	pendingActivation bool
	pendingKill       bool
	components        bitset.BitSet
}

// RefreshResult lists the entities whose state was committed by a Registry.Refresh, in ascending index order.
type RefreshResult struct {
	Activated []entity.ID
	Reaped    []entity.ID
}

// ReapFn is called for every reaped entity before its slot is released, while id still resolves.
type ReapFn func(id entity.ID, components *bitset.BitSet)

type RegistryStats struct {
	Created uint64
	Reaped  uint64
	Alive   int
	Slots   int
}

// Registry owns entity identity, liveness and activation. Slots are recycled through a free set, and the lowest
// free index is always reused first. Activation and destruction are queued and only take effect on Refresh.
type Registry struct {
	slots []slot
	free  bitset.BitSet

	activationQueue []uint32
	killQueue       []uint32

	maxEntities int
	alive       int
	created     uint64
	reaped      uint64
}

type RegistryOption func(*Registry)

func WithMaxEntities(n int) RegistryOption {
	return func(r *Registry) {
		if n > 0 && n <= DefaultMaxEntities {
			r.maxEntities = n
		}
	}
}

func WithInitialCapacity(n int) RegistryOption {
	return func(r *Registry) {
		if n > 0 {
			r.slots = make([]slot, 0, n)
		}
	}
}

func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		slots:       make([]slot, 0, DefaultInitialCapacity),
		maxEntities: DefaultMaxEntities,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create allocates an entity. The entity is alive but stays invisible to searches until it has been activated
// and the registry refreshed.
func (r *Registry) Create() (entity.ID, error) {
	if idx, ok := r.free.NextSet(0); ok {
		r.free.Clear(idx)
		s := &r.slots[idx]
		s.alive = true
		r.alive++
		r.created++
		return entity.New(uint32(idx), s.generation), nil
	}
	if len(r.slots) >= r.maxEntities {
		return entity.Nil, eris.Wrapf(ErrCapacityExceeded, "limit is %d entities", r.maxEntities)
	}
	r.slots = append(r.slots, slot{generation: 1, alive: true})
	r.alive++
	r.created++
	return entity.New(uint32(len(r.slots)-1), 1), nil
}

// Activate requests that id becomes visible to searches from the next Refresh onwards.
func (r *Registry) Activate(id entity.ID) error {
	s, ok := r.lookup(id)
	if !ok {
		return eris.Wrapf(ErrInvalidEntity, "cannot activate entity %s", id)
	}
	if s.activated || s.pendingActivation {
		return nil
	}
	s.pendingActivation = true
	r.activationQueue = append(r.activationQueue, id.Index)
	return nil
}

// Kill marks id for destruction at the next Refresh. Killing a stale, dead or already killed entity is a no-op.
func (r *Registry) Kill(id entity.ID) {
	s, ok := r.lookup(id)
	if !ok || s.pendingKill {
		return
	}
	s.pendingKill = true
	r.killQueue = append(r.killQueue, id.Index)
}

// Refresh reaps every killed entity and then commits every pending activation of an entity that survived.
func (r *Registry) Refresh(onReap ReapFn) RefreshResult {
	var res RefreshResult

	slices.Sort(r.killQueue)
	for _, idx := range r.killQueue {
		s := &r.slots[idx]
		id := entity.New(idx, s.generation)
		if onReap != nil {
			onReap(id, &s.components)
		}
		s.components.ClearAll()
		s.alive = false
		s.activated = false
		s.pendingActivation = false
		s.pendingKill = false
		// A slot whose generation would wrap is retired instead of recycled.
		if s.generation < math.MaxUint32 {
			s.generation++
			r.free.Set(uint(idx))
		}
		r.alive--
		r.reaped++
		res.Reaped = append(res.Reaped, id)
	}
	r.killQueue = r.killQueue[:0]

	slices.Sort(r.activationQueue)
	for _, idx := range r.activationQueue {
		s := &r.slots[idx]
		if !s.alive || !s.pendingActivation {
			continue
		}
		s.pendingActivation = false
		s.activated = true
		res.Activated = append(res.Activated, entity.New(idx, s.generation))
	}
	r.activationQueue = r.activationQueue[:0]

	return res
}

func (r *Registry) IsAlive(id entity.ID) bool {
	_, ok := r.lookup(id)
	return ok
}

// IsActivated reports whether id is alive and its activation has been committed.
func (r *Registry) IsActivated(id entity.ID) bool {
	s, ok := r.lookup(id)
	return ok && s.activated
}

// IsPendingKill reports whether id has been killed but not yet reaped.
func (r *Registry) IsPendingKill(id entity.ID) bool {
	s, ok := r.lookup(id)
	return ok && s.pendingKill
}

// Components returns the component mask of a live entity. The mask must not be modified.
func (r *Registry) Components(id entity.ID) (*bitset.BitSet, error) {
	s, ok := r.lookup(id)
	if !ok {
		return nil, eris.Wrapf(ErrInvalidEntity, "entity %s", id)
	}
	return &s.components, nil
}

// EachVisible calls fn in ascending index order for every entity that is alive and activated, until fn returns
// false.
func (r *Registry) EachVisible(fn func(id entity.ID, components *bitset.BitSet) bool) {
	for i := range r.slots {
		s := &r.slots[i]
		if !s.alive || !s.activated {
			continue
		}
		if !fn(entity.New(uint32(i), s.generation), &s.components) {
			return
		}
	}
}

// Len returns the number of live entities, including ones not activated yet and ones pending destruction.
func (r *Registry) Len() int {
	return r.alive
}

func (r *Registry) Stats() RegistryStats {
	return RegistryStats{
		Created: r.created,
		Reaped:  r.reaped,
		Alive:   r.alive,
		Slots:   len(r.slots),
	}
}

func (r *Registry) lookup(id entity.ID) (*slot, bool) {
	if int(id.Index) >= len(r.slots) {
		return nil, false
	}
	s := &r.slots[id.Index]
	if !s.alive || s.generation != id.Generation {
		return nil, false
	}
	return s, true
}

func (r *Registry) setComponent(id entity.ID, typeID uint) {
	r.slots[id.Index].components.Set(typeID)
}

func (r *Registry) clearComponent(id entity.ID, typeID uint) {
	r.slots[id.Index].components.Clear(typeID)
}
