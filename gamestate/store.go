package gamestate

import (
	"github.com/rotisserie/eris"

	"pkg.world.dev/world-engine/ecsim/component"
	"pkg.world.dev/world-engine/ecsim/entity"
)

const absent = -1

// ComponentStorage is the type erased view of a Store used by State and by logging.
type ComponentStorage interface {
	ID() component.TypeID
	Name() string
	Has(id entity.ID) bool
	Remove(id entity.ID)
	Len() int
	// Value returns a copy of the component attached to id.
	Value(id entity.ID) (any, error)
	// Set attaches value to id. value must be of the store's component type.
	Set(id entity.ID, value any) error
}

var _ ComponentStorage = &Store[struct{}]{}

// Store holds the values of one component type in a sparse set: values are packed densely and addressed through a
// table indexed by entity index. Pointers returned by Get stay valid until the next Add or Remove on the same store.
type Store[T any] struct {
	id       component.TypeID
	name     string
	registry *Registry

	sparse []int32
	ids    []entity.ID
	values []T
}

func NewStore[T any](id component.TypeID, name string, registry *Registry) *Store[T] {
	return &Store[T]{
		id:       id,
		name:     name,
		registry: registry,
	}
}

func (s *Store[T]) ID() component.TypeID {
	return s.id
}

func (s *Store[T]) Name() string {
	return s.name
}

func (s *Store[T]) Len() int {
	return len(s.ids)
}

// Add attaches value to id, overwriting any value already attached.
func (s *Store[T]) Add(id entity.ID, value T) error {
	if !s.registry.IsAlive(id) {
		return eris.Wrapf(ErrInvalidEntity, "cannot add %s to entity %s", s.name, id)
	}
	if pos := s.position(id); pos != absent {
		s.values[pos] = value
		return nil
	}
	for int(id.Index) >= len(s.sparse) {
		s.sparse = append(s.sparse, absent)
	}
	s.sparse[id.Index] = int32(len(s.ids))
	s.ids = append(s.ids, id)
	s.values = append(s.values, value)
	s.registry.setComponent(id, uint(s.id))
	return nil
}

func (s *Store[T]) Get(id entity.ID) (*T, error) {
	if !s.registry.IsAlive(id) {
		return nil, eris.Wrapf(ErrInvalidEntity, "cannot get %s of entity %s", s.name, id)
	}
	pos := s.position(id)
	if pos == absent {
		return nil, eris.Wrapf(ErrMissingComponent, "entity %s has no %s", id, s.name)
	}
	return &s.values[pos], nil
}

func (s *Store[T]) Has(id entity.ID) bool {
	return s.registry.IsAlive(id) && s.position(id) != absent
}

// Remove detaches the value attached to id. It is a no-op when there is none.
func (s *Store[T]) Remove(id entity.ID) {
	pos := s.position(id)
	if pos == absent {
		return
	}
	last := len(s.ids) - 1
	if pos != last {
		moved := s.ids[last]
		s.ids[pos] = moved
		s.values[pos] = s.values[last]
		s.sparse[moved.Index] = int32(pos)
	}
	var zero T
	s.values[last] = zero
	s.ids = s.ids[:last]
	s.values = s.values[:last]
	s.sparse[id.Index] = absent
	if s.registry.IsAlive(id) {
		s.registry.clearComponent(id, uint(s.id))
	}
}

func (s *Store[T]) Value(id entity.ID) (any, error) {
	v, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return *v, nil
}

func (s *Store[T]) Set(id entity.ID, value any) error {
	switch v := value.(type) {
	case T:
		return s.Add(id, v)
	case *T:
		return s.Add(id, *v)
	default:
		return eris.Wrapf(ErrComponentTypeMismatch, "%s store cannot hold %T", s.name, value)
	}
}

func (s *Store[T]) position(id entity.ID) int {
	if int(id.Index) >= len(s.sparse) {
		return absent
	}
	pos := int(s.sparse[id.Index])
	if pos == absent || s.ids[pos] != id {
		return absent
	}
	return pos
}
