package gamestate

import (
	"github.com/rotisserie/eris"
	"github.com/willf/bitset"

	"pkg.world.dev/world-engine/ecsim/component"
	"pkg.world.dev/world-engine/ecsim/entity"
)

// State is the in-memory entity table of a world: the entity registry plus one store per registered component
// type, indexed by component.TypeID.
type State struct {
	registry *Registry
	// stores[0] is always nil so that a zero TypeID never resolves.
	stores []ComponentStorage
}

func New(opts ...RegistryOption) *State {
	return &State{
		registry: NewRegistry(opts...),
		stores:   []ComponentStorage{nil},
	}
}

func (s *State) Registry() *Registry {
	return s.registry
}

// NextTypeID returns the id the next registered component storage must use.
func (s *State) NextTypeID() component.TypeID {
	return component.TypeID(len(s.stores))
}

func (s *State) RegisterStorage(storage ComponentStorage) error {
	if storage.ID() != s.NextTypeID() {
		return eris.Errorf("storage %q has type id %d, expected %d", storage.Name(), storage.ID(), s.NextTypeID())
	}
	for _, existing := range s.stores[1:] {
		if existing.Name() == storage.Name() {
			return eris.Wrapf(ErrComponentAlreadyRegistered, "component %q", storage.Name())
		}
	}
	s.stores = append(s.stores, storage)
	return nil
}

func (s *State) Storage(id component.TypeID) (ComponentStorage, error) {
	if id <= 0 || int(id) >= len(s.stores) {
		return nil, eris.Wrapf(ErrComponentNotRegistered, "type id %d", id)
	}
	return s.stores[id], nil
}

// Storages returns all registered storages in type id order.
func (s *State) Storages() []ComponentStorage {
	return s.stores[1:]
}

// ComponentTypesForEntity returns the type ids of the components attached to a live entity, in ascending order.
func (s *State) ComponentTypesForEntity(id entity.ID) ([]component.TypeID, error) {
	mask, err := s.registry.Components(id)
	if err != nil {
		return nil, err
	}
	types := make([]component.TypeID, 0, mask.Count())
	for i, ok := mask.NextSet(0); ok; i, ok = mask.NextSet(i + 1) {
		types = append(types, component.TypeID(i))
	}
	return types, nil
}

// Refresh commits all pending creations and destructions. Reaped entities lose every attached component.
func (s *State) Refresh() RefreshResult {
	return s.registry.Refresh(s.detach)
}

func (s *State) detach(id entity.ID, components *bitset.BitSet) {
	attached := components.Clone()
	for i, ok := attached.NextSet(0); ok; i, ok = attached.NextSet(i + 1) {
		if int(i) < len(s.stores) && s.stores[i] != nil {
			s.stores[i].Remove(id)
		}
	}
}
