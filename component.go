package ecsim

import (
	"github.com/rotisserie/eris"

	"pkg.world.dev/world-engine/ecsim/component"
	"pkg.world.dev/world-engine/ecsim/entity"
	"pkg.world.dev/world-engine/ecsim/gamestate"
	"pkg.world.dev/world-engine/ecsim/search"
	"pkg.world.dev/world-engine/ecsim/search/filter"
)

// RegisterComponent registers the component type T with the world and creates its store. Each component name can be
// registered once.
func RegisterComponent[T component.Component](w *World) error {
	c := component.NewComponentMetadata[T]()
	if _, ok := w.componentsByName[c.Name()]; ok {
		return eris.Wrapf(ErrComponentAlreadyRegistered, "component %q", c.Name())
	}
	id := w.state.NextTypeID()
	if err := c.SetID(id); err != nil {
		return err
	}
	if err := w.state.RegisterStorage(gamestate.NewStore[T](id, c.Name(), w.state.Registry())); err != nil {
		return err
	}
	w.components = append(w.components, c)
	w.componentsByName[c.Name()] = c
	return nil
}

// StoreOf returns the store holding the values of component T. Systems that touch many entities can hold on to
// it for the duration of an update instead of resolving it on every access.
func StoreOf[T component.Component](wCtx WorldContext) (*gamestate.Store[T], error) {
	var t T
	w := wCtx.getWorld()
	c, err := w.GetComponentByName(t.Name())
	if err != nil {
		return nil, err
	}
	storage, err := w.state.Storage(c.ID())
	if err != nil {
		return nil, err
	}
	store, ok := storage.(*gamestate.Store[T])
	if !ok {
		return nil, eris.Wrapf(gamestate.ErrComponentTypeMismatch, "component %q is stored as %T", t.Name(), storage)
	}
	return store, nil
}

// ComponentIDs resolves the type ids of the given components by name.
func ComponentIDs(wCtx WorldContext, components ...component.Component) ([]component.TypeID, error) {
	w := wCtx.getWorld()
	ids := make([]component.TypeID, 0, len(components))
	for _, comp := range components {
		c, err := w.GetComponentByName(comp.Name())
		if err != nil {
			return nil, err
		}
		ids = append(ids, c.ID())
	}
	return ids, nil
}

// CreateMany creates num entities with the given components attached and requests their activation. The entities
// become visible to joins after the next refresh. Every component must be registered; if one is not, no entity
// is created.
func CreateMany(wCtx WorldContext, num int, components ...component.Component) ([]entity.ID, error) {
	w := wCtx.getWorld()
	storages := make([]gamestate.ComponentStorage, 0, len(components))
	for _, comp := range components {
		c, err := w.GetComponentByName(comp.Name())
		if err != nil {
			return nil, err
		}
		storage, err := w.state.Storage(c.ID())
		if err != nil {
			return nil, err
		}
		storages = append(storages, storage)
	}

	reg := w.state.Registry()
	ids := make([]entity.ID, 0, num)
	for i := 0; i < num; i++ {
		id, err := reg.Create()
		if err != nil {
			return ids, err
		}
		for j, storage := range storages {
			if err := storage.Set(id, components[j]); err != nil {
				// The entity was never activated, so killing it keeps it invisible until it is reaped.
				reg.Kill(id)
				return ids, err
			}
		}
		if err := reg.Activate(id); err != nil {
			return ids, err
		}
		ids = append(ids, id)

		if e := wCtx.Logger().Debug(); e.Enabled() {
			e.Uint32("entity_index", id.Index).
				Uint32("entity_generation", id.Generation).
				Int("components", len(components)).
				Msg("Created entity")
		}
	}
	return ids, nil
}

func Create(wCtx WorldContext, components ...component.Component) (entity.ID, error) {
	ids, err := CreateMany(wCtx, 1, components...)
	if err != nil {
		return entity.Nil, err
	}
	return ids[0], nil
}

// Kill requests the destruction of id. It takes effect at the next refresh and is a no-op for dead entities.
func Kill(wCtx WorldContext, id entity.ID) {
	wCtx.getWorld().state.Registry().Kill(id)
}

func IsAlive(wCtx WorldContext, id entity.ID) bool {
	return wCtx.getWorld().state.Registry().IsAlive(id)
}

// IsActivated reports whether id is alive and its activation has been committed.
func IsActivated(wCtx WorldContext, id entity.ID) bool {
	return wCtx.getWorld().state.Registry().IsActivated(id)
}

// IsPendingKill reports whether id is alive but scheduled for destruction at the next refresh.
func IsPendingKill(wCtx WorldContext, id entity.ID) bool {
	return wCtx.getWorld().state.Registry().IsPendingKill(id)
}

// AddComponent attaches value to id, overwriting the previous value if there is one.
func AddComponent[T component.Component](wCtx WorldContext, id entity.ID, value T) error {
	store, err := StoreOf[T](wCtx)
	if err != nil {
		return err
	}
	return store.Add(id, value)
}

// GetComponent returns a pointer to the component T attached to id. Writes through the pointer update the stored
// value.
func GetComponent[T component.Component](wCtx WorldContext, id entity.ID) (*T, error) {
	store, err := StoreOf[T](wCtx)
	if err != nil {
		return nil, err
	}
	return store.Get(id)
}

func HasComponent[T component.Component](wCtx WorldContext, id entity.ID) (bool, error) {
	store, err := StoreOf[T](wCtx)
	if err != nil {
		return false, err
	}
	return store.Has(id), nil
}

func UpdateComponent[T component.Component](wCtx WorldContext, id entity.ID, fn func(*T)) error {
	val, err := GetComponent[T](wCtx, id)
	if err != nil {
		return err
	}
	fn(val)
	return nil
}

func RemoveComponent[T component.Component](wCtx WorldContext, id entity.ID) error {
	store, err := StoreOf[T](wCtx)
	if err != nil {
		return err
	}
	if !wCtx.getWorld().state.Registry().IsAlive(id) {
		return eris.Wrapf(ErrInvalidEntity, "cannot remove %s from entity %s", store.Name(), id)
	}
	store.Remove(id)
	return nil
}

// Join returns a snapshot of the alive and activated entities that have all the given components, in ascending
// index order.
func Join(wCtx WorldContext, components ...component.Component) (*search.Iterator, error) {
	ids, err := ComponentIDs(wCtx, components...)
	if err != nil {
		return nil, err
	}
	return search.Join(wCtx.getWorld().state.Registry(), filter.Contains(ids...)), nil
}

// NewSearch returns a reusable search over the world's visible entities.
func NewSearch(wCtx WorldContext, f filter.ComponentFilter) *search.Search {
	return search.New(wCtx.getWorld().state.Registry(), f)
}
