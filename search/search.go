package search

import (
	"github.com/rotisserie/eris"
	"github.com/willf/bitset"

	"pkg.world.dev/world-engine/ecsim/entity"
	"pkg.world.dev/world-engine/ecsim/search/filter"
)

var ErrNoMatch = eris.New("no entity matches the search")

// Reader exposes the entities a search may see. Only alive, activated entities are reported, in ascending index
// order.
type Reader interface {
	EachVisible(fn func(id entity.ID, components *bitset.BitSet) bool)
}

type CallbackFn func(entity.ID) bool

// Join returns an iterator over a snapshot of the entities matching f. Entities created or destroyed after the
// call never show up in, or disappear from, the returned iterator.
func Join(reader Reader, f filter.ComponentFilter) *Iterator {
	var ids []entity.ID
	reader.EachVisible(func(id entity.ID, components *bitset.BitSet) bool {
		if f.MatchesComponents(components) {
			ids = append(ids, id)
		}
		return true
	})
	return &Iterator{ids: ids}
}

// Search is a reusable query. Every call evaluates the filter again, each against a fresh snapshot.
type Search struct {
	reader Reader
	filter filter.ComponentFilter
}

func New(reader Reader, f filter.ComponentFilter) *Search {
	return &Search{
		reader: reader,
		filter: f,
	}
}

func (s *Search) Join() *Iterator {
	return Join(s.reader, s.filter)
}

// Each iterates over all entities that match the search.
// If you would like to stop the iteration, return false to the callback. To continue iterating, return true.
func (s *Search) Each(callback CallbackFn) {
	for it := s.Join(); it.HasNext(); {
		if !callback(it.Next()) {
			return
		}
	}
}

// Count returns the number of entities that match the search.
func (s *Search) Count() int {
	count := 0
	s.reader.EachVisible(func(_ entity.ID, components *bitset.BitSet) bool {
		if s.filter.MatchesComponents(components) {
			count++
		}
		return true
	})
	return count
}

// First returns the matching entity with the lowest index.
func (s *Search) First() (entity.ID, error) {
	first := entity.Nil
	s.reader.EachVisible(func(id entity.ID, components *bitset.BitSet) bool {
		if s.filter.MatchesComponents(components) {
			first = id
			return false
		}
		return true
	})
	if first.IsNil() {
		return entity.Nil, eris.Wrap(ErrNoMatch, "")
	}
	return first, nil
}

func (s *Search) Collect() []entity.ID {
	return s.Join().Collect()
}
