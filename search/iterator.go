package search

import "pkg.world.dev/world-engine/ecsim/entity"

// Iterator walks a join result once. It cannot be rewound; join again to get a fresh one.
type Iterator struct {
	ids     []entity.ID
	current int
}

func (it *Iterator) HasNext() bool {
	return it.current < len(it.ids)
}

func (it *Iterator) Next() entity.ID {
	id := it.ids[it.current]
	it.current++
	return id
}

// Len returns the number of entities not consumed yet.
func (it *Iterator) Len() int {
	return len(it.ids) - it.current
}

// Collect consumes the rest of the iterator and returns the remaining ids in order.
func (it *Iterator) Collect() []entity.ID {
	rest := it.ids[it.current:]
	it.current = len(it.ids)
	return rest
}
