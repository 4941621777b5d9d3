package filter

import (
	"github.com/willf/bitset"

	"pkg.world.dev/world-engine/ecsim/component"
)

// ComponentFilter is a filter that filters entities based on their components.
type ComponentFilter interface {
	// MatchesComponents returns true if an entity with the given component mask matches the filter.
	MatchesComponents(components *bitset.BitSet) bool
}

func maskOf(ids []component.TypeID) *bitset.BitSet {
	mask := &bitset.BitSet{}
	for _, id := range ids {
		mask.Set(uint(id))
	}
	return mask
}
