package filter

import (
	"github.com/willf/bitset"

	"pkg.world.dev/world-engine/ecsim/component"
)

type exact struct {
	mask *bitset.BitSet
}

// Exact matches entities that have exactly the components specified.
func Exact(ids ...component.TypeID) ComponentFilter {
	return &exact{mask: maskOf(ids)}
}

func (f *exact) MatchesComponents(components *bitset.BitSet) bool {
	// Masks may differ in length, so compare in both directions instead of using Equal.
	return components.IsSuperSet(f.mask) && f.mask.IsSuperSet(components)
}
