package filter

import (
	"github.com/willf/bitset"

	"pkg.world.dev/world-engine/ecsim/component"
)

type contains struct {
	mask *bitset.BitSet
}

// Contains matches entities that have all the components specified.
func Contains(ids ...component.TypeID) ComponentFilter {
	return &contains{mask: maskOf(ids)}
}

func (f *contains) MatchesComponents(components *bitset.BitSet) bool {
	return components.IsSuperSet(f.mask)
}
