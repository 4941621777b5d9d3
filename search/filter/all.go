package filter

import "github.com/willf/bitset"

type all struct{}

// All matches every visible entity.
func All() ComponentFilter {
	return &all{}
}

func (f *all) MatchesComponents(_ *bitset.BitSet) bool {
	return true
}
