package filter

import "github.com/willf/bitset"

func Not(filter ComponentFilter) ComponentFilter {
	return &not{filter: filter}
}

type not struct {
	filter ComponentFilter
}

func (f *not) MatchesComponents(components *bitset.BitSet) bool {
	return !f.filter.MatchesComponents(components)
}
