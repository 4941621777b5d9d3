package entity

import "strconv"

// ID is a generational handle to an entity. Index addresses a storage slot, Generation invalidates handles
// that outlive the entity they were issued for.
type ID struct {
	Index      uint32 `json:"index"`
	Generation uint32 `json:"generation"`
}

// Nil never refers to a live entity since slots start at generation 1.
var Nil = ID{}

func New(index, generation uint32) ID {
	return ID{Index: index, Generation: generation}
}

func (id ID) IsNil() bool {
	return id == Nil
}

func (id ID) String() string {
	return strconv.FormatUint(uint64(id.Index), 10) + "v" + strconv.FormatUint(uint64(id.Generation), 10)
}
