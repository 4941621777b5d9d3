package gamestate

import (
	"github.com/rotisserie/eris"
)

var (
	// ErrInvalidEntity is returned when an id does not address a live slot of the matching generation.
	ErrInvalidEntity = eris.New("invalid entity")
	// ErrMissingComponent is returned when a component is read from a live entity that does not have it.
	ErrMissingComponent = eris.New("component not on entity")
	// ErrCapacityExceeded is returned when no more entity slots can be allocated.
	ErrCapacityExceeded = eris.New("entity capacity exceeded")

	ErrComponentNotRegistered     = eris.New("must register component")
	ErrComponentAlreadyRegistered = eris.New("component already registered")
	ErrComponentTypeMismatch      = eris.New("component type does not match storage")
)
