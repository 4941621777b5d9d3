package ecsim

import (
	"github.com/rotisserie/eris"

	"pkg.world.dev/world-engine/ecsim/gamestate"
)

var (
	ErrInvalidEntity              = gamestate.ErrInvalidEntity
	ErrMissingComponent           = gamestate.ErrMissingComponent
	ErrCapacityExceeded           = gamestate.ErrCapacityExceeded
	ErrComponentNotRegistered     = gamestate.ErrComponentNotRegistered
	ErrComponentAlreadyRegistered = gamestate.ErrComponentAlreadyRegistered

	ErrDuplicateSystem         = eris.New("duplicate system")
	ErrWorldAlreadyInitialized = eris.New("world already initialized")
	ErrWorldInitFailed         = eris.New("world init failed")
)
