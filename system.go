package ecsim

import (
	"path/filepath"
	"reflect"
	"runtime"
)

// System is a unit of game logic run once per tick, in registration order.
type System interface {
	// Name identifies the system. It must be unique within a world.
	Name() string
	Update(wCtx WorldContext, dt float64) error
}

// SystemFunc adapts a plain function to the System interface. Its name is derived from the function name.
type SystemFunc func(wCtx WorldContext, dt float64) error

func (f SystemFunc) Name() string {
	return filepath.Base(runtime.FuncForPC(reflect.ValueOf(f).Pointer()).Name())
}

func (f SystemFunc) Update(wCtx WorldContext, dt float64) error {
	return f(wCtx, dt)
}

type namedSystem struct {
	name string
	fn   SystemFunc
}

// NewSystem wraps fn into a System with an explicit name, which is useful for closures.
func NewSystem(name string, fn SystemFunc) System {
	return &namedSystem{name: name, fn: fn}
}

func (s *namedSystem) Name() string {
	return s.name
}

func (s *namedSystem) Update(wCtx WorldContext, dt float64) error {
	return s.fn(wCtx, dt)
}
