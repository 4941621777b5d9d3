package component

import (
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/rotisserie/eris"
	"github.com/wI2L/jsondiff"
)

type (
	// TypeID identifies a registered component type. IDs are dense and start at 1 so they can be used
	// directly as bit positions in entity component masks.
	TypeID int

	// Component is implemented by every user defined component struct.
	Component interface {
		// Name returns the name of the component. It must be unique within a world.
		Name() string
	}

	// ComponentMetadata is a high level representation of a registered component struct.
	ComponentMetadata interface { //revive:disable-line:exported
		// SetID sets the ID of this component. It must only be set once.
		SetID(TypeID) error
		ID() TypeID
		Name() string
		Type() reflect.Type
		// GetSchema returns the JSON schema of the component struct.
		GetSchema() ([]byte, error)
	}
)

// NewComponentMetadata creates metadata for the component type T.
func NewComponentMetadata[T Component]() ComponentMetadata {
	var t T
	return &componentMetadata[T]{
		typ:  reflect.TypeOf(t),
		name: t.Name(),
	}
}

type componentMetadata[T Component] struct {
	isIDSet bool
	id      TypeID
	typ     reflect.Type
	name    string
}

// SetID sets this component's ID. It must be unique across the world object.
func (c *componentMetadata[T]) SetID(id TypeID) error {
	if c.isIDSet {
		if id == c.id {
			return nil
		}
		return eris.Errorf("id for component %v is already set to %v, cannot change to %v", c, c.id, id)
	}
	c.id = id
	c.isIDSet = true
	return nil
}

func (c *componentMetadata[T]) String() string {
	return c.name
}

func (c *componentMetadata[T]) Name() string {
	return c.name
}

func (c *componentMetadata[T]) ID() TypeID {
	return c.id
}

func (c *componentMetadata[T]) Type() reflect.Type {
	return c.typ
}

func (c *componentMetadata[T]) GetSchema() ([]byte, error) {
	var t T
	return SerializeComponentSchema(t)
}

func SerializeComponentSchema(component Component) ([]byte, error) {
	componentSchema := jsonschema.Reflect(component)
	bz, err := componentSchema.MarshalJSON()
	if err != nil {
		return nil, eris.Wrap(err, "")
	}
	return bz, nil
}

// IsComponentValid reports whether the schema of component matches the given JSON schema exactly.
func IsComponentValid(component Component, jsonSchemaBytes []byte) (bool, error) {
	componentSchemaBytes, err := SerializeComponentSchema(component)
	if err != nil {
		return false, err
	}
	patch, err := jsondiff.CompareJSON(componentSchemaBytes, jsonSchemaBytes)
	if err != nil {
		return false, eris.Wrap(err, "")
	}
	return patch.String() == "", nil
}
