package component

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

// ComponentID identifies one component storage. IDs start at 1; zero marks
// an unset kind.
type ComponentID uint32

var (
	lastID atomic.Uint32
	names  sync.Map // ComponentID -> string
)

func register(name string) ComponentID {
	id := ComponentID(lastID.Add(1))
	names.Store(id, name)
	return id
}

// String returns the name the component was declared with.
func (id ComponentID) String() string {
	if name, ok := names.Load(id); ok {
		return name.(string)
	}
	return fmt.Sprintf("#%d", uint32(id))
}

// ComponentKind is a typed key into one component storage of a world.
type ComponentKind[T any] struct {
	id ComponentID
}

// NewComponentKind declares a kind named after T. Each call yields a
// distinct storage.
func NewComponentKind[T any]() ComponentKind[T] {
	var zero T
	return ComponentKind[T]{id: register(fmt.Sprintf("%T", zero))}
}

func (k ComponentKind[T]) ID() ComponentID {
	return k.id
}

func (k ComponentKind[T]) Valid() bool {
	return k.id != 0
}

// ComponentHandle is a package-level, named declaration of a component.
type ComponentHandle[T any] struct {
	kind ComponentKind[T]
}

func NewComponent[T any](name string) ComponentHandle[T] {
	return ComponentHandle[T]{kind: ComponentKind[T]{id: register(name)}}
}

func (h ComponentHandle[T]) Kind() ComponentKind[T] {
	return h.kind
}

func (h ComponentHandle[T]) ID() ComponentID {
	return h.kind.id
}

func (h ComponentHandle[T]) Name() string {
	return h.kind.id.String()
}
