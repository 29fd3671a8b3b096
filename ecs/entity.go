package ecs

import "fmt"

// Entity packs a slot id in the low 32 bits and a generation in the high 32.
// A destroyed slot is reused with a bumped generation, so stale handles never
// alias a new entity. Slot 0 is never handed out.
type Entity uint64

type (
	entityID   uint32
	generation uint32
)

const (
	entityIDBits = 32
	entityIDMask = 1<<entityIDBits - 1
)

func makeEntity(id entityID, gen generation) Entity {
	return Entity(gen)<<entityIDBits | Entity(id)
}

func (e Entity) id() entityID {
	return entityID(e & entityIDMask)
}

func (e Entity) generation() generation {
	return generation(e >> entityIDBits)
}

// String formats e as "<slot>v<generation>".
func (e Entity) String() string {
	return fmt.Sprintf("%dv%d", e.id(), e.generation())
}

func (e Entity) Valid() bool {
	return e.id() != 0
}
