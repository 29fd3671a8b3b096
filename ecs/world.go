package ecs

import "github.com/milk9111/physync/ecs/component"

// World owns entities and their component storages.
//
// Every write bumps a world-wide stamp that is recorded next to the value,
// which lets an EntityContainer detect changes without callbacks.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	stamp    uint64
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

func (w *World) store(id component.ComponentID) *SparseSet {
	if w == nil || w.stores == nil {
		return nil
	}
	return w.stores[id]
}

func (w *World) ensureStore(id component.ComponentID) *SparseSet {
	if w.stores == nil {
		w.stores = make(map[component.ComponentID]*SparseSet)
	}
	s, ok := w.stores[id]
	if !ok {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}

func (w *World) nextStamp() uint64 {
	w.stamp++
	return w.stamp
}

// Stamp returns the stamp of the most recent component write.
func (w *World) Stamp() uint64 {
	if w == nil {
		return 0
	}
	return w.stamp
}

// CreateEntity allocates a new entity.
func CreateEntity(w *World) Entity {
	return w.entities.create()
}

// DestroyEntity removes all components of e and marks it dead.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.Remove(e)
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func IsAlive(w *World, e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities returns all live entities in slot order.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	return w.entities.all()
}

// Touch marks a component of e as changed without replacing its value.
// Use it after mutating a component through the pointer returned by Get.
func Touch(w *World, e Entity, id component.ComponentID) bool {
	s := w.store(id)
	if s == nil || !w.entities.isAlive(e) {
		return false
	}
	v := s.Get(e)
	if v == nil {
		return false
	}
	s.Set(e, v, w.nextStamp())
	return true
}
