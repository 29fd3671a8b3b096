package ecs

import (
	"slices"

	"github.com/milk9111/physync/ecs/component"
)

// Query returns live entities holding every listed component, sorted by slot.
func Query(w *World, ids ...component.ComponentID) []Entity {
	if w == nil || len(ids) == 0 {
		return nil
	}
	sets := make([]*SparseSet, 0, len(ids))
	for _, id := range ids {
		s := w.store(id)
		if s == nil || s.Len() == 0 {
			return nil
		}
		sets = append(sets, s)
	}
	// iterate the smallest set
	slices.SortFunc(sets, func(a, b *SparseSet) int { return a.Len() - b.Len() })

	var out []Entity
	for _, e := range sets[0].Entities() {
		if !w.entities.isAlive(e) {
			continue
		}
		all := true
		for _, s := range sets[1:] {
			if !s.Has(e) {
				all = false
				break
			}
		}
		if all {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, compareEntities)
	return out
}

func compareEntities(a, b Entity) int {
	switch {
	case a.id() < b.id():
		return -1
	case a.id() > b.id():
		return 1
	}
	return int(a.generation()) - int(b.generation())
}
