package ecs

import (
	"slices"

	"github.com/milk9111/physync/ecs/component"
)

// ContainerDiff lists the membership changes seen by one EntityContainer.Update.
// Each slice is sorted by entity slot.
type ContainerDiff struct {
	Added   []Entity
	Changed []Entity
	Removed []Entity
}

// Empty reports whether nothing changed.
func (d ContainerDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Changed) == 0 && len(d.Removed) == 0
}

// EntityContainer tracks the entities holding a required component set and
// reports, on each Update, which joined, which left and which had a watched
// component rewritten since the previous Update.
type EntityContainer struct {
	required []component.ComponentID
	watched  []component.ComponentID
	members  map[Entity]uint64
}

// NewEntityContainer tracks entities holding every required component.
// Changes are reported for all required components unless Watch narrows it.
func NewEntityContainer(required ...component.ComponentID) *EntityContainer {
	req := append([]component.ComponentID(nil), required...)
	return &EntityContainer{
		required: req,
		watched:  req,
		members:  make(map[Entity]uint64),
	}
}

// Watch limits change detection to the given components.
func (c *EntityContainer) Watch(ids ...component.ComponentID) *EntityContainer {
	c.watched = append([]component.ComponentID(nil), ids...)
	return c
}

// Update diffs the world against the previous membership.
func (c *EntityContainer) Update(w *World) ContainerDiff {
	var diff ContainerDiff
	current := Query(w, c.required...)
	seen := make(map[Entity]struct{}, len(current))

	for _, e := range current {
		seen[e] = struct{}{}
		stamp := c.stamp(w, e)
		last, ok := c.members[e]
		switch {
		case !ok:
			diff.Added = append(diff.Added, e)
		case stamp > last:
			diff.Changed = append(diff.Changed, e)
		default:
			continue
		}
		c.members[e] = stamp
	}

	for e := range c.members {
		if _, ok := seen[e]; !ok {
			diff.Removed = append(diff.Removed, e)
		}
	}
	for _, e := range diff.Removed {
		delete(c.members, e)
	}
	slices.SortFunc(diff.Removed, compareEntities)
	return diff
}

func (c *EntityContainer) stamp(w *World, e Entity) uint64 {
	var latest uint64
	for _, id := range c.watched {
		if s := w.store(id).Stamp(e); s > latest {
			latest = s
		}
	}
	return latest
}

// Forget drops e from the membership so the next Update reports it as added
// again if it still qualifies.
func (c *EntityContainer) Forget(e Entity) {
	delete(c.members, e)
}

// Qualifies reports whether e is alive and holds every required component,
// whether or not it is currently a member.
func (c *EntityContainer) Qualifies(w *World, e Entity) bool {
	return IsAlive(w, e) && len(c.Missing(w, e)) == 0
}

// Missing returns the required components e does not hold.
func (c *EntityContainer) Missing(w *World, e Entity) []component.ComponentID {
	var out []component.ComponentID
	for _, id := range c.required {
		if !w.store(id).Has(e) {
			out = append(out, id)
		}
	}
	return out
}

// Contains reports whether e was a member after the last Update.
func (c *EntityContainer) Contains(e Entity) bool {
	_, ok := c.members[e]
	return ok
}

func (c *EntityContainer) Len() int {
	return len(c.members)
}

// Clear forgets every member.
func (c *EntityContainer) Clear() {
	clear(c.members)
}
