package system

import (
	"github.com/milk9111/physync/ecs"
	"github.com/milk9111/physync/ecs/component"
	"github.com/milk9111/physync/physics"
)

// PositionPublisher mirrors every body's transform into its entity's
// Position component.
func PositionPublisher(w *ecs.World) *ListenerFuncs {
	publish := func(b *physics.Body) {
		_ = ecs.Add(w, b.Entity(), component.PositionComponent.Kind(), &component.Position{
			Location: b.Location(),
			Rotation: b.Rotation(),
		})
	}
	return &ListenerFuncs{
		OnBodyAdded:   publish,
		OnBodyUpdated: publish,
		OnBodyRemoved: func(b *physics.Body) {
			ecs.Remove(w, b.Entity(), component.PositionComponent.Kind())
		},
	}
}

func bodyState(b *physics.Body) component.BodyState {
	switch {
	case b.Static():
		return component.BodyStatic
	case b.Active():
		return component.BodyActive
	default:
		return component.BodyInactive
	}
}

// StatusPublisher writes BodyStatus whenever a body changes between static,
// active and sleeping.
func StatusPublisher(w *ecs.World) *ListenerFuncs {
	last := make(map[ecs.Entity]component.BodyState)
	publish := func(b *physics.Body) {
		state := bodyState(b)
		if prev, ok := last[b.Entity()]; ok && prev == state {
			return
		}
		last[b.Entity()] = state
		_ = ecs.Add(w, b.Entity(), component.BodyStatusComponent.Kind(), &component.BodyStatus{State: state})
	}
	return &ListenerFuncs{
		OnBodyAdded:   publish,
		OnBodyUpdated: publish,
		OnBodyRemoved: func(b *physics.Body) {
			delete(last, b.Entity())
			ecs.Remove(w, b.Entity(), component.BodyStatusComponent.Kind())
		},
	}
}

// DriverDebugPublisher exposes the steering state of driven bodies for
// overlays and the CLI trace.
func DriverDebugPublisher(w *ecs.World) *ListenerFuncs {
	return &ListenerFuncs{
		OnBodyUpdated: func(b *physics.Body) {
			director, ok := b.Driver().(physics.ViewDirector)
			if !ok {
				ecs.Remove(w, b.Entity(), component.DriverDebugComponent.Kind())
				return
			}
			_ = ecs.Add(w, b.Entity(), component.DriverDebugComponent.Kind(), &component.DriverDebug{
				LinearVelocity: b.LinearVelocity(),
				ViewDirection:  director.ViewDirection(),
			})
		},
		OnBodyRemoved: func(b *physics.Body) {
			ecs.Remove(w, b.Entity(), component.DriverDebugComponent.Kind())
		},
	}
}
