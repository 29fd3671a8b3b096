package system

import (
	"log"
	"slices"

	"github.com/milk9111/physync/ecs"
	"github.com/milk9111/physync/ecs/component"
	"github.com/milk9111/physync/physics"
)

// bodyBridge keeps one body per entity holding Shape, Mass and
// SpawnTransform. Only SpawnTransform is tracked after creation.
type bodyBridge struct {
	shapes    *physics.ShapeRegistry
	space     physics.Space
	logger    *log.Logger
	container *ecs.EntityContainer

	bodies map[ecs.Entity]*physics.Body
	order  []*physics.Body
	// body each driver is bound to; a driver drives at most one body
	drivers map[physics.Driver]*physics.Body
	// entities whose body could not be built, with the reason last logged
	rejected map[ecs.Entity]string
}

func newBodyBridge(shapes *physics.ShapeRegistry, space physics.Space, logger *log.Logger) *bodyBridge {
	container := ecs.NewEntityContainer(
		component.ShapeComponent.ID(),
		component.MassComponent.ID(),
		component.SpawnTransformComponent.ID(),
	).Watch(component.SpawnTransformComponent.ID())

	return &bodyBridge{
		shapes:    shapes,
		space:     space,
		logger:    logger,
		container: container,
		bodies:    make(map[ecs.Entity]*physics.Body),
		drivers:   make(map[physics.Driver]*physics.Body),
		rejected:  make(map[ecs.Entity]string),
	}
}

// sync applies one diff of the entity store: removals first, then
// additions, then teleports.
func (br *bodyBridge) sync(w *ecs.World, bus *ListenerBus) {
	diff := br.container.Update(w)

	for _, e := range diff.Removed {
		br.remove(e, bus)
	}
	for e := range br.rejected {
		if !br.container.Qualifies(w, e) {
			delete(br.rejected, e)
		}
	}
	for _, e := range diff.Added {
		if _, exists := br.bodies[e]; exists {
			continue
		}
		if err := br.add(w, e, bus); err != nil {
			br.reject(e, err.Error())
			br.container.Forget(e)
		}
	}
	for _, e := range diff.Changed {
		body, ok := br.bodies[e]
		if !ok {
			continue
		}
		spawn, ok := ecs.Get(w, e, component.SpawnTransformComponent.Kind())
		if !ok {
			continue
		}
		body.Teleport(spawn.Location, spawn.Rotation)
		bus.bodyUpdated(body)
	}
}

func (br *bodyBridge) add(w *ecs.World, e ecs.Entity, bus *ListenerBus) error {
	shapeComp, _ := ecs.Get(w, e, component.ShapeComponent.Kind())
	massComp, _ := ecs.Get(w, e, component.MassComponent.Kind())
	spawn, _ := ecs.Get(w, e, component.SpawnTransformComponent.Kind())

	if massComp.Value < 0 {
		return errNegativeMass(massComp.Value)
	}
	shape, err := br.shapes.Get(shapeComp.ID)
	if err != nil {
		return err
	}
	rigid, err := br.space.CreateBody(shape, massComp.Value)
	if err != nil {
		return err
	}

	body := physics.NewBody(e, shapeComp.ID, massComp.Value, rigid)
	body.Teleport(spawn.Location, spawn.Rotation)
	if err := br.space.AddBody(rigid); err != nil {
		return err
	}

	delete(br.rejected, e)
	br.bodies[e] = body
	br.order = append(br.order, body)
	bus.bodyAdded(body)
	return nil
}

func (br *bodyBridge) remove(e ecs.Entity, bus *ListenerBus) {
	body, ok := br.bodies[e]
	if !ok {
		return
	}
	br.space.RemoveBody(body.Rigid())
	br.bind(body, nil)
	bus.bodyRemoved(body)

	delete(br.bodies, e)
	if i := slices.Index(br.order, body); i >= 0 {
		br.order = slices.Delete(br.order, i, i+1)
	}
}

// bind sets the driver of body to d. A driver already bound to another body
// is detached from it first.
func (br *bodyBridge) bind(body *physics.Body, d physics.Driver) {
	if prev := body.Driver(); prev != nil {
		delete(br.drivers, prev)
	}
	if d != nil {
		if other, ok := br.drivers[d]; ok && other != body {
			other.SetDriver(nil)
		}
	}
	body.SetDriver(d)
	if d != nil {
		br.drivers[d] = body
	}
}

// reject logs why an entity has no body, once per distinct reason.
func (br *bodyBridge) reject(e ecs.Entity, reason string) {
	if br.rejected[e] == reason {
		return
	}
	br.rejected[e] = reason
	br.logger.Printf("physics: entity %v has no body: %s", e, reason)
}

func (br *bodyBridge) removeAll(bus *ListenerBus) {
	for len(br.order) > 0 {
		br.remove(br.order[len(br.order)-1].Entity(), bus)
	}
	br.container.Clear()
	clear(br.rejected)
}

func (br *bodyBridge) body(e ecs.Entity) (*physics.Body, bool) {
	b, ok := br.bodies[e]
	return b, ok
}

// ordered returns the live bodies in creation order.
func (br *bodyBridge) ordered() []*physics.Body {
	return slices.Clone(br.order)
}
