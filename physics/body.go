package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/physync/ecs"
)

// Body binds one entity to one engine body. Bodies are owned by the
// simulation and must only be touched from the simulation goroutine.
type Body struct {
	entity  ecs.Entity
	shapeID string
	mass    float64
	rigid   RigidBody
	driver  Driver
}

func NewBody(e ecs.Entity, shapeID string, mass float64, rigid RigidBody) *Body {
	return &Body{entity: e, shapeID: shapeID, mass: mass, rigid: rigid}
}

func (b *Body) Entity() ecs.Entity {
	return b.entity
}

func (b *Body) ShapeID() string {
	return b.shapeID
}

func (b *Body) Mass() float64 {
	return b.mass
}

func (b *Body) Static() bool {
	return b.mass == 0
}

func (b *Body) Rigid() RigidBody {
	return b.rigid
}

func (b *Body) Location() mgl64.Vec3 {
	return b.rigid.Location()
}

func (b *Body) Rotation() mgl64.Quat {
	return b.rigid.Rotation()
}

// Teleport moves the body without imparting any velocity.
func (b *Body) Teleport(location mgl64.Vec3, rotation mgl64.Quat) {
	b.rigid.SetLocation(location)
	b.rigid.SetRotation(rotation)
}

func (b *Body) LinearVelocity() mgl64.Vec3 {
	return b.rigid.LinearVelocity()
}

func (b *Body) SetLinearVelocity(v mgl64.Vec3) {
	b.rigid.SetLinearVelocity(v)
}

func (b *Body) AngularVelocity() mgl64.Vec3 {
	return b.rigid.AngularVelocity()
}

func (b *Body) SetAngularVelocity(v mgl64.Vec3) {
	b.rigid.SetAngularVelocity(v)
}

func (b *Body) Active() bool {
	return b.rigid.Active()
}

func (b *Body) Driver() Driver {
	return b.driver
}

// SetDriver binds d, detaching the previous driver first. A nil d only
// detaches.
func (b *Body) SetDriver(d Driver) {
	if b.driver != nil {
		prev := b.driver
		b.driver = nil
		prev.OnDetach(b)
	}
	if d == nil {
		return
	}
	b.driver = d
	d.OnAttach(b)
}

// Step runs the bound driver, if any.
func (b *Body) Step(dt float64) {
	if b.driver != nil {
		b.driver.OnStep(dt)
	}
}

func (b *Body) String() string {
	return fmt.Sprintf("Body{entity=%v shape=%q mass=%v}", b.entity, b.shapeID, b.mass)
}
