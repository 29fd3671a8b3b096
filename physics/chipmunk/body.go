package chipmunk

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

var (
	unitY = mgl64.Vec3{0, 1, 0}
	unitZ = mgl64.Vec3{0, 0, 1}
)

// Body is a rigid body simulated in the horizontal plane by Chipmunk. Height
// and vertical velocity are integrated by the owning Space.
type Body struct {
	owner  *Space
	body   *cp.Body
	shapes []*cp.Shape
	static bool
	added  bool

	y  float64
	vy float64
	// vertical extent of the shape relative to the body origin
	minY, maxY float64
	// rotation left over once yaw is removed
	tilt mgl64.Quat
}

func (b *Body) Location() mgl64.Vec3 {
	p := b.body.Position()
	return mgl64.Vec3{p.X, b.y, p.Y}
}

func (b *Body) SetLocation(loc mgl64.Vec3) {
	b.y = loc.Y()
	b.reindex(func() {
		b.body.SetPosition(cp.Vector{X: loc.X(), Y: loc.Z()})
	})
}

func (b *Body) Rotation() mgl64.Quat {
	return mgl64.QuatRotate(-b.body.Angle(), unitY).Mul(b.tilt)
}

// SetRotation splits q into a yaw about Y, which Chipmunk simulates, and a
// tilt that is carried along unchanged.
func (b *Body) SetRotation(q mgl64.Quat) {
	q = q.Normalize()
	fwd := q.Rotate(unitZ)
	var yaw float64
	if math.Hypot(fwd.X(), fwd.Z()) > 1e-9 {
		yaw = math.Atan2(fwd.X(), fwd.Z())
	}
	b.tilt = mgl64.QuatRotate(yaw, unitY).Inverse().Mul(q).Normalize()
	b.reindex(func() {
		b.body.SetAngle(-yaw)
	})
}

func (b *Body) LinearVelocity() mgl64.Vec3 {
	if b.static {
		return mgl64.Vec3{}
	}
	v := b.body.Velocity()
	return mgl64.Vec3{v.X, b.vy, v.Y}
}

func (b *Body) SetLinearVelocity(v mgl64.Vec3) {
	if b.static {
		return
	}
	b.vy = v.Y()
	b.body.SetVelocity(v.X(), v.Z())
}

func (b *Body) AngularVelocity() mgl64.Vec3 {
	if b.static {
		return mgl64.Vec3{}
	}
	return mgl64.Vec3{0, -b.body.AngularVelocity(), 0}
}

// SetAngularVelocity keeps only the Y component; bodies never tip over.
func (b *Body) SetAngularVelocity(w mgl64.Vec3) {
	if b.static {
		return
	}
	b.body.SetAngularVelocity(-w.Y())
}

func (b *Body) Static() bool {
	return b.static
}

func (b *Body) Active() bool {
	if b.static {
		return false
	}
	return !b.body.IsSleeping() || b.vy != 0
}

// reindex applies move and, for static bodies already in a space, re-inserts
// the shapes so the static index sees the new placement.
func (b *Body) reindex(move func()) {
	if !b.static || !b.added {
		move()
		return
	}
	space := b.owner.space
	for _, shape := range b.shapes {
		space.RemoveShape(shape)
	}
	move()
	for _, shape := range b.shapes {
		space.AddShape(shape)
	}
}

// integrate advances the vertical axis and keeps the body above the ground
// and inside the world's vertical extent.
func (b *Body) integrate(dt, gravity float64, floor, ceiling float64) {
	b.vy += gravity * dt
	b.y += b.vy * dt

	if bottom := b.y + b.minY; bottom < floor {
		b.y = floor - b.minY
		if b.vy < 0 {
			b.vy = 0
		}
	}
	if top := b.y + b.maxY; top > ceiling {
		b.y = ceiling - b.maxY
		if b.vy > 0 {
			b.vy = 0
		}
	}
}

func (b *Body) overlapsVertically(o *Body) bool {
	return b.y+b.minY <= o.y+o.maxY && o.y+o.minY <= b.y+b.maxY
}
