package physics

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// ReferenceRate is the step rate the control law is tuned for. Both the
	// linear and the angular step scale by ReferenceRate * dt.
	ReferenceRate = 60.0
	// Damping is the share of horizontal velocity kept each step.
	Damping = 0.9
	// Epsilon is the smallest change worth writing back to a body.
	Epsilon = 1e-4
)

var (
	forward = mgl64.Vec3{0, 0, 1}
	up      = mgl64.Vec3{0, 1, 0}
)

// MotionDriver moves an upright body along a horizontal move direction and
// turns it toward a view direction. Setters may be called from any goroutine.
type MotionDriver struct {
	mu sync.Mutex

	body         *Body
	moveDir      mgl64.Vec3
	moveSpeed    float64
	viewDir      mgl64.Vec3
	turningSpeed float64
}

func NewMotionDriver() *MotionDriver {
	return &MotionDriver{
		moveSpeed:    1,
		viewDir:      forward,
		turningSpeed: 1,
	}
}

func (d *MotionDriver) OnAttach(b *Body) {
	d.mu.Lock()
	d.body = b
	d.mu.Unlock()
}

func (d *MotionDriver) OnDetach(b *Body) {
	d.mu.Lock()
	if d.body == b {
		d.body = nil
	}
	d.mu.Unlock()
}

// Body returns the body the driver is attached to, or nil.
func (d *MotionDriver) Body() *Body {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.body
}

// SetMoveDirection sets the walk direction. Only the horizontal part is
// used; a zero vector means no intent.
func (d *MotionDriver) SetMoveDirection(dir mgl64.Vec3) {
	d.mu.Lock()
	d.moveDir = horizontal(dir)
	d.mu.Unlock()
}

func (d *MotionDriver) MoveDirection() mgl64.Vec3 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.moveDir
}

func (d *MotionDriver) SetMoveSpeed(speed float64) {
	d.mu.Lock()
	d.moveSpeed = speed
	d.mu.Unlock()
}

func (d *MotionDriver) MoveSpeed() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.moveSpeed
}

// SetViewDirection sets the direction the body turns to face. Zero vectors
// are ignored.
func (d *MotionDriver) SetViewDirection(dir mgl64.Vec3) {
	if dir.Len() < Epsilon {
		return
	}
	d.mu.Lock()
	d.viewDir = dir.Normalize()
	d.mu.Unlock()
}

func (d *MotionDriver) ViewDirection() mgl64.Vec3 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.viewDir
}

func (d *MotionDriver) SetTurningSpeed(speed float64) {
	d.mu.Lock()
	d.turningSpeed = speed
	d.mu.Unlock()
}

func (d *MotionDriver) TurningSpeed() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.turningSpeed
}

func (d *MotionDriver) OnStep(dt float64) {
	d.mu.Lock()
	b := d.body
	moveDir, moveSpeed := d.moveDir, d.moveSpeed
	viewDir, turningSpeed := d.viewDir, d.turningSpeed
	d.mu.Unlock()

	if b == nil {
		return
	}
	move(b, moveDir, moveSpeed, dt)
	turn(b, viewDir, turningSpeed, dt)
}

// move damps the horizontal velocity, then tops it up along dir to the
// desired speed. Vertical velocity is left alone.
func move(b *Body, dir mgl64.Vec3, speed, dt float64) {
	current := b.LinearVelocity()
	velocity := mgl64.Vec3{current.X() * Damping, current.Y(), current.Z() * Damping}

	desired := dir.Mul(ReferenceRate * dt * speed)
	if length := desired.Len(); length > 0 {
		walk := desired.Mul(1 / length)
		existing := velocity.Dot(walk)
		velocity = velocity.Add(walk.Mul(length - existing))
	}

	if velocity.Sub(current).Len() > Epsilon {
		b.SetLinearVelocity(velocity)
	}
}

// turn spins the body about Y toward view, always the short way round.
func turn(b *Body, view mgl64.Vec3, turningSpeed, dt float64) {
	facing := b.Rotation().Rotate(forward)
	angle := angleBetween(facing, view)

	amount := angle * ReferenceRate * dt * turningSpeed
	if facing.Cross(view).Y() < 0 {
		amount = -amount
	}
	if angle > Epsilon {
		b.SetAngularVelocity(up.Mul(amount))
	}
}

func angleBetween(a, b mgl64.Vec3) float64 {
	la, lb := a.Len(), b.Len()
	if la == 0 || lb == 0 {
		return 0
	}
	cos := a.Dot(b) / (la * lb)
	return math.Acos(mgl64.Clamp(cos, -1, 1))
}

func horizontal(v mgl64.Vec3) mgl64.Vec3 {
	h := mgl64.Vec3{v.X(), 0, v.Z()}
	if h.Len() < Epsilon {
		return mgl64.Vec3{}
	}
	return h.Normalize()
}
