package physics

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

var ErrInvalidBroadphase = errors.New("physics: invalid broadphase")

// Broadphase selects the engine's spatial index.
type Broadphase string

const (
	BroadphaseDBVT        Broadphase = "dbvt"
	BroadphaseSpatialHash Broadphase = "spatial_hash"
)

func ParseBroadphase(s string) (Broadphase, error) {
	switch Broadphase(s) {
	case "", BroadphaseDBVT:
		return BroadphaseDBVT, nil
	case BroadphaseSpatialHash:
		return BroadphaseSpatialHash, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidBroadphase, s)
	}
}

// SpaceConfig is fixed when a space is created.
type SpaceConfig struct {
	WorldMin   mgl64.Vec3
	WorldMax   mgl64.Vec3
	Broadphase Broadphase
	// Gravity is the vertical acceleration applied to dynamic bodies.
	Gravity float64
	// Ground, when set, is the height of an infinite floor plane.
	Ground *float64
}

// Space is a simulated physics world.
type Space interface {
	// CreateBody builds a body for shape. A mass of zero makes it static.
	// The body is not simulated until AddBody is called.
	CreateBody(shape Shape, mass float64) (RigidBody, error)
	AddBody(b RigidBody) error
	RemoveBody(b RigidBody)
	Step(dt float64)
	Destroy()
}

// RigidBody is the engine side of a simulated body.
type RigidBody interface {
	Location() mgl64.Vec3
	SetLocation(mgl64.Vec3)
	Rotation() mgl64.Quat
	SetRotation(mgl64.Quat)
	LinearVelocity() mgl64.Vec3
	SetLinearVelocity(mgl64.Vec3)
	AngularVelocity() mgl64.Vec3
	SetAngularVelocity(mgl64.Vec3)
	Static() bool
	// Active reports whether a dynamic body is awake.
	Active() bool
}
