package component

import "github.com/go-gl/mathgl/mgl64"

type BodyState int

const (
	BodyStatic BodyState = iota
	BodyActive
	BodyInactive
)

func (s BodyState) String() string {
	switch s {
	case BodyStatic:
		return "static"
	case BodyActive:
		return "active"
	case BodyInactive:
		return "inactive"
	default:
		return "unknown"
	}
}

// BodyStatus reports whether a body is static, awake or sleeping.
type BodyStatus struct {
	State BodyState
}

// DriverDebug carries the steering state of a driven body for overlays.
type DriverDebug struct {
	LinearVelocity mgl64.Vec3
	ViewDirection  mgl64.Vec3
}

var BodyStatusComponent = NewComponent[BodyStatus]("body_status")
var DriverDebugComponent = NewComponent[DriverDebug]("driver_debug")
