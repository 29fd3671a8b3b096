package component

import "github.com/go-gl/mathgl/mgl64"

// SpawnTransform places a body when it is created. Writing it again
// teleports the live body.
type SpawnTransform struct {
	Location mgl64.Vec3
	Rotation mgl64.Quat
}

// NewSpawnTransform returns a spawn at location with the identity rotation.
func NewSpawnTransform(location mgl64.Vec3) *SpawnTransform {
	return &SpawnTransform{Location: location, Rotation: mgl64.QuatIdent()}
}

// Position mirrors the live transform of a simulated body.
type Position struct {
	Location mgl64.Vec3
	Rotation mgl64.Quat
}

var SpawnTransformComponent = NewComponent[SpawnTransform]("spawn_transform")
var PositionComponent = NewComponent[Position]("position")
