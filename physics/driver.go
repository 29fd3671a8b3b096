package physics

import "github.com/go-gl/mathgl/mgl64"

// Driver steers a single body. All hooks run on the simulation goroutine.
type Driver interface {
	// OnAttach is called when the driver is bound to b.
	OnAttach(b *Body)
	// OnStep is called before every engine step with the scaled step time.
	OnStep(dt float64)
	// OnDetach is called when the driver is unbound from b or b is removed.
	OnDetach(b *Body)
}

// ViewDirector is implemented by drivers that turn bodies toward a view
// direction.
type ViewDirector interface {
	ViewDirection() mgl64.Vec3
}
