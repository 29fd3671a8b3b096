package component

// Shape names the collision shape registered for an entity's body.
type Shape struct {
	ID string
}

// Mass of a physical entity. A mass of zero makes the body static.
type Mass struct {
	Value float64
}

func (m Mass) Static() bool {
	return m.Value == 0
}

var ShapeComponent = NewComponent[Shape]("shape")
var MassComponent = NewComponent[Mass]("mass")
