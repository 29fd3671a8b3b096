package chipmunk

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/physync/physics"
)

// footprint is one horizontal slice of a shape, in body-local Chipmunk
// coordinates (world X, world Z).
type footprint struct {
	box    bool
	bb     cp.BB
	radius float64
	offset cp.Vector
}

func (f footprint) area() float64 {
	if f.box {
		return f.bb.Area()
	}
	return math.Pi * f.radius * f.radius
}

func (f footprint) moment(mass float64) float64 {
	if f.box {
		return cp.MomentForBox2(mass, f.bb)
	}
	return cp.MomentForCircle(mass, 0, f.radius, f.offset)
}

func (f footprint) shape(body *cp.Body) *cp.Shape {
	if f.box {
		return cp.NewBox2(body, f.bb, 0)
	}
	return cp.NewCircle(body, f.radius, f.offset)
}

// footprints flattens shape onto the horizontal plane.
func footprints(shape physics.Shape, offset mgl64.Vec3) ([]footprint, error) {
	switch s := shape.(type) {
	case *physics.Box:
		hx, hz := s.HalfExtents.X(), s.HalfExtents.Z()
		return []footprint{{
			box: true,
			bb:  cp.BB{L: offset.X() - hx, B: offset.Z() - hz, R: offset.X() + hx, T: offset.Z() + hz},
		}}, nil
	case *physics.Sphere:
		return []footprint{{radius: s.Radius, offset: planar(offset)}}, nil
	case *physics.Capsule:
		return []footprint{{radius: s.Radius, offset: planar(offset)}}, nil
	case *physics.Compound:
		var out []footprint
		for _, child := range s.Children {
			fs, err := footprints(child.Shape, offset.Add(child.Offset))
			if err != nil {
				return nil, err
			}
			out = append(out, fs...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unsupported shape %T", physics.ErrInvalidShape, shape)
	}
}

// momentFor spreads mass over the footprints by area.
func momentFor(fs []footprint, mass float64) float64 {
	var total float64
	for _, f := range fs {
		total += f.area()
	}
	if total <= 0 {
		return 0
	}
	var moment float64
	for _, f := range fs {
		moment += f.moment(mass * f.area() / total)
	}
	return moment
}

func planar(v mgl64.Vec3) cp.Vector {
	return cp.Vector{X: v.X(), Y: v.Z()}
}
