package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var ErrInvalidShape = errors.New("physics: invalid shape")

// Shape is collision geometry shared by any number of bodies. Shapes are
// immutable once registered.
type Shape interface {
	// Bounds returns the local axis-aligned bounds of the shape.
	Bounds() (min, max mgl64.Vec3)
	Validate() error
}

// Box is an axis-aligned box centred on the body origin.
type Box struct {
	HalfExtents mgl64.Vec3
}

func NewBox(hx, hy, hz float64) *Box {
	return &Box{HalfExtents: mgl64.Vec3{hx, hy, hz}}
}

func (b *Box) Bounds() (mgl64.Vec3, mgl64.Vec3) {
	return b.HalfExtents.Mul(-1), b.HalfExtents
}

func (b *Box) Validate() error {
	for i, v := range b.HalfExtents {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: box half extent %d is %v", ErrInvalidShape, i, v)
		}
	}
	return nil
}

type Sphere struct {
	Radius float64
}

func NewSphere(radius float64) *Sphere {
	return &Sphere{Radius: radius}
}

func (s *Sphere) Bounds() (mgl64.Vec3, mgl64.Vec3) {
	r := s.Radius
	return mgl64.Vec3{-r, -r, -r}, mgl64.Vec3{r, r, r}
}

func (s *Sphere) Validate() error {
	if !(s.Radius > 0) || math.IsInf(s.Radius, 0) {
		return fmt.Errorf("%w: sphere radius %v", ErrInvalidShape, s.Radius)
	}
	return nil
}

// Capsule is a capsule aligned with the Y axis. Height is the length of the
// cylinder between the two hemisphere centres.
type Capsule struct {
	Radius float64
	Height float64
}

func (c *Capsule) Bounds() (mgl64.Vec3, mgl64.Vec3) {
	r := c.Radius
	h := c.Height/2 + r
	return mgl64.Vec3{-r, -h, -r}, mgl64.Vec3{r, h, r}
}

func (c *Capsule) Validate() error {
	if !(c.Radius > 0) || math.IsInf(c.Radius, 0) || !(c.Height >= 0) || math.IsInf(c.Height, 0) {
		return fmt.Errorf("%w: capsule radius %v height %v", ErrInvalidShape, c.Radius, c.Height)
	}
	return nil
}

// NewCapsule builds a capsule with the given radius and total height. With
// centerAtBottom the capsule is wrapped in a compound so the body origin sits
// at the bottom of the capsule, which suits upright characters.
func NewCapsule(radius, height float64, centerAtBottom bool) Shape {
	capsule := &Capsule{Radius: radius, Height: math.Max(height-2*radius, 0)}
	if !centerAtBottom {
		return capsule
	}
	return &Compound{Children: []ChildShape{
		{Shape: capsule, Offset: mgl64.Vec3{0, height * 0.5, 0}},
	}}
}

type ChildShape struct {
	Shape  Shape
	Offset mgl64.Vec3
}

// Compound groups child shapes, each offset from the body origin.
type Compound struct {
	Children []ChildShape
}

func (c *Compound) Bounds() (mgl64.Vec3, mgl64.Vec3) {
	if len(c.Children) == 0 {
		return mgl64.Vec3{}, mgl64.Vec3{}
	}
	lo := mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, child := range c.Children {
		cmin, cmax := child.Shape.Bounds()
		cmin, cmax = cmin.Add(child.Offset), cmax.Add(child.Offset)
		for i := 0; i < 3; i++ {
			lo[i] = math.Min(lo[i], cmin[i])
			hi[i] = math.Max(hi[i], cmax[i])
		}
	}
	return lo, hi
}

func (c *Compound) Validate() error {
	if len(c.Children) == 0 {
		return fmt.Errorf("%w: empty compound", ErrInvalidShape)
	}
	for i, child := range c.Children {
		if child.Shape == nil {
			return fmt.Errorf("%w: compound child %d is nil", ErrInvalidShape, i)
		}
		if err := child.Shape.Validate(); err != nil {
			return fmt.Errorf("compound child %d: %w", i, err)
		}
	}
	return nil
}
