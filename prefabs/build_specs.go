package prefabs

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/physync/physics"
	"gopkg.in/yaml.v3"
)

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

// ShapeSpec describes a collision shape. As an entity's shape component a
// spec without a type refers to a scene shape by id; with a type it is
// defined inline and registered under its id, or an automatic one.
type ShapeSpec struct {
	ID             string      `yaml:"id"`
	Type           string      `yaml:"type"`
	HalfExtents    [3]float64  `yaml:"half_extents"`
	Radius         float64     `yaml:"radius"`
	Height         float64     `yaml:"height"`
	CenterAtBottom bool        `yaml:"center_at_bottom"`
	Offset         [3]float64  `yaml:"offset"`
	Children       []ShapeSpec `yaml:"children"`
}

func (s ShapeSpec) Inline() bool {
	return s.Type != ""
}

func (s ShapeSpec) Build() (physics.Shape, error) {
	var shape physics.Shape
	switch s.Type {
	case "box":
		shape = physics.NewBox(s.HalfExtents[0], s.HalfExtents[1], s.HalfExtents[2])
	case "sphere":
		shape = physics.NewSphere(s.Radius)
	case "capsule":
		shape = physics.NewCapsule(s.Radius, s.Height, s.CenterAtBottom)
	case "compound":
		compound := &physics.Compound{}
		for i, child := range s.Children {
			built, err := child.Build()
			if err != nil {
				return nil, fmt.Errorf("child %d: %w", i, err)
			}
			compound.Children = append(compound.Children, physics.ChildShape{
				Shape:  built,
				Offset: mgl64.Vec3(child.Offset),
			})
		}
		shape = compound
	case "":
		return nil, fmt.Errorf("%w: shape %q has no type", physics.ErrInvalidShape, s.ID)
	default:
		return nil, fmt.Errorf("%w: unknown shape type %q", physics.ErrInvalidShape, s.Type)
	}
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	return shape, nil
}

type MassComponentSpec struct {
	Value float64 `yaml:"value"`
}

// SpawnTransformComponentSpec places an entity. Angles are in degrees and
// applied yaw, then pitch, then roll.
type SpawnTransformComponentSpec struct {
	Location [3]float64 `yaml:"location"`
	Yaw      float64    `yaml:"yaw"`
	Pitch    float64    `yaml:"pitch"`
	Roll     float64    `yaml:"roll"`
}

func (s SpawnTransformComponentSpec) Rotation() mgl64.Quat {
	yaw := mgl64.QuatRotate(mgl64.DegToRad(s.Yaw), mgl64.Vec3{0, 1, 0})
	pitch := mgl64.QuatRotate(mgl64.DegToRad(s.Pitch), mgl64.Vec3{1, 0, 0})
	roll := mgl64.QuatRotate(mgl64.DegToRad(s.Roll), mgl64.Vec3{0, 0, 1})
	return yaw.Mul(pitch).Mul(roll).Normalize()
}

// DriverComponentSpec configures a motion driver. With a script the
// driver's intent comes from that script and the fields below only seed it.
type DriverComponentSpec struct {
	Script        string         `yaml:"script"`
	State         map[string]any `yaml:"state"`
	MoveDirection [3]float64     `yaml:"move_direction"`
	MoveSpeed     *float64       `yaml:"move_speed"`
	ViewDirection *[3]float64    `yaml:"view_direction"`
	TurningSpeed  *float64       `yaml:"turning_speed"`
}

func (s DriverComponentSpec) configure(d *physics.MotionDriver) {
	d.SetMoveDirection(mgl64.Vec3(s.MoveDirection))
	if s.MoveSpeed != nil {
		d.SetMoveSpeed(*s.MoveSpeed)
	}
	if s.ViewDirection != nil {
		d.SetViewDirection(mgl64.Vec3(*s.ViewDirection))
	}
	if s.TurningSpeed != nil {
		d.SetTurningSpeed(*s.TurningSpeed)
	}
}

// entityDef is an entity spec with its components decoded.
type entityDef struct {
	Shape  ShapeSpec
	Mass   MassComponentSpec
	Spawn  SpawnTransformComponentSpec
	Driver *DriverComponentSpec
}

func decodeEntity(spec EntityBuildSpec) (entityDef, error) {
	var def entityDef
	for key, raw := range spec.Components {
		var err error
		switch key {
		case "shape":
			def.Shape, err = DecodeComponentSpec[ShapeSpec](raw)
		case "mass":
			def.Mass, err = DecodeComponentSpec[MassComponentSpec](raw)
		case "spawn_transform":
			def.Spawn, err = DecodeComponentSpec[SpawnTransformComponentSpec](raw)
		case "driver":
			var d DriverComponentSpec
			d, err = DecodeComponentSpec[DriverComponentSpec](raw)
			def.Driver = &d
		default:
			err = errors.New("unknown component")
		}
		if err != nil {
			return def, fmt.Errorf("prefabs: entity %q: component %s: %w", spec.Name, key, err)
		}
	}
	if def.Shape.ID == "" && !def.Shape.Inline() {
		return def, fmt.Errorf("prefabs: entity %q: missing shape", spec.Name)
	}
	if def.Mass.Value < 0 {
		return def, fmt.Errorf("prefabs: entity %q: negative mass %v", spec.Name, def.Mass.Value)
	}
	if def.Shape.Inline() {
		if _, err := def.Shape.Build(); err != nil {
			return def, fmt.Errorf("prefabs: entity %q: %w", spec.Name, err)
		}
	}
	return def, nil
}
