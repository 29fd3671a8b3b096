// Package script drives physics bodies from tengo scripts.
//
// A script defines a function
//
//	update := func(engine, state) { ... }
//
// which runs before every physics step. engine exposes the body's location,
// facing, velocity and the step time, plus move, view, speed and turning
// functions that set the steering intent. state is a map kept between steps.
package script

import (
	"fmt"
	"log"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/physync/physics"
)

const dispatchScript = `
update(__engine, __state)
`

// Driver is a physics.Driver whose intent comes from a script. Steering is
// delegated to an embedded MotionDriver.
type Driver struct {
	*physics.MotionDriver

	name     string
	compiled *tengo.Compiled
	state    *tengo.Map
	logger   *log.Logger
}

var _ physics.Driver = (*Driver)(nil)

type Option func(*Driver)

func WithLogger(l *log.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithState seeds the script's persistent state map.
func WithState(values map[string]any) Option {
	return func(d *Driver) {
		for k, v := range values {
			obj, err := tengo.FromInterface(v)
			if err != nil {
				d.logger.Printf("script: %s: state %q: %v", d.name, k, err)
				continue
			}
			d.state.Value[k] = obj
		}
	}
}

// NewDriver compiles src. name is only used in log messages.
func NewDriver(name string, src []byte, opts ...Option) (*Driver, error) {
	s := tengo.NewScript(append(append([]byte(nil), src...), []byte("\n"+dispatchScript)...))
	_ = s.Add("__engine", map[string]any{})
	_ = s.Add("__state", map[string]any{})
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}

	d := &Driver{
		MotionDriver: physics.NewMotionDriver(),
		name:         name,
		compiled:     compiled,
		state:        &tengo.Map{Value: map[string]tengo.Object{}},
		logger:       log.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

func (d *Driver) Name() string {
	return d.name
}

// State returns a copy of the script's persistent state.
func (d *Driver) State() map[string]any {
	out := make(map[string]any, len(d.state.Value))
	for k, v := range d.state.Value {
		out[k] = tengo.ToInterface(v)
	}
	return out
}

// OnStep runs the script, then steers with the resulting intent. A failing
// script is logged and the previous intent is kept.
func (d *Driver) OnStep(dt float64) {
	if b := d.Body(); b != nil {
		if err := d.run(b, dt); err != nil {
			d.logger.Printf("script: %s: entity=%v update error: %v", d.name, b.Entity(), err)
		}
	}
	d.MotionDriver.OnStep(dt)
}

func (d *Driver) run(b *physics.Body, dt float64) error {
	engine := d.buildEngine(b, dt)
	if err := d.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := d.compiled.Set("__state", d.state); err != nil {
		return err
	}
	return d.compiled.Run()
}

func (d *Driver) buildEngine(b *physics.Body, dt float64) *tengo.ImmutableMap {
	values := map[string]tengo.Object{
		"location": vecObject(b.Location()),
		"facing":   vecObject(b.Rotation().Rotate(mgl64.Vec3{0, 0, 1})),
		"velocity": vecObject(b.LinearVelocity()),
		"dt":       &tengo.Float{Value: dt},
	}

	values["move"] = &tengo.UserFunction{Name: "move", Value: func(args ...tengo.Object) (tengo.Object, error) {
		v, ok := vecArgs(args)
		if !ok {
			return tengo.FalseValue, nil
		}
		d.SetMoveDirection(v)
		return tengo.TrueValue, nil
	}}

	values["view"] = &tengo.UserFunction{Name: "view", Value: func(args ...tengo.Object) (tengo.Object, error) {
		v, ok := vecArgs(args)
		if !ok {
			return tengo.FalseValue, nil
		}
		d.SetViewDirection(v)
		return tengo.TrueValue, nil
	}}

	values["speed"] = &tengo.UserFunction{Name: "speed", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		s, ok := tengo.ToFloat64(args[0])
		if !ok {
			return tengo.FalseValue, nil
		}
		d.SetMoveSpeed(s)
		return tengo.TrueValue, nil
	}}

	values["turning"] = &tengo.UserFunction{Name: "turning", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		s, ok := tengo.ToFloat64(args[0])
		if !ok {
			return tengo.FalseValue, nil
		}
		d.SetTurningSpeed(s)
		return tengo.TrueValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func vecObject(v mgl64.Vec3) *tengo.Array {
	return &tengo.Array{Value: []tengo.Object{
		&tengo.Float{Value: v.X()},
		&tengo.Float{Value: v.Y()},
		&tengo.Float{Value: v.Z()},
	}}
}

// vecArgs accepts either three numbers or one array of three numbers.
func vecArgs(args []tengo.Object) (mgl64.Vec3, bool) {
	if len(args) == 1 {
		arr, ok := args[0].(*tengo.Array)
		if !ok {
			return mgl64.Vec3{}, false
		}
		args = arr.Value
	}
	if len(args) != 3 {
		return mgl64.Vec3{}, false
	}
	var out mgl64.Vec3
	for i, a := range args {
		f, ok := tengo.ToFloat64(a)
		if !ok {
			return mgl64.Vec3{}, false
		}
		out[i] = f
	}
	return out, true
}
