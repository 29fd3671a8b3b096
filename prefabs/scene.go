package prefabs

import (
	"fmt"
	"log"
	"reflect"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/physync/ecs"
	"github.com/milk9111/physync/ecs/component"
	"github.com/milk9111/physync/ecs/system"
	"github.com/milk9111/physync/physics"
	"github.com/milk9111/physync/physics/script"
)

// ScriptLoader returns the source of a named driver script.
type ScriptLoader func(name string) ([]byte, error)

type SceneOption func(*Scene)

func WithScriptLoader(fn ScriptLoader) SceneOption {
	return func(s *Scene) {
		if fn != nil {
			s.loadScript = fn
		}
	}
}

func WithLogger(l *log.Logger) SceneOption {
	return func(s *Scene) {
		if l != nil {
			s.logger = l
		}
	}
}

type sceneEntity struct {
	entity  ecs.Entity
	def     entityDef
	shapeID string
	driver  physics.Driver
}

// Scene is a scene spec applied to a world. Applying a newer spec only
// touches the entities whose definition changed.
type Scene struct {
	name       string
	world      WorldSpec
	shapes     map[string]ShapeSpec
	entities   map[string]*sceneEntity
	order      []string
	loadScript ScriptLoader
	logger     *log.Logger
}

func NewScene(opts ...SceneOption) *Scene {
	s := &Scene{
		shapes:     make(map[string]ShapeSpec),
		entities:   make(map[string]*sceneEntity),
		loadScript: LoadScript,
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BuildScene applies spec to an empty scene.
func BuildScene(w *ecs.World, ps *system.PhysicsSystem, spec *SceneSpec, opts ...SceneOption) (*Scene, error) {
	s := NewScene(opts...)
	if err := s.Apply(w, ps, spec); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scene) Name() string {
	return s.name
}

// Names returns the entity names in spec order.
func (s *Scene) Names() []string {
	return slices.Clone(s.order)
}

func (s *Scene) Entity(name string) (ecs.Entity, bool) {
	se, ok := s.entities[name]
	if !ok {
		return 0, false
	}
	return se.entity, true
}

func (s *Scene) Driver(name string) physics.Driver {
	if se, ok := s.entities[name]; ok {
		return se.driver
	}
	return nil
}

// Apply brings the world in line with spec. The whole spec is validated
// before anything is changed. World settings are fixed once the physics
// system exists, so changes to them are only logged.
func (s *Scene) Apply(w *ecs.World, ps *system.PhysicsSystem, spec *SceneSpec) error {
	if spec == nil {
		return fmt.Errorf("prefabs: nil scene")
	}

	shapes := make(map[string]physics.Shape, len(spec.Shapes))
	for _, shapeSpec := range spec.Shapes {
		if shapeSpec.ID == "" {
			return fmt.Errorf("prefabs: scene %q: shape without id", spec.Name)
		}
		shape, err := shapeSpec.Build()
		if err != nil {
			return fmt.Errorf("prefabs: scene %q: shape %q: %w", spec.Name, shapeSpec.ID, err)
		}
		shapes[shapeSpec.ID] = shape
	}

	defs := make(map[string]entityDef, len(spec.Entities))
	order := make([]string, 0, len(spec.Entities))
	for _, entitySpec := range spec.Entities {
		if entitySpec.Name == "" {
			return fmt.Errorf("prefabs: scene %q: entity without name", spec.Name)
		}
		if _, dup := defs[entitySpec.Name]; dup {
			return fmt.Errorf("prefabs: scene %q: duplicate entity %q", spec.Name, entitySpec.Name)
		}
		def, err := decodeEntity(entitySpec)
		if err != nil {
			return err
		}
		defs[entitySpec.Name] = def
		order = append(order, entitySpec.Name)
	}

	if s.name != "" && !reflect.DeepEqual(s.world, spec.World) {
		s.logger.Printf("prefabs: scene %q: world settings changed, restart to apply them", spec.Name)
	}
	s.name = spec.Name
	s.world = spec.World

	changedShapes := make(map[string]bool)
	for _, shapeSpec := range spec.Shapes {
		if prev, ok := s.shapes[shapeSpec.ID]; ok && !reflect.DeepEqual(prev, shapeSpec) {
			changedShapes[shapeSpec.ID] = true
		}
		s.shapes[shapeSpec.ID] = shapeSpec
		ps.Shapes().Register(shapeSpec.ID, shapes[shapeSpec.ID])
	}

	for _, name := range s.order {
		if _, keep := defs[name]; !keep {
			ecs.DestroyEntity(w, s.entities[name].entity)
			delete(s.entities, name)
		}
	}

	for _, name := range order {
		def := defs[name]
		prev, exists := s.entities[name]
		switch {
		case !exists:
		case !reflect.DeepEqual(prev.def.Shape, def.Shape) || prev.def.Mass != def.Mass || changedShapes[prev.shapeID]:
			// shape and mass are fixed for a body's lifetime
			ecs.DestroyEntity(w, prev.entity)
			exists = false
		}

		if !exists {
			se, err := s.spawn(w, ps, name, def)
			if err != nil {
				return err
			}
			s.entities[name] = se
			continue
		}

		if prev.def.Spawn != def.Spawn {
			if err := addSpawnTransform(w, prev.entity, def.Spawn); err != nil {
				return fmt.Errorf("prefabs: entity %q: %w", name, err)
			}
		}
		if !reflect.DeepEqual(prev.def.Driver, def.Driver) {
			d, err := s.buildDriver(name, def.Driver)
			if err != nil {
				return err
			}
			ps.SetDriver(prev.entity, d)
			prev.driver = d
		}
		prev.def = def
	}

	s.order = order
	return nil
}

func (s *Scene) spawn(w *ecs.World, ps *system.PhysicsSystem, name string, def entityDef) (*sceneEntity, error) {
	shapeID := def.Shape.ID
	if def.Shape.Inline() {
		shape, err := def.Shape.Build()
		if err != nil {
			return nil, fmt.Errorf("prefabs: entity %q: %w", name, err)
		}
		if shapeID == "" {
			shapeID = ps.Shapes().RegisterAuto(shape)
		} else {
			ps.Shapes().Register(shapeID, shape)
		}
	}

	d, err := s.buildDriver(name, def.Driver)
	if err != nil {
		return nil, err
	}

	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.ShapeComponent.Kind(), &component.Shape{ID: shapeID}); err != nil {
		return nil, fmt.Errorf("prefabs: entity %q: %w", name, err)
	}
	if err := ecs.Add(w, e, component.MassComponent.Kind(), &component.Mass{Value: def.Mass.Value}); err != nil {
		return nil, fmt.Errorf("prefabs: entity %q: %w", name, err)
	}
	if err := addSpawnTransform(w, e, def.Spawn); err != nil {
		return nil, fmt.Errorf("prefabs: entity %q: %w", name, err)
	}
	if d != nil {
		ps.SetDriver(e, d)
	}

	return &sceneEntity{entity: e, def: def, shapeID: shapeID, driver: d}, nil
}

func addSpawnTransform(w *ecs.World, e ecs.Entity, spec SpawnTransformComponentSpec) error {
	return ecs.Add(w, e, component.SpawnTransformComponent.Kind(), &component.SpawnTransform{
		Location: mgl64.Vec3(spec.Location),
		Rotation: spec.Rotation(),
	})
}

func (s *Scene) buildDriver(name string, spec *DriverComponentSpec) (physics.Driver, error) {
	if spec == nil {
		return nil, nil
	}
	if spec.Script == "" {
		d := physics.NewMotionDriver()
		spec.configure(d)
		return d, nil
	}

	src, err := s.loadScript(spec.Script)
	if err != nil {
		return nil, fmt.Errorf("prefabs: entity %q: load script %s: %w", name, spec.Script, err)
	}
	d, err := script.NewDriver(spec.Script, src, script.WithLogger(s.logger), script.WithState(spec.State))
	if err != nil {
		return nil, fmt.Errorf("prefabs: entity %q: %w", name, err)
	}
	spec.configure(d.MotionDriver)
	return d, nil
}

// ReloadScript rebuilds every driver that runs the named script and binds
// the new drivers. It returns how many were replaced.
func (s *Scene) ReloadScript(ps *system.PhysicsSystem, name string) (int, error) {
	clean := scriptPath(name)
	replaced := 0
	for _, n := range s.order {
		se := s.entities[n]
		if se.def.Driver == nil || scriptPath(se.def.Driver.Script) != clean {
			continue
		}
		d, err := s.buildDriver(n, se.def.Driver)
		if err != nil {
			return replaced, err
		}
		ps.SetDriver(se.entity, d)
		se.driver = d
		replaced++
	}
	return replaced, nil
}
