package system

import (
	"errors"
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/physync/ecs"
	"github.com/milk9111/physync/ecs/component"
	"github.com/milk9111/physync/physics"
	"github.com/milk9111/physync/physics/chipmunk"
)

var ErrNegativeMass = errors.New("physics: negative mass")

func errNegativeMass(m float64) error {
	return fmt.Errorf("%w: %v", ErrNegativeMass, m)
}

const (
	DefaultWorldExtent = 10000.0
	DefaultGravity     = -9.81
	DefaultFixedStep   = 1.0 / 60.0
)

// Config is fixed when the system is created.
type Config struct {
	WorldMin   mgl64.Vec3
	WorldMax   mgl64.Vec3
	Broadphase physics.Broadphase
	// Speed scales simulated time. Zero pauses the simulation.
	Speed   float64
	Gravity float64
	// Ground, when set, is the height of a floor plane.
	Ground *float64
	// FixedStep is the dt used by Update.
	FixedStep float64
}

func DefaultConfig() Config {
	ext := mgl64.Vec3{DefaultWorldExtent, DefaultWorldExtent, DefaultWorldExtent}
	return Config{
		WorldMin:   ext.Mul(-1),
		WorldMax:   ext,
		Broadphase: physics.BroadphaseDBVT,
		Speed:      1,
		Gravity:    DefaultGravity,
		FixedStep:  DefaultFixedStep,
	}
}

func (c Config) spaceConfig() physics.SpaceConfig {
	return physics.SpaceConfig{
		WorldMin:   c.WorldMin,
		WorldMax:   c.WorldMax,
		Broadphase: c.Broadphase,
		Gravity:    c.Gravity,
		Ground:     c.Ground,
	}
}

// AttachFailureFunc is called once for every driver attachment that is
// dropped because its body never appeared.
type AttachFailureFunc func(e ecs.Entity, d physics.Driver)

type Option func(*PhysicsSystem)

// WithSpace replaces the default Chipmunk space.
func WithSpace(space physics.Space) Option {
	return func(ps *PhysicsSystem) {
		ps.space = space
	}
}

func WithLogger(l *log.Logger) Option {
	return func(ps *PhysicsSystem) {
		if l != nil {
			ps.logger = l
		}
	}
}

func WithAttachFailureHandler(fn AttachFailureFunc) Option {
	return func(ps *PhysicsSystem) {
		ps.onAttachFailure = fn
	}
}

// WithListener registers l before the first tick.
func WithListener(l Listener) Option {
	return func(ps *PhysicsSystem) {
		ps.listeners.Add(l)
	}
}

// PhysicsSystem keeps a physics space in step with the entities of a world
// that hold Shape, Mass and SpawnTransform, and runs their drivers.
//
// Step and Update must be called from a single goroutine. SetDriver,
// AddListener, RemoveListener and StepsPerSecond are safe from any goroutine.
type PhysicsSystem struct {
	cfg    Config
	shapes *physics.ShapeRegistry
	space  physics.Space
	logger *log.Logger

	bridge    *bodyBridge
	attach    *AttachQueue
	listeners ListenerBus
	clock     Clock

	onAttachFailure AttachFailureFunc
	closed          bool
}

var _ ecs.System = (*PhysicsSystem)(nil)

func NewPhysicsSystem(cfg Config, shapes *physics.ShapeRegistry, opts ...Option) (*PhysicsSystem, error) {
	if shapes == nil {
		shapes = physics.NewShapeRegistry()
	}
	if cfg.FixedStep <= 0 {
		cfg.FixedStep = DefaultFixedStep
	}
	broadphase, err := physics.ParseBroadphase(string(cfg.Broadphase))
	if err != nil {
		return nil, err
	}
	cfg.Broadphase = broadphase

	ps := &PhysicsSystem{
		cfg:    cfg,
		shapes: shapes,
		logger: log.Default(),
		attach: NewAttachQueue(),
	}
	for _, opt := range opts {
		opt(ps)
	}
	if ps.space == nil {
		space, err := chipmunk.NewSpace(cfg.spaceConfig(), chipmunk.WithLogger(ps.logger))
		if err != nil {
			return nil, fmt.Errorf("physics: create space: %w", err)
		}
		ps.space = space
	}
	ps.bridge = newBodyBridge(shapes, ps.space, ps.logger)
	return ps, nil
}

func (ps *PhysicsSystem) Config() Config {
	return ps.cfg
}

func (ps *PhysicsSystem) Shapes() *physics.ShapeRegistry {
	return ps.shapes
}

func (ps *PhysicsSystem) Space() physics.Space {
	return ps.space
}

// Update runs one tick of Config.FixedStep seconds.
func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil {
		return
	}
	ps.Step(w, ps.cfg.FixedStep)
}

// Step runs one tick of dt seconds of wall time.
func (ps *PhysicsSystem) Step(w *ecs.World, dt float64) {
	if ps == nil || w == nil || ps.closed {
		return
	}

	ps.listeners.startFrame()
	ps.clock.Tick(dt)

	ps.bridge.sync(w, &ps.listeners)
	ps.drainAttachment()

	if t := dt * ps.cfg.Speed; t != 0 {
		bodies := ps.bridge.ordered()
		for _, b := range bodies {
			b.Step(t)
		}
		ps.space.Step(t)
		for _, b := range bodies {
			ps.listeners.bodyUpdated(b)
		}
	}

	ps.listeners.endFrame()
}

func (ps *PhysicsSystem) drainAttachment() {
	bound, dropped := ps.attach.drainOne(ps.bridge.body, ps.bridge.bind)
	if bound != nil {
		ps.logger.Printf("physics: entity %v driver set to %T", bound.Entity(), bound.Driver())
	}
	if dropped == nil {
		return
	}
	ps.logger.Printf("physics: tried %d times to set driver %T on entity %v, giving up", dropped.attempts, dropped.driver, dropped.entity)
	if ps.onAttachFailure != nil {
		ps.onAttachFailure(dropped.entity, dropped.driver)
	}
}

// SetDriver binds d to the body of e once that body exists. A nil d clears
// the current driver.
func (ps *PhysicsSystem) SetDriver(e ecs.Entity, d physics.Driver) {
	ps.attach.Request(e, d)
}

// PendingDrivers returns how many attachments are still queued.
func (ps *PhysicsSystem) PendingDrivers() int {
	return ps.attach.Len()
}

func (ps *PhysicsSystem) AddListener(l Listener) {
	ps.listeners.Add(l)
}

func (ps *PhysicsSystem) RemoveListener(l Listener) bool {
	return ps.listeners.Remove(l)
}

func (ps *PhysicsSystem) StepsPerSecond() float64 {
	return ps.clock.StepsPerSecond()
}

// Body returns the body of e. Call it from the simulation goroutine only.
func (ps *PhysicsSystem) Body(e ecs.Entity) (*physics.Body, bool) {
	return ps.bridge.body(e)
}

// MissingComponents lists what e lacks to get a body.
func (ps *PhysicsSystem) MissingComponents(w *ecs.World, e ecs.Entity) []component.ComponentID {
	return ps.bridge.container.Missing(w, e)
}

// Bodies returns every live body in creation order.
func (ps *PhysicsSystem) Bodies() []*physics.Body {
	return ps.bridge.ordered()
}

func (ps *PhysicsSystem) Len() int {
	return len(ps.bridge.order)
}

// Close removes every body, raising BodyRemoved for each, and destroys the
// space. The system does nothing after Close.
func (ps *PhysicsSystem) Close() {
	if ps == nil || ps.closed {
		return
	}
	ps.listeners.startFrame()
	ps.bridge.removeAll(&ps.listeners)
	ps.listeners.endFrame()
	ps.space.Destroy()
	ps.closed = true
}
