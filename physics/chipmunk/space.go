// Package chipmunk runs physics bodies on the Chipmunk2D engine. Chipmunk is
// planar, so the horizontal X/Z plane maps onto Chipmunk's X/Y plane and the
// vertical axis is integrated here.
package chipmunk

import (
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/physync/physics"
)

var ErrForeignBody = errors.New("chipmunk: body belongs to another space")

const (
	collisionTypeBody cp.CollisionType = iota + 1
	collisionTypeBounds
)

const boundsThickness = 1.0

type Option func(*Space)

// WithIterations sets the solver iteration count.
func WithIterations(n uint) Option {
	return func(s *Space) {
		if n > 0 {
			s.space.Iterations = n
		}
	}
}

// WithSleep lets bodies below idleSpeed for idleTime seconds fall asleep.
func WithSleep(idleTime, idleSpeed float64) Option {
	return func(s *Space) {
		s.space.SleepTimeThreshold = idleTime
		s.space.IdleSpeedThreshold = idleSpeed
	}
}

// WithSpatialHashCell sets the cell size and expected count used by the
// spatial_hash broadphase.
func WithSpatialHashCell(dim float64, count int) Option {
	return func(s *Space) {
		s.hashDim = dim
		s.hashCount = count
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Space) {
		if l != nil {
			s.logger = l
		}
	}
}

// Space adapts a Chipmunk space to physics.Space.
type Space struct {
	space  *cp.Space
	cfg    physics.SpaceConfig
	logger *log.Logger

	bodies  []*Body
	byShape map[*cp.Shape]*Body
	bounds  []*cp.Shape

	floor, ceiling float64

	hashDim   float64
	hashCount int
}

var _ physics.Space = (*Space)(nil)

func NewSpace(cfg physics.SpaceConfig, opts ...Option) (*Space, error) {
	broadphase, err := physics.ParseBroadphase(string(cfg.Broadphase))
	if err != nil {
		return nil, err
	}
	cfg.Broadphase = broadphase

	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{})
	space.SleepTimeThreshold = 0.5
	space.IdleSpeedThreshold = 0.01

	s := &Space{
		space:     space,
		cfg:       cfg,
		logger:    log.Default(),
		byShape:   make(map[*cp.Shape]*Body),
		floor:     math.Inf(-1),
		ceiling:   math.Inf(1),
		hashDim:   2,
		hashCount: 1000,
	}
	for _, opt := range opts {
		opt(s)
	}

	if broadphase == physics.BroadphaseSpatialHash {
		space.UseSpatialHash(s.hashDim, s.hashCount)
	}
	if cfg.WorldMax.Y() > cfg.WorldMin.Y() {
		s.floor, s.ceiling = cfg.WorldMin.Y(), cfg.WorldMax.Y()
	}
	if cfg.Ground != nil {
		s.floor = math.Max(s.floor, *cfg.Ground)
	}

	s.ensureHandlers()
	s.addWorldBounds()
	return s, nil
}

func (s *Space) ensureHandlers() {
	handler := s.space.NewCollisionHandler(collisionTypeBody, collisionTypeBody)
	handler.UserData = s
	handler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sp, ok := userData.(*Space)
		if !ok || sp == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		a, okA := sp.byShape[shapeA]
		b, okB := sp.byShape[shapeB]
		if !okA || !okB {
			return true
		}
		// bodies stacked above each other share a footprint but never touch
		return a.overlapsVertically(b)
	}
}

func (s *Space) addWorldBounds() {
	lo, hi := s.cfg.WorldMin, s.cfg.WorldMax
	if hi.X() <= lo.X() || hi.Z() <= lo.Z() {
		return
	}
	segments := []struct {
		a cp.Vector
		b cp.Vector
	}{
		{a: cp.Vector{X: lo.X(), Y: lo.Z()}, b: cp.Vector{X: hi.X(), Y: lo.Z()}},
		{a: cp.Vector{X: lo.X(), Y: hi.Z()}, b: cp.Vector{X: hi.X(), Y: hi.Z()}},
		{a: cp.Vector{X: lo.X(), Y: lo.Z()}, b: cp.Vector{X: lo.X(), Y: hi.Z()}},
		{a: cp.Vector{X: hi.X(), Y: lo.Z()}, b: cp.Vector{X: hi.X(), Y: hi.Z()}},
	}
	for _, seg := range segments {
		shape := cp.NewSegment(s.space.StaticBody, seg.a, seg.b, boundsThickness)
		shape.SetFriction(0.8)
		shape.SetCollisionType(collisionTypeBounds)
		s.space.AddShape(shape)
		s.bounds = append(s.bounds, shape)
	}
}

// CreateBody builds a body for shape without adding it to the space.
func (s *Space) CreateBody(shape physics.Shape, mass float64) (physics.RigidBody, error) {
	if shape == nil {
		return nil, fmt.Errorf("chipmunk: create body: %w", physics.ErrInvalidShape)
	}
	if mass < 0 || math.IsNaN(mass) {
		return nil, fmt.Errorf("chipmunk: create body: negative mass %v", mass)
	}
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("chipmunk: create body: %w", err)
	}
	fs, err := footprints(shape, mgl64.Vec3{})
	if err != nil {
		return nil, fmt.Errorf("chipmunk: create body: %w", err)
	}

	b := &Body{owner: s, static: mass == 0, tilt: mgl64.QuatIdent()}
	b.minY, b.maxY = verticalExtent(shape)
	if b.static {
		b.body = cp.NewStaticBody()
	} else {
		b.body = cp.NewBody(mass, momentFor(fs, mass))
	}
	for _, f := range fs {
		cs := f.shape(b.body)
		cs.SetFriction(0.5)
		cs.SetCollisionType(collisionTypeBody)
		b.shapes = append(b.shapes, cs)
	}
	return b, nil
}

func verticalExtent(shape physics.Shape) (float64, float64) {
	lo, hi := shape.Bounds()
	return lo.Y(), hi.Y()
}

func (s *Space) own(rb physics.RigidBody) (*Body, error) {
	b, ok := rb.(*Body)
	if !ok || b == nil || b.owner != s {
		return nil, ErrForeignBody
	}
	return b, nil
}

// AddBody starts simulating a body created by this space.
func (s *Space) AddBody(rb physics.RigidBody) error {
	b, err := s.own(rb)
	if err != nil {
		return err
	}
	if b.added {
		return nil
	}
	s.space.AddBody(b.body)
	for _, shape := range b.shapes {
		s.space.AddShape(shape)
		s.byShape[shape] = b
	}
	b.added = true
	s.bodies = append(s.bodies, b)
	return nil
}

func (s *Space) RemoveBody(rb physics.RigidBody) {
	b, err := s.own(rb)
	if err != nil || !b.added {
		return
	}
	for _, shape := range b.shapes {
		if s.space.ContainsShape(shape) {
			s.space.RemoveShape(shape)
		}
		delete(s.byShape, shape)
	}
	if s.space.ContainsBody(b.body) {
		s.space.RemoveBody(b.body)
	}
	b.added = false
	for i, other := range s.bodies {
		if other == b {
			s.bodies = append(s.bodies[:i], s.bodies[i+1:]...)
			break
		}
	}
}

// Step integrates the vertical axis of every dynamic body, then advances
// Chipmunk by dt.
func (s *Space) Step(dt float64) {
	for _, b := range s.bodies {
		if b.static {
			continue
		}
		b.integrate(dt, s.cfg.Gravity, s.floor, s.ceiling)
	}
	s.space.Step(dt)
}

// Len returns the number of simulated bodies.
func (s *Space) Len() int {
	return len(s.bodies)
}

// Destroy removes every body and the world bounds.
func (s *Space) Destroy() {
	for len(s.bodies) > 0 {
		s.RemoveBody(s.bodies[len(s.bodies)-1])
	}
	for _, shape := range s.bounds {
		s.space.RemoveShape(shape)
	}
	s.bounds = nil
	s.logger.Printf("physics: chipmunk space destroyed")
}
