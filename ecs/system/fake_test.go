package system

import (
	"bytes"
	"fmt"
	"log"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/physync/ecs"
	"github.com/milk9111/physync/ecs/component"
	"github.com/milk9111/physync/physics"
)

const dt = 1.0 / 60.0

type recordingDriver struct {
	name  string
	calls *[]string
}

func (d *recordingDriver) OnAttach(b *physics.Body) {
	*d.calls = append(*d.calls, fmt.Sprintf("%s.attach(%v)", d.name, b.Entity()))
}

func (d *recordingDriver) OnStep(float64) {
	*d.calls = append(*d.calls, d.name+".step")
}

func (d *recordingDriver) OnDetach(b *physics.Body) {
	*d.calls = append(*d.calls, fmt.Sprintf("%s.detach(%v)", d.name, b.Entity()))
}

// eventRecorder logs every listener hook into calls, shared with drivers so
// relative ordering can be asserted.
func eventRecorder(calls *[]string) *ListenerFuncs {
	return &ListenerFuncs{
		OnStartFrame:  func() { *calls = append(*calls, "start") },
		OnBodyAdded:   func(b *physics.Body) { *calls = append(*calls, fmt.Sprintf("added(%v)", b.Entity())) },
		OnBodyUpdated: func(b *physics.Body) { *calls = append(*calls, fmt.Sprintf("updated(%v)", b.Entity())) },
		OnBodyRemoved: func(b *physics.Body) { *calls = append(*calls, fmt.Sprintf("removed(%v)", b.Entity())) },
		OnEndFrame:    func() { *calls = append(*calls, "end") },
	}
}

type testRig struct {
	w      *ecs.World
	ps     *PhysicsSystem
	shapes *physics.ShapeRegistry
	logs   *bytes.Buffer
}

func newTestRig(t *testing.T, mutate func(*Config), opts ...Option) *testRig {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Gravity = 0
	if mutate != nil {
		mutate(&cfg)
	}

	logs := &bytes.Buffer{}
	shapes := physics.NewShapeRegistry()
	shapes.Register("box", physics.NewBox(0.5, 0.5, 0.5))

	opts = append([]Option{WithLogger(log.New(logs, "", 0))}, opts...)
	ps, err := NewPhysicsSystem(cfg, shapes, opts...)
	if err != nil {
		t.Fatalf("NewPhysicsSystem: %v", err)
	}
	t.Cleanup(ps.Close)

	return &testRig{w: ecs.NewWorld(), ps: ps, shapes: shapes, logs: logs}
}

func (r *testRig) spawn(t *testing.T, shapeID string, mass float64, location mgl64.Vec3) ecs.Entity {
	t.Helper()

	e := ecs.CreateEntity(r.w)
	if err := ecs.Add(r.w, e, component.ShapeComponent.Kind(), &component.Shape{ID: shapeID}); err != nil {
		t.Fatalf("add shape: %v", err)
	}
	if err := ecs.Add(r.w, e, component.MassComponent.Kind(), &component.Mass{Value: mass}); err != nil {
		t.Fatalf("add mass: %v", err)
	}
	if err := ecs.Add(r.w, e, component.SpawnTransformComponent.Kind(), component.NewSpawnTransform(location)); err != nil {
		t.Fatalf("add spawn transform: %v", err)
	}
	return e
}

func (r *testRig) step(n int) {
	for i := 0; i < n; i++ {
		r.ps.Step(r.w, dt)
	}
}

func vecNear(a, b mgl64.Vec3, tol float64) bool {
	return a.Sub(b).Len() <= tol
}

// quatNear treats q and -q as the same rotation.
func quatNear(a, b mgl64.Quat, tol float64) bool {
	return 1-math.Abs(a.Dot(b)) <= tol
}
