package physics

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

func TestShapeRegistryRegisterGet(t *testing.T) {
	box := NewBox(0.5, 0.5, 0.5)
	sphere := NewSphere(1)

	tests := []struct {
		name string
		run  func(t *testing.T, sr *ShapeRegistry)
	}{
		{
			name: "get_returns_registered",
			run: func(t *testing.T, sr *ShapeRegistry) {
				if got := sr.Register("box", box); got != box {
					t.Fatalf("register should return the stored shape")
				}
				got, err := sr.Get("box")
				if err != nil || got != box {
					t.Fatalf("expected box, got %v err=%v", got, err)
				}
			},
		},
		{
			name: "last_write_wins",
			run: func(t *testing.T, sr *ShapeRegistry) {
				sr.Register("s", box)
				sr.Register("s", sphere)
				got, err := sr.Get("s")
				if err != nil || got != sphere {
					t.Fatalf("expected sphere, got %v err=%v", got, err)
				}
			},
		},
		{
			name: "miss_is_not_found",
			run: func(t *testing.T, sr *ShapeRegistry) {
				got, err := sr.Get("missing")
				if got != nil || !errors.Is(err, ErrShapeNotFound) {
					t.Fatalf("expected ErrShapeNotFound, got %v err=%v", got, err)
				}
			},
		},
		{
			name: "nil_shape_ignored",
			run: func(t *testing.T, sr *ShapeRegistry) {
				sr.Register("nil", nil)
				if _, err := sr.Get("nil"); !errors.Is(err, ErrShapeNotFound) {
					t.Fatalf("expected nil shape to be ignored, got %v", err)
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.run(t, NewShapeRegistry())
		})
	}
}

func TestShapeRegistryResolver(t *testing.T) {
	var calls atomic.Int32
	sr := NewShapeRegistry(WithResolver(func(id string) (Shape, bool) {
		calls.Add(1)
		if id == "lazy" {
			return NewSphere(2), true
		}
		return nil, false
	}))

	first, err := sr.Get("lazy")
	if err != nil {
		t.Fatalf("expected resolver hit, got %v", err)
	}
	second, err := sr.Get("lazy")
	if err != nil || second != first {
		t.Fatalf("expected cached shape, got %v err=%v", second, err)
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("expected resolver to run once, ran %d times", n)
	}

	if _, err := sr.Get("nope"); !errors.Is(err, ErrShapeNotFound) {
		t.Fatalf("expected ErrShapeNotFound on resolver miss, got %v", err)
	}

	sr.SetResolver(nil)
	if _, err := sr.Get("other"); !errors.Is(err, ErrShapeNotFound) {
		t.Fatalf("expected ErrShapeNotFound without resolver, got %v", err)
	}
}

func TestShapeRegistryRegisterAuto(t *testing.T) {
	a := NewShapeRegistry()
	b := NewShapeRegistry()

	ids := []string{a.RegisterAuto(NewSphere(1)), a.RegisterAuto(NewSphere(2))}
	if ids[0] != "collision-shape-0" || ids[1] != "collision-shape-1" {
		t.Fatalf("unexpected auto ids %v", ids)
	}
	if id := b.RegisterAuto(NewSphere(3)); id != "collision-shape-0" {
		t.Fatalf("counter should be scoped to the registry, got %s", id)
	}
	if a.Len() != 2 {
		t.Fatalf("expected 2 shapes, got %d", a.Len())
	}
}

func TestShapeRegistryConcurrent(t *testing.T) {
	sr := NewShapeRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				id := fmt.Sprintf("s-%d-%d", i, j%10)
				sr.Register(id, NewSphere(float64(j+1)))
				if _, err := sr.Get(id); err != nil {
					t.Errorf("get %s: %v", id, err)
					return
				}
				sr.RegisterAuto(NewBox(1, 1, 1))
			}
		}(i)
	}
	wg.Wait()

	if got, want := sr.Len(), 8*10+8*100; got != want {
		t.Fatalf("expected %d shapes, got %d", want, got)
	}
}
