package ecs

import (
	"slices"
	"testing"

	"github.com/milk9111/physync/ecs/component"
)

func TestEntitySlotReuse(t *testing.T) {
	cases := []struct {
		name    string
		create  int
		destroy []int
		wantGen generation
	}{
		{"reuse_once", 1, []int{0}, 1},
		{"reuse_last_freed", 3, []int{0, 2}, 1},
		{"none_destroyed", 2, nil, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			for _, i := range c.destroy {
				if !DestroyEntity(w, ents[i]) {
					t.Fatalf("DestroyEntity(%v) should succeed", ents[i])
				}
				if DestroyEntity(w, ents[i]) {
					t.Fatalf("destroying %v twice should fail", ents[i])
				}
			}

			e := CreateEntity(w)
			if e.generation() != c.wantGen {
				t.Fatalf("expected generation %d, got %v", c.wantGen, e)
			}
			if len(c.destroy) > 0 {
				freed := ents[c.destroy[len(c.destroy)-1]]
				if e.id() != freed.id() || e == freed {
					t.Fatalf("expected slot of %v reused with a new generation, got %v", freed, e)
				}
			} else if int(e.id()) != c.create+1 {
				t.Fatalf("expected a fresh slot, got %v", e)
			}
			if !IsAlive(w, e) {
				t.Fatalf("new entity %v should be alive", e)
			}
		})
	}
}

func TestEntityString(t *testing.T) {
	cases := []struct {
		e    Entity
		want string
	}{
		{makeEntity(1, 0), "1v0"},
		{makeEntity(7, 3), "7v3"},
		{makeEntity(4294967295, 1), "4294967295v1"},
	}
	for _, c := range cases {
		t.Run(c.want, func(t *testing.T) {
			if got := c.e.String(); got != c.want {
				t.Fatalf("expected %q, got %q", c.want, got)
			}
		})
	}
	if Entity(0).Valid() {
		t.Fatalf("zero entity should not be valid")
	}
}

func TestStaleHandleRejected(t *testing.T) {
	w := NewWorld()
	k := component.NewComponentKind[int]()

	stale := CreateEntity(w)
	_ = Add(w, stale, k, intPtr(1))
	DestroyEntity(w, stale)

	fresh := CreateEntity(w)
	if err := Add(w, fresh, k, intPtr(2)); err != nil {
		t.Fatalf("add to fresh entity: %v", err)
	}

	if IsAlive(w, stale) {
		t.Fatalf("stale handle %v should not be alive", stale)
	}
	if Has(w, stale, k) {
		t.Fatalf("stale handle %v should not see the component of %v", stale, fresh)
	}
	if v, ok := Get(w, stale, k); ok || v != nil {
		t.Fatalf("stale Get returned %v", v)
	}
	if Remove(w, stale, k) {
		t.Fatalf("stale Remove should fail")
	}
	if Touch(w, stale, k.ID()) {
		t.Fatalf("stale Touch should fail")
	}
	if err := Add(w, stale, k, intPtr(3)); err != component.ErrEntityNotAlive {
		t.Fatalf("expected ErrEntityNotAlive, got %v", err)
	}
	if v, ok := Get(w, fresh, k); !ok || *v != 2 {
		t.Fatalf("fresh entity value changed: %v", v)
	}
}

func TestWorldStamps(t *testing.T) {
	w := NewWorld()
	k := component.NewComponentKind[int]()
	e := CreateEntity(w)
	stamp := func() uint64 { return w.store(k.ID()).Stamp(e) }

	if w.Stamp() != 0 || stamp() != 0 {
		t.Fatalf("expected zero stamps before any write")
	}

	_ = Add(w, e, k, intPtr(1))
	first := stamp()
	if first == 0 || first != w.Stamp() {
		t.Fatalf("Add should record the world stamp, got %d (world %d)", first, w.Stamp())
	}

	_ = Add(w, e, k, intPtr(2))
	second := stamp()
	if second <= first {
		t.Fatalf("rewrite should bump the stamp: %d -> %d", first, second)
	}

	if !Touch(w, e, k.ID()) {
		t.Fatalf("Touch should succeed")
	}
	if touched := stamp(); touched <= second {
		t.Fatalf("Touch should bump the stamp: %d -> %d", second, touched)
	}

	other := component.NewComponentKind[string]()
	if Touch(w, e, other.ID()) {
		t.Fatalf("Touch of a missing component should fail")
	}

	before := w.Stamp()
	Remove(w, e, k)
	if w.Stamp() != before || stamp() != 0 {
		t.Fatalf("Remove should clear the entry without writing")
	}
}

func TestEntitiesSlotOrder(t *testing.T) {
	w := NewWorld()
	a, b, c := CreateEntity(w), CreateEntity(w), CreateEntity(w)
	DestroyEntity(w, b)

	if got := Entities(w); !slices.Equal(got, []Entity{a, c}) {
		t.Fatalf("expected %v, got %v", []Entity{a, c}, got)
	}

	b2 := CreateEntity(w)
	if got := Entities(w); !slices.Equal(got, []Entity{a, b2, c}) {
		t.Fatalf("expected reused slot in place, got %v", got)
	}
	if Entities(nil) != nil {
		t.Fatalf("nil world should have no entities")
	}
}

func TestDestroyEntityDropsComponents(t *testing.T) {
	w := NewWorld()
	ka := component.NewComponentKind[int]()
	kb := component.NewComponentKind[string]()

	e := CreateEntity(w)
	_ = Add(w, e, ka, intPtr(1))
	_ = Add(w, e, kb, stringPtr("x"))
	DestroyEntity(w, e)

	if w.store(ka.ID()).Len() != 0 || w.store(kb.ID()).Len() != 0 {
		t.Fatalf("expected stores to be empty after destroy")
	}
}

func TestForEachJoins(t *testing.T) {
	w := NewWorld()
	ka := component.NewComponentKind[int]()
	kb := component.NewComponentKind[string]()
	kc := component.NewComponentKind[float64]()
	kd := component.NewComponentKind[bool]()

	full := CreateEntity(w)
	_ = Add(w, full, ka, intPtr(1))
	_ = Add(w, full, kb, stringPtr("full"))
	_ = Add(w, full, kc, float64Ptr(1.5))
	flag := true
	_ = Add(w, full, kd, &flag)

	partial := CreateEntity(w)
	_ = Add(w, partial, ka, intPtr(2))
	_ = Add(w, partial, kb, stringPtr("partial"))

	var two, three, four []Entity
	ForEach2(w, ka, kb, func(e Entity, _ *int, _ *string) { two = append(two, e) })
	ForEach3(w, ka, kb, kc, func(e Entity, _ *int, _ *string, _ *float64) { three = append(three, e) })
	ForEach4(w, ka, kb, kc, kd, func(e Entity, a *int, b *string, c *float64, d *bool) {
		if *a != 1 || *b != "full" || *c != 1.5 || !*d {
			t.Fatalf("unexpected values %d %q %v %v", *a, *b, *c, *d)
		}
		four = append(four, e)
	})

	if !slices.Equal(two, []Entity{full, partial}) {
		t.Fatalf("ForEach2: expected both entities, got %v", two)
	}
	if !slices.Equal(three, []Entity{full}) || !slices.Equal(four, []Entity{full}) {
		t.Fatalf("ForEach3/4: expected only %v, got %v and %v", full, three, four)
	}

	// destroying inside ForEach must not skip or revisit entities
	var seen []Entity
	ForEach(w, ka, func(e Entity, _ *int) {
		seen = append(seen, e)
		DestroyEntity(w, e)
	})
	if len(seen) != 2 || len(Entities(w)) != 0 {
		t.Fatalf("expected both entities visited and destroyed, got %v", seen)
	}
}

func intPtr(i int) *int {
	return &i
}

func stringPtr(s string) *string {
	return &s
}

func float64Ptr(f float64) *float64 {
	return &f
}
