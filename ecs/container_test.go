package ecs

import (
	"slices"
	"testing"

	"github.com/milk9111/physync/ecs/component"
)

func TestEntityContainerDiff(t *testing.T) {
	ka := component.NewComponentKind[int]()
	kb := component.NewComponentKind[string]()

	tests := []struct {
		name string
		run  func(t *testing.T, w *World, c *EntityContainer)
	}{
		{
			name: "added_once_complete",
			run: func(t *testing.T, w *World, c *EntityContainer) {
				e := CreateEntity(w)
				if err := Add(w, e, ka, intPtr(1)); err != nil {
					t.Fatal(err)
				}
				if d := c.Update(w); !d.Empty() {
					t.Fatalf("expected no diff for incomplete entity, got %+v", d)
				}
				if err := Add(w, e, kb, stringPtr("x")); err != nil {
					t.Fatal(err)
				}
				d := c.Update(w)
				if !slices.Equal(d.Added, []Entity{e}) {
					t.Fatalf("expected %v added, got %+v", e, d)
				}
				if d := c.Update(w); !d.Empty() {
					t.Fatalf("expected second update to be empty, got %+v", d)
				}
			},
		},
		{
			name: "changed_on_rewrite",
			run: func(t *testing.T, w *World, c *EntityContainer) {
				e := CreateEntity(w)
				_ = Add(w, e, ka, intPtr(1))
				_ = Add(w, e, kb, stringPtr("x"))
				c.Update(w)

				_ = Add(w, e, ka, intPtr(2))
				d := c.Update(w)
				if !slices.Equal(d.Changed, []Entity{e}) || len(d.Added) != 0 {
					t.Fatalf("expected %v changed, got %+v", e, d)
				}
			},
		},
		{
			name: "changed_on_touch",
			run: func(t *testing.T, w *World, c *EntityContainer) {
				e := CreateEntity(w)
				_ = Add(w, e, ka, intPtr(1))
				_ = Add(w, e, kb, stringPtr("x"))
				c.Update(w)

				v, _ := Get(w, e, ka)
				*v = 5
				if !Touch(w, e, ka.ID()) {
					t.Fatal("touch failed")
				}
				if d := c.Update(w); !slices.Equal(d.Changed, []Entity{e}) {
					t.Fatalf("expected %v changed, got %+v", e, d)
				}
			},
		},
		{
			name: "removed_on_component_drop",
			run: func(t *testing.T, w *World, c *EntityContainer) {
				e := CreateEntity(w)
				_ = Add(w, e, ka, intPtr(1))
				_ = Add(w, e, kb, stringPtr("x"))
				c.Update(w)

				Remove(w, e, kb)
				d := c.Update(w)
				if !slices.Equal(d.Removed, []Entity{e}) {
					t.Fatalf("expected %v removed, got %+v", e, d)
				}
				if c.Contains(e) || c.Len() != 0 {
					t.Fatalf("expected container to be empty")
				}
			},
		},
		{
			name: "recycled_slot_is_new_member",
			run: func(t *testing.T, w *World, c *EntityContainer) {
				e := CreateEntity(w)
				_ = Add(w, e, ka, intPtr(1))
				_ = Add(w, e, kb, stringPtr("x"))
				c.Update(w)

				DestroyEntity(w, e)
				e2 := CreateEntity(w)
				if e2.id() != e.id() || e2 == e {
					t.Fatalf("expected recycled slot with new generation, got %v and %v", e, e2)
				}
				_ = Add(w, e2, ka, intPtr(1))
				_ = Add(w, e2, kb, stringPtr("y"))

				d := c.Update(w)
				if !slices.Equal(d.Removed, []Entity{e}) || !slices.Equal(d.Added, []Entity{e2}) {
					t.Fatalf("expected remove %v and add %v, got %+v", e, e2, d)
				}
			},
		},
		{
			name: "qualifies_without_membership",
			run: func(t *testing.T, w *World, c *EntityContainer) {
				e := CreateEntity(w)
				_ = Add(w, e, ka, intPtr(1))
				if c.Qualifies(w, e) {
					t.Fatalf("incomplete entity should not qualify")
				}
				if got := c.Missing(w, e); !slices.Equal(got, []component.ComponentID{kb.ID()}) {
					t.Fatalf("expected %v missing, got %v", kb.ID(), got)
				}
				_ = Add(w, e, kb, stringPtr("x"))
				if !c.Qualifies(w, e) || c.Contains(e) {
					t.Fatalf("expected %v to qualify before any update", e)
				}
				DestroyEntity(w, e)
				if c.Qualifies(w, e) {
					t.Fatalf("dead entity should not qualify")
				}
			},
		},
		{
			name: "forget_readds",
			run: func(t *testing.T, w *World, c *EntityContainer) {
				e := CreateEntity(w)
				_ = Add(w, e, ka, intPtr(1))
				_ = Add(w, e, kb, stringPtr("x"))
				c.Update(w)

				c.Forget(e)
				if d := c.Update(w); !slices.Equal(d.Added, []Entity{e}) {
					t.Fatalf("expected %v re-added, got %+v", e, d)
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := NewWorld()
			tc.run(t, w, NewEntityContainer(ka.ID(), kb.ID()))
		})
	}
}

func TestEntityContainerWatch(t *testing.T) {
	ka := component.NewComponentKind[int]()
	kb := component.NewComponentKind[int]()

	w := NewWorld()
	c := NewEntityContainer(ka.ID(), kb.ID()).Watch(kb.ID())

	e := CreateEntity(w)
	_ = Add(w, e, ka, intPtr(1))
	_ = Add(w, e, kb, intPtr(2))
	c.Update(w)

	_ = Add(w, e, ka, intPtr(3))
	if d := c.Update(w); !d.Empty() {
		t.Fatalf("unwatched write should not be reported, got %+v", d)
	}

	_ = Add(w, e, kb, intPtr(4))
	if d := c.Update(w); !slices.Equal(d.Changed, []Entity{e}) {
		t.Fatalf("expected watched write to be reported, got %+v", d)
	}
}

func TestQuerySorted(t *testing.T) {
	w := NewWorld()
	k := component.NewComponentKind[int]()

	var want []Entity
	for i := 0; i < 5; i++ {
		want = append(want, CreateEntity(w))
	}
	// insert in reverse so dense order differs from slot order
	for i := len(want) - 1; i >= 0; i-- {
		if err := Add(w, want[i], k, intPtr(i)); err != nil {
			t.Fatal(err)
		}
	}

	if got := Query(w, k.ID()); !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestAddErrors(t *testing.T) {
	w := NewWorld()
	k := component.NewComponentKind[int]()
	e := CreateEntity(w)

	cases := []struct {
		name string
		err  error
		want error
	}{
		{"nil_value", Add(w, e, k, nil), component.ErrNilComponent},
		{"zero_kind", Add(w, e, component.ComponentKind[int]{}, intPtr(1)), component.ErrInvalidComponentKind},
		{"dead_entity", func() error {
			d := CreateEntity(w)
			DestroyEntity(w, d)
			return Add(w, d, k, intPtr(1))
		}(), component.ErrEntityNotAlive},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if c.err != c.want {
				t.Fatalf("expected %v, got %v", c.want, c.err)
			}
		})
	}
}
