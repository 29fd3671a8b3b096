package component

import "testing"

func TestComponentNames(t *testing.T) {
	tests := []struct {
		name string
		id   ComponentID
		want string
	}{
		{"declared", ShapeComponent.ID(), "shape"},
		{"declared_debug", DriverDebugComponent.ID(), "driver_debug"},
		{"anonymous_kind", NewComponentKind[Mass]().ID(), "component.Mass"},
		{"unknown", ComponentID(0), "#0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.id.String(); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestComponentIDsAreDistinct(t *testing.T) {
	a := NewComponentKind[int]()
	b := NewComponentKind[int]()
	if !a.Valid() || !b.Valid() || a.ID() == b.ID() {
		t.Fatalf("expected two valid distinct kinds, got %v and %v", a.ID(), b.ID())
	}
	if (ComponentKind[int]{}).Valid() {
		t.Fatalf("zero kind should be invalid")
	}
	if MassComponent.Name() != "mass" || MassComponent.Kind().ID() != MassComponent.ID() {
		t.Fatalf("handle disagrees with its kind")
	}
}
