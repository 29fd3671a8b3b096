package ecs

import (
	"slices"
	"testing"
)

type stepSystem struct {
	name  string
	calls *[]string
}

func (s stepSystem) Update(*World) {
	*s.calls = append(*s.calls, s.name+".update")
}

func (s stepSystem) Step(_ *World, dt float64) {
	*s.calls = append(*s.calls, s.name+".step")
}

func TestScheduler(t *testing.T) {
	tests := []struct {
		name string
		run  func(s *Scheduler, w *World)
		want []string
	}{
		{
			name: "update_in_order",
			run:  func(s *Scheduler, w *World) { s.Update(w) },
			want: []string{"a.update", "plain", "c.update"},
		},
		{
			name: "step_reaches_steppers",
			run:  func(s *Scheduler, w *World) { s.Step(w, 0.5) },
			want: []string{"a.step", "plain", "c.step"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var calls []string
			s := NewScheduler(
				stepSystem{"a", &calls},
				nil,
				SystemFunc(func(*World) { calls = append(calls, "plain") }),
			)
			s.Add(stepSystem{"c", &calls})
			s.Add(nil)

			tc.run(s, NewWorld())
			if !slices.Equal(calls, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, calls)
			}
			if s.Len() != 3 {
				t.Fatalf("expected nil systems to be skipped, got %d", s.Len())
			}
		})
	}
}
