package ecs

// System updates a world once per tick at its own fixed rate.
type System interface {
	Update(w *World)
}

// Stepper is a System that can also advance by an explicit step.
type Stepper interface {
	System
	Step(w *World, dt float64)
}

// SystemFunc adapts a plain function to System.
type SystemFunc func(w *World)

func (f SystemFunc) Update(w *World) {
	f(w)
}

// Scheduler runs systems in registration order.
type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{}
	for _, sys := range systems {
		s.Add(sys)
	}
	return s
}

// Add appends sys. Nil systems are ignored.
func (s *Scheduler) Add(sys System) {
	if sys != nil {
		s.systems = append(s.systems, sys)
	}
}

func (s *Scheduler) Update(w *World) {
	for _, sys := range s.systems {
		sys.Update(w)
	}
}

// Step advances Steppers by dt and runs a plain Update for the rest.
func (s *Scheduler) Step(w *World, dt float64) {
	for _, sys := range s.systems {
		if st, ok := sys.(Stepper); ok {
			st.Step(w, dt)
			continue
		}
		sys.Update(w)
	}
}

func (s *Scheduler) Len() int {
	return len(s.systems)
}
