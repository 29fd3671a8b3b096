package system

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/milk9111/physync/physics"
)

// Listener observes the simulation. Hooks run on the simulation goroutine in
// this order each tick: StartFrame, then BodyAdded/BodyRemoved/BodyUpdated as
// the entity store is diffed, BodyUpdated once per body after the engine
// step, and finally EndFrame.
type Listener interface {
	StartFrame()
	BodyAdded(b *physics.Body)
	BodyUpdated(b *physics.Body)
	BodyRemoved(b *physics.Body)
	EndFrame()
}

// ListenerFuncs adapts closures to Listener. Nil fields are skipped. Register
// it by pointer so it can be removed again.
type ListenerFuncs struct {
	OnStartFrame  func()
	OnBodyAdded   func(b *physics.Body)
	OnBodyUpdated func(b *physics.Body)
	OnBodyRemoved func(b *physics.Body)
	OnEndFrame    func()
}

func (l *ListenerFuncs) StartFrame() {
	if l.OnStartFrame != nil {
		l.OnStartFrame()
	}
}

func (l *ListenerFuncs) BodyAdded(b *physics.Body) {
	if l.OnBodyAdded != nil {
		l.OnBodyAdded(b)
	}
}

func (l *ListenerFuncs) BodyUpdated(b *physics.Body) {
	if l.OnBodyUpdated != nil {
		l.OnBodyUpdated(b)
	}
}

func (l *ListenerFuncs) BodyRemoved(b *physics.Body) {
	if l.OnBodyRemoved != nil {
		l.OnBodyRemoved(b)
	}
}

func (l *ListenerFuncs) EndFrame() {
	if l.OnEndFrame != nil {
		l.OnEndFrame()
	}
}

// ListenerBus fans events out to listeners in registration order. The list
// is copied on write, so listeners may add or remove listeners from inside a
// callback; the change takes effect with the next event.
type ListenerBus struct {
	mu        sync.Mutex
	listeners atomic.Pointer[[]Listener]
}

func (lb *ListenerBus) Add(l Listener) {
	if l == nil {
		return
	}
	lb.mu.Lock()
	defer lb.mu.Unlock()
	next := append(slices.Clone(lb.snapshot()), l)
	lb.listeners.Store(&next)
}

// Remove drops the first registration of l.
func (lb *ListenerBus) Remove(l Listener) bool {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	cur := lb.snapshot()
	i := slices.Index(cur, l)
	if i < 0 {
		return false
	}
	next := slices.Delete(slices.Clone(cur), i, i+1)
	lb.listeners.Store(&next)
	return true
}

func (lb *ListenerBus) Len() int {
	return len(lb.snapshot())
}

func (lb *ListenerBus) snapshot() []Listener {
	if p := lb.listeners.Load(); p != nil {
		return *p
	}
	return nil
}

func (lb *ListenerBus) startFrame() {
	for _, l := range lb.snapshot() {
		l.StartFrame()
	}
}

func (lb *ListenerBus) bodyAdded(b *physics.Body) {
	for _, l := range lb.snapshot() {
		l.BodyAdded(b)
	}
}

func (lb *ListenerBus) bodyUpdated(b *physics.Body) {
	for _, l := range lb.snapshot() {
		l.BodyUpdated(b)
	}
}

func (lb *ListenerBus) bodyRemoved(b *physics.Body) {
	for _, l := range lb.snapshot() {
		l.BodyRemoved(b)
	}
}

func (lb *ListenerBus) endFrame() {
	for _, l := range lb.snapshot() {
		l.EndFrame()
	}
}
