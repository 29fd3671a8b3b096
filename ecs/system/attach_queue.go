package system

import (
	"sync"

	"github.com/milk9111/physync/ecs"
	"github.com/milk9111/physync/physics"
	"gopkg.in/eapache/queue.v1"
)

// MaxAttachAttempts is how many times a driver attachment is retried before
// it is dropped.
const MaxAttachAttempts = 99

type pendingAttachment struct {
	entity   ecs.Entity
	driver   physics.Driver
	attempts int
}

// AttachQueue holds driver attachments until their body exists. Request may
// be called from any goroutine.
type AttachQueue struct {
	mu    sync.Mutex
	items *queue.Queue
}

func NewAttachQueue() *AttachQueue {
	return &AttachQueue{items: queue.New()}
}

// Request queues d for e. A nil d clears the binding once the body exists.
func (q *AttachQueue) Request(e ecs.Entity, d physics.Driver) {
	q.push(&pendingAttachment{entity: e, driver: d})
}

func (q *AttachQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Length()
}

func (q *AttachQueue) push(p *pendingAttachment) {
	q.mu.Lock()
	q.items.Add(p)
	q.mu.Unlock()
}

func (q *AttachQueue) pop() (*pendingAttachment, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.items.Length() == 0 {
		return nil, false
	}
	return q.items.Remove().(*pendingAttachment), true
}

// drainOne tries the oldest attachment. lookup and bind run without the
// queue lock held. It returns the item when it was dropped after too many
// attempts.
func (q *AttachQueue) drainOne(lookup func(ecs.Entity) (*physics.Body, bool), bind func(*physics.Body, physics.Driver)) (bound *physics.Body, dropped *pendingAttachment) {
	p, ok := q.pop()
	if !ok {
		return nil, nil
	}
	if body, ok := lookup(p.entity); ok {
		bind(body, p.driver)
		return body, nil
	}
	p.attempts++
	if p.attempts > MaxAttachAttempts {
		return nil, p
	}
	q.push(p)
	return nil, nil
}
