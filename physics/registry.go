package physics

import (
	"errors"
	"fmt"
	"log"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
)

var ErrShapeNotFound = errors.New("physics: shape not found")

// Resolver loads a shape the registry does not hold yet.
type Resolver func(id string) (Shape, bool)

// ShapeRegistry caches collision shapes by id. It is safe for concurrent use.
type ShapeRegistry struct {
	mu       sync.RWMutex
	shapes   map[string]Shape
	resolver Resolver
	logger   *log.Logger

	autoID atomic.Uint64
}

type RegistryOption func(*ShapeRegistry)

// WithResolver sets the hook consulted on a cache miss.
func WithResolver(r Resolver) RegistryOption {
	return func(sr *ShapeRegistry) {
		sr.resolver = r
	}
}

func WithRegistryLogger(l *log.Logger) RegistryOption {
	return func(sr *ShapeRegistry) {
		if l != nil {
			sr.logger = l
		}
	}
}

func NewShapeRegistry(opts ...RegistryOption) *ShapeRegistry {
	sr := &ShapeRegistry{
		shapes: make(map[string]Shape),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(sr)
	}
	return sr
}

// Register stores shape under id, replacing any previous shape, and returns
// the stored shape. A nil shape is ignored.
func (sr *ShapeRegistry) Register(id string, shape Shape) Shape {
	if shape == nil {
		return nil
	}
	sr.mu.Lock()
	sr.shapes[id] = shape
	sr.mu.Unlock()
	return shape
}

// RegisterAuto stores shape under a generated id and returns that id.
func (sr *ShapeRegistry) RegisterAuto(shape Shape) string {
	id := "collision-shape-" + strconv.FormatUint(sr.autoID.Add(1)-1, 10)
	sr.Register(id, shape)
	return id
}

// Get returns the shape for id. On a miss the resolver is asked once and a
// resolved shape is cached before it is returned.
func (sr *ShapeRegistry) Get(id string) (Shape, error) {
	sr.mu.RLock()
	shape, ok := sr.shapes[id]
	resolve := sr.resolver
	sr.mu.RUnlock()
	if ok {
		return shape, nil
	}

	if resolve != nil {
		if shape, ok := resolve(id); ok && shape != nil {
			sr.mu.Lock()
			defer sr.mu.Unlock()
			if existing, ok := sr.shapes[id]; ok {
				return existing, nil
			}
			sr.shapes[id] = shape
			sr.logger.Printf("physics: resolved shape %q", id)
			return shape, nil
		}
	}
	return nil, fmt.Errorf("physics: shape %q: %w", id, ErrShapeNotFound)
}

// SetResolver replaces the miss hook. Passing nil disables resolution.
func (sr *ShapeRegistry) SetResolver(r Resolver) {
	sr.mu.Lock()
	sr.resolver = r
	sr.mu.Unlock()
}

func (sr *ShapeRegistry) Len() int {
	sr.mu.RLock()
	defer sr.mu.RUnlock()
	return len(sr.shapes)
}

// IDs returns the registered shape ids in sorted order.
func (sr *ShapeRegistry) IDs() []string {
	sr.mu.RLock()
	ids := make([]string, 0, len(sr.shapes))
	for id := range sr.shapes {
		ids = append(ids, id)
	}
	sr.mu.RUnlock()
	slices.Sort(ids)
	return ids
}
