package shortid

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// WorkerID identifies one Worker within a process.
type WorkerID uint16

const (
	// MaxWorkerID is the largest identity usable by the 128 and 96-bit formats.
	MaxWorkerID = 1<<16 - 1
	// MaxCompactWorkerID is the largest identity usable by the 64-bit format.
	MaxCompactWorkerID = 1<<8 - 1
)

// Registry hands out worker identities 0, 1, 2, ... in request order.
// It is safe for concurrent use.
type Registry struct {
	next atomic.Uint64
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

var (
	defaultRegistryOnce sync.Once
	defaultRegistry     *Registry
)

// DefaultRegistry returns the process-wide registry. Generators that should
// never hand out the same identity must share one registry.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Assign allocates the next identity. Once the 16-bit space is exhausted every
// call fails with ErrWorkerIDOverflow.
func (r *Registry) Assign() (WorkerID, error) {
	n := r.next.Add(1) - 1
	if n > MaxWorkerID {
		return 0, fmt.Errorf("%w: %d workers requested, limit %d", ErrWorkerIDOverflow, n+1, MaxWorkerID+1)
	}
	return WorkerID(n), nil
}

// Assigned returns the number of identities handed out successfully.
func (r *Registry) Assigned() uint64 {
	n := r.next.Load()
	if n > MaxWorkerID+1 {
		return MaxWorkerID + 1
	}
	return n
}
