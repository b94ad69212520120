package shortid

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Logger is the subset of *zap.SugaredLogger the generator writes to.
type Logger interface {
	Debugw(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
}

// Generator hands out Workers and offers stateless generation calls that
// borrow an idle Worker for the duration of one call. It is safe for
// concurrent use.
type Generator struct {
	clock    Clock
	registry *Registry
	shared   *Shared
	bounded  bool
	log      Logger

	mu        sync.Mutex
	released  *sync.Cond
	idle      []*Worker
	allocated int
	// compact counts pooled workers whose identity fits in 8 bits.
	compact int
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock replaces the system clock for workers. The shared UUIDv1 path
// keeps its own clock; use WithShared to replace it too.
func WithClock(clock Clock) Option {
	return func(g *Generator) {
		g.clock = clock
	}
}

// WithRegistry sets the identity allocator. Generators in one process should
// share a registry; the default is DefaultRegistry().
func WithRegistry(r *Registry) Option {
	return func(g *Generator) {
		g.registry = r
	}
}

// WithShared sets the shared UUIDv1 path used by GenerateShared. The default
// is DefaultShared(), so every generator in the process issues from one pair.
func WithShared(s *Shared) Option {
	return func(g *Generator) {
		g.shared = s
	}
}

// WithUnboundedAdvance lets workers advance their timestamp on sequence wrap
// without checking the clock, trading the real-time bound for throughput.
func WithUnboundedAdvance() Option {
	return func(g *Generator) {
		g.bounded = false
	}
}

// WithLogger sets the logger used for worker lifecycle events.
func WithLogger(l Logger) Option {
	return func(g *Generator) {
		g.log = l
	}
}

// New creates a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{
		clock:   SystemClock{},
		bounded: true,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.registry == nil {
		g.registry = DefaultRegistry()
	}
	if g.shared == nil {
		g.shared = DefaultShared()
	}
	if g.log == nil {
		g.log = zap.NewNop().Sugar()
	}
	g.released = sync.NewCond(&g.mu)
	return g
}

// NewWorker allocates a Worker for exclusive long-lived use by the caller.
func (g *Generator) NewWorker() (*Worker, error) {
	return g.allocate(false)
}

// allocate assigns a fresh identity. pooled workers are owned by the idle
// list and counted toward the compact workers acquire may wait for.
func (g *Generator) allocate(pooled bool) (*Worker, error) {
	id, err := g.registry.Assign()
	if err != nil {
		g.log.Warnw("worker identity space exhausted", "error", err)
		return nil, err
	}
	w := newWorker(id, g.clock, g.bounded)
	g.mu.Lock()
	g.allocated++
	if pooled && w.Compact() {
		g.compact++
	}
	g.mu.Unlock()
	g.log.Debugw("worker allocated", "worker_id", id, "pooled", pooled)
	return w, nil
}

// acquire pops an idle worker or allocates a new one. With compact set only
// workers that fit in 8 bits qualify: once the registry has moved past that
// range the call waits for a busy compact worker, or fails without
// allocating when there is none.
func (g *Generator) acquire(compact bool) (*Worker, error) {
	g.mu.Lock()
	for {
		for i := len(g.idle) - 1; i >= 0; i-- {
			w := g.idle[i]
			if compact && !w.Compact() {
				continue
			}
			g.idle = append(g.idle[:i], g.idle[i+1:]...)
			g.mu.Unlock()
			return w, nil
		}
		if !compact || g.registry.Assigned() <= MaxCompactWorkerID {
			break
		}
		if g.compact == 0 {
			g.mu.Unlock()
			return nil, fmt.Errorf("%w: no worker below %d in this generator", ErrWorkerIDOverflow, MaxCompactWorkerID+1)
		}
		g.released.Wait()
	}
	g.mu.Unlock()
	return g.allocate(true)
}

func (g *Generator) release(w *Worker) {
	g.mu.Lock()
	g.idle = append(g.idle, w)
	g.mu.Unlock()
	g.released.Broadcast()
}

// Generate128 issues a 128-bit identifier from a borrowed worker.
func (g *Generator) Generate128(machine [4]byte) (ID128, error) {
	w, err := g.acquire(false)
	if err != nil {
		return ID128{}, err
	}
	defer g.release(w)
	return w.Next128(machine)
}

// Generate96 issues a 96-bit identifier from a borrowed worker.
func (g *Generator) Generate96(machine [3]byte, epoch Epoch) (ID96, error) {
	w, err := g.acquire(false)
	if err != nil {
		return ID96{}, err
	}
	defer g.release(w)
	return w.Next96(machine, epoch)
}

// Generate64 issues a 64-bit identifier from a borrowed worker whose identity
// fits in 8 bits.
func (g *Generator) Generate64(epoch Epoch) (ID64, error) {
	w, err := g.acquire(true)
	if err != nil {
		if errors.Is(err, ErrWorkerIDOverflow) {
			g.log.Warnw("no compact worker available", "assigned", g.registry.Assigned())
		}
		return ID64{}, err
	}
	defer g.release(w)
	return w.Next64(epoch)
}

// GenerateShared issues a UUIDv1 from the generator's shared sequence,
// DefaultShared() unless WithShared was given.
func (g *Generator) GenerateShared(node Node) (ID128, error) {
	return g.shared.Next(node)
}

// Stats describes the worker pool.
type Stats struct {
	Allocated int
	Idle      int
	Bounded   bool
}

// Stats returns a snapshot of the worker pool.
func (g *Generator) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Stats{Allocated: g.allocated, Idle: len(g.idle), Bounded: g.bounded}
}

var (
	defaultOnce      sync.Once
	defaultGenerator *Generator
)

// Default returns the process generator backed by DefaultRegistry.
func Default() *Generator {
	defaultOnce.Do(func() {
		defaultGenerator = New()
	})
	return defaultGenerator
}

// Next128 issues a 128-bit identifier from the default generator.
func Next128(machine [4]byte) (ID128, error) { return Default().Generate128(machine) }

// Next96 issues a 96-bit identifier from the default generator.
func Next96(machine [3]byte, epoch Epoch) (ID96, error) {
	return Default().Generate96(machine, epoch)
}

// Next64 issues a 64-bit identifier from the default generator.
func Next64(epoch Epoch) (ID64, error) { return Default().Generate64(epoch) }

// NextUUID issues a UUIDv1 from the default generator's shared path.
func NextUUID(node Node) (ID128, error) { return Default().GenerateShared(node) }
