package shortid

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Node is the 48-bit UUID node field used by the shared path.
type Node [6]byte

// HardwareNode returns the MAC-derived node id google/uuid picks for version 1
// UUIDs, or a random one when no interface is available.
func HardwareNode() Node {
	var n Node
	copy(n[:], uuid.NodeID())
	return n
}

// NodeFrom combines a worker and a 32-bit machine id the way ID128 lays them out.
func NodeFrom(worker WorkerID, machine [4]byte) Node {
	return Node{byte(worker >> 8), byte(worker), machine[0], machine[1], machine[2], machine[3]}
}

type sharedState struct {
	timestamp Tick
	sequence  uint16
}

// Shared issues version 1 UUIDs from a single timestamp/sequence pair for the
// whole process. Every state change is one compare-and-swap, so concurrent
// callers never observe the same pair. It is safe for concurrent use.
type Shared struct {
	clock Clock
	state atomic.Pointer[sharedState]
}

// NewShared returns a shared generator reading clock.
func NewShared(clock Clock) *Shared {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Shared{clock: clock}
}

var (
	defaultSharedOnce sync.Once
	defaultShared     *Shared
)

// DefaultShared returns the process-wide shared path on the system clock.
// Generators built without WithShared all issue from it.
func DefaultShared() *Shared {
	defaultSharedOnce.Do(func() {
		defaultShared = NewShared(SystemClock{})
	})
	return defaultShared
}

// Next returns a UUIDv1 with the given node. When the sequence wraps the
// stored timestamp must be behind the clock, otherwise ErrTimeOverflow.
func (s *Shared) Next(node Node) (ID128, error) {
	t, seq, err := s.next()
	if err != nil {
		return ID128{}, err
	}
	return encodeNode(t, seq, node), nil
}

func (s *Shared) next() (Tick, uint16, error) {
	for {
		cur := s.state.Load()
		base := cur
		if base == nil {
			now, err := s.clock.Now()
			if err != nil {
				return 0, 0, err
			}
			base = &sharedState{timestamp: now}
		}

		next := &sharedState{timestamp: base.timestamp, sequence: base.sequence + 1}
		if base.sequence >= MaxSequence {
			now, err := s.clock.Now()
			if err != nil {
				return 0, 0, err
			}
			if base.timestamp >= now {
				return 0, 0, fmt.Errorf("%w: stored tick %d, clock %d", ErrTimeOverflow, base.timestamp, now)
			}
			next = &sharedState{timestamp: base.timestamp + 1}
		}

		if s.state.CompareAndSwap(cur, next) {
			return next.timestamp, next.sequence, nil
		}
	}
}
