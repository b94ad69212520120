package shortid

import "sync/atomic"

// 2024-01-01T00:00:00Z
const baseTick = TicksBetweenEpochs + Tick(1704067200*10_000_000)

// fakeClock is a settable Clock that counts reads.
type fakeClock struct {
	now   atomic.Uint64
	reads atomic.Int64
}

func newFakeClock(t Tick) *fakeClock {
	c := &fakeClock{}
	c.now.Store(uint64(t))
	return c
}

func (c *fakeClock) Now() (Tick, error) {
	c.reads.Add(1)
	return Tick(c.now.Load()), nil
}

func (c *fakeClock) Set(t Tick) { c.now.Store(uint64(t)) }
