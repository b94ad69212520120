package shortid

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerNext128IsOrderedUUIDv1(t *testing.T) {
	clk := newFakeClock(baseTick)
	w := newWorker(3, clk, true)
	machine := [4]byte{10, 0, 0, 1}

	prev, err := w.Next128(machine)
	require.NoError(t, err)
	clk.Set(baseTick + 1000)

	for i := 0; i < 3*MaxSequence; i++ {
		id, err := w.Next128(machine)
		require.NoError(t, err)
		require.Equal(t, -1, prev.Compare(id), "id %d not after previous", i)
		prev = id
	}

	u := prev.UUID()
	assert.Equal(t, uuid.Version(1), u.Version())
	assert.Equal(t, uuid.RFC4122, u.Variant())
	ts, seq := w.fine.state()
	assert.Equal(t, uuid.Time(ts), u.Time())
	assert.Equal(t, int(seq), u.ClockSequence())
	assert.Equal(t, WorkerID(3), prev.Worker())
	assert.Equal(t, machine, prev.Machine())
}

func TestWorkerNext96IsByteOrdered(t *testing.T) {
	clk := newFakeClock(baseTick)
	w := newWorker(0x0102, clk, true)
	epoch := EpochFromTime(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))

	prev, err := w.Next96([3]byte{1, 1, 1}, epoch)
	require.NoError(t, err)
	clk.Set(baseTick + 10*coarseStep)

	for i := 0; i < 3*MaxSequence; i++ {
		id, err := w.Next96([3]byte{1, 1, 1}, epoch)
		require.NoError(t, err)
		require.Equal(t, -1, prev.Compare(id))
		prev = id
	}
	f := prev.Fields()
	assert.Equal(t, WorkerID(0x0102), f.Worker)
	assert.Equal(t, [3]byte{1, 1, 1}, f.Machine)
}

func TestWorkerNext64(t *testing.T) {
	clk := newFakeClock(baseTick)
	w := newWorker(0, clk, true)

	first, err := w.Next64(0)
	require.NoError(t, err)
	assert.Equal(t, byte(0), first[7])

	second, err := w.Next64(0)
	require.NoError(t, err)
	assert.Equal(t, -1, first.Compare(second))
	assert.Less(t, first.Uint64(), second.Uint64())
}

func TestWorkerNext64RejectsWideIdentity(t *testing.T) {
	w := newWorker(256, newFakeClock(baseTick), true)
	for _, epoch := range []Epoch{0, math.MaxUint64} {
		_, err := w.Next64(epoch)
		assert.ErrorIs(t, err, ErrWorkerIDOverflow)
	}
	// wider formats stay usable
	_, err := w.Next96([3]byte{}, 0)
	assert.NoError(t, err)
}

func TestWorkerEpochAfterNow(t *testing.T) {
	w := newWorker(0, newFakeClock(baseTick), true)
	future := EpochFromTime(time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC))

	_, err := w.Next96([3]byte{}, future)
	assert.ErrorIs(t, err, ErrEpoch)
	_, err = w.Next64(future)
	assert.ErrorIs(t, err, ErrEpoch)
}

func TestWorkerMixedFormatsStayOrdered(t *testing.T) {
	clk := newFakeClock(baseTick)
	w := newWorker(1, clk, true)
	clk.Set(baseTick + 100*coarseStep)

	prev, err := w.Next96([3]byte{}, 0)
	require.NoError(t, err)
	for i := 0; i < 2*MaxSequence; i++ {
		_, err := w.Next128([4]byte{})
		require.NoError(t, err)
		id, err := w.Next96([3]byte{}, 0)
		require.NoError(t, err)
		require.Equal(t, -1, prev.Compare(id))
		prev = id
	}
}

func TestShort96UpgradeKeepsTimestamp(t *testing.T) {
	clk := newFakeClock(baseTick + 12345)
	w := newWorker(0, clk, true)

	id96, err := w.Next96([3]byte{1, 1, 1}, 0)
	require.NoError(t, err)
	id128 := id96.To128(0, 0)

	u := id128.UUID()
	assert.Equal(t, uuid.Version(1), u.Version())
	assert.Equal(t, uuid.RFC4122, u.Variant())

	ts, seq := w.coarse.state()
	want := (ts-TicksBetweenEpochs)>>13<<13 + TicksBetweenEpochs
	assert.Equal(t, uuid.Time(want), u.Time())
	assert.Equal(t, uuid.Time(id96.Fields().Timestamp<<13)+uuid.Time(TicksBetweenEpochs), u.Time())
	assert.Equal(t, int(seq), u.ClockSequence())
	assert.Equal(t, [4]byte{0, 1, 1, 1}, id128.Machine())
}

func TestShort64UpgradeKeepsTimestamp(t *testing.T) {
	w := newWorker(0, newFakeClock(baseTick+777), true)

	id64, err := w.Next64(0)
	require.NoError(t, err)
	id128 := id64.To128(0, [4]byte{1, 1, 1, 1})

	u := id128.UUID()
	ts, seq := w.coarse.state()
	assert.Equal(t, uuid.Time((ts-TicksBetweenEpochs)>>13<<13+TicksBetweenEpochs), u.Time())
	assert.Equal(t, int(seq), u.ClockSequence())
	assert.Equal(t, uuid.Version(1), u.Version())
	assert.Equal(t, uuid.RFC4122, u.Variant())
}
