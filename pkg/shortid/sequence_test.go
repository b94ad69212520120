package shortid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drain issues calls until the sequence sits at MaxSequence.
func drain(t *testing.T, s *sequencer) {
	t.Helper()
	for {
		_, seq, err := s.next()
		require.NoError(t, err)
		if seq == MaxSequence {
			return
		}
	}
}

func TestSequencerFirstCall(t *testing.T) {
	clk := newFakeClock(baseTick)
	s := newSequencer(clk, fineStep, true)

	ts, seq, err := s.next()
	require.NoError(t, err)
	assert.Equal(t, baseTick, ts)
	assert.Equal(t, uint16(1), seq)
	assert.Equal(t, int64(1), clk.reads.Load())
}

func TestSequencerWrapAdvancesOneStep(t *testing.T) {
	tests := []struct {
		name string
		step Tick
	}{
		{"fine", fineStep},
		{"coarse", coarseStep},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clk := newFakeClock(baseTick)
			s := newSequencer(clk, tt.step, true)

			for i := 1; i <= MaxSequence; i++ {
				ts, seq, err := s.next()
				require.NoError(t, err)
				require.Equal(t, baseTick, ts)
				require.Equal(t, uint16(i), seq)
			}
			// no clock read on the hot path
			assert.Equal(t, int64(1), clk.reads.Load())

			clk.Set(baseTick + 1)
			ts, seq, err := s.next()
			require.NoError(t, err)
			assert.Equal(t, baseTick+tt.step, ts)
			assert.Equal(t, uint16(0), seq)

			ts, seq, err = s.next()
			require.NoError(t, err)
			assert.Equal(t, baseTick+tt.step, ts)
			assert.Equal(t, uint16(1), seq)
		})
	}
}

func TestSequencerRefusesToOutrunClock(t *testing.T) {
	clk := newFakeClock(baseTick)
	s := newSequencer(clk, fineStep, true)
	drain(t, s)

	_, _, err := s.next()
	require.ErrorIs(t, err, ErrTimeOverflow)
	assert.True(t, Retryable(err))

	ts, seq := s.state()
	assert.Equal(t, baseTick, ts)
	assert.Equal(t, uint16(MaxSequence), seq)

	clk.Set(baseTick + 5)
	ts, seq, err = s.next()
	require.NoError(t, err)
	assert.Equal(t, baseTick+1, ts)
	assert.Equal(t, uint16(0), seq)
}

func TestSequencerUnboundedIgnoresClock(t *testing.T) {
	clk := newFakeClock(baseTick)
	s := newSequencer(clk, fineStep, false)

	var (
		ts  Tick
		seq uint16
		err error
	)
	for i := 0; i < 2*(MaxSequence+1); i++ {
		ts, seq, err = s.next()
		require.NoError(t, err)
	}
	assert.Equal(t, baseTick+2, ts)
	assert.Equal(t, uint16(0), seq)
	assert.Equal(t, int64(1), clk.reads.Load())
}

func TestSequencerClockFailure(t *testing.T) {
	s := newSequencer(ClockFunc(func() (Tick, error) { return 0, ErrSystemTime }), fineStep, true)
	_, _, err := s.next()
	assert.ErrorIs(t, err, ErrSystemTime)
	assert.False(t, Retryable(err))
}
