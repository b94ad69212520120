package shortid

import "fmt"

const (
	sequenceBits = 14
	// MaxSequence is the sequence ceiling shared by all formats.
	MaxSequence = 1<<sequenceBits - 1
)

// sequencer is the per-worker timestamp/sequence state machine.
// It is not safe for concurrent use.
type sequencer struct {
	clock     Clock
	step      Tick
	bounded   bool
	started   bool
	timestamp Tick
	sequence  uint16
}

func newSequencer(clock Clock, step Tick, bounded bool) *sequencer {
	return &sequencer{clock: clock, step: step, bounded: bounded}
}

// next returns the following (timestamp, sequence) pair. The clock is only
// read on first use and when the sequence wraps.
func (s *sequencer) next() (Tick, uint16, error) {
	if !s.started {
		now, err := s.clock.Now()
		if err != nil {
			return 0, 0, err
		}
		s.timestamp = now
		s.started = true
	}

	if s.sequence < MaxSequence {
		s.sequence++
		return s.timestamp, s.sequence, nil
	}

	if s.bounded {
		now, err := s.clock.Now()
		if err != nil {
			return 0, 0, err
		}
		if s.timestamp >= now {
			return 0, 0, fmt.Errorf("%w: stored tick %d, clock %d", ErrTimeOverflow, s.timestamp, now)
		}
	}

	s.timestamp += s.step
	s.sequence = 0
	return s.timestamp, 0, nil
}

// state exposes the last issued pair.
func (s *sequencer) state() (Tick, uint16) {
	return s.timestamp, s.sequence
}
