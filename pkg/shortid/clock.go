package shortid

import (
	"fmt"
	"time"
)

// Tick is a count of 100ns intervals since the Gregorian epoch (1582-10-15),
// the UUID version 1 time base.
type Tick uint64

// TicksBetweenEpochs is the number of ticks from 1582-10-15 to 1970-01-01.
const TicksBetweenEpochs Tick = 0x01B2_1DD2_1381_4000

// Time converts the tick back to wall-clock time.
func (t Tick) Time() time.Time {
	if t < TicksBetweenEpochs {
		return time.Unix(0, 0).UTC()
	}
	unix := uint64(t - TicksBetweenEpochs)
	return time.Unix(int64(unix/1e7), int64(unix%1e7)*100).UTC()
}

// TickFromTime converts a wall-clock time at or after the Unix epoch.
func TickFromTime(t time.Time) (Tick, error) {
	ns := t.UnixNano()
	if ns < 0 {
		return 0, fmt.Errorf("%w: %s", ErrSystemTime, t.Format(time.RFC3339Nano))
	}
	return Tick(ns/100) + TicksBetweenEpochs, nil
}

// Clock produces the current Tick.
type Clock interface {
	Now() (Tick, error)
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() (Tick, error)

// Now implements Clock.
func (f ClockFunc) Now() (Tick, error) { return f() }

// SystemClock reads the wall clock on every call.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() (Tick, error) {
	return TickFromTime(time.Now())
}

// Epoch is a custom time origin for the compact formats, in 100ns ticks
// since the Unix epoch.
type Epoch uint64

// EpochFromTime returns the Epoch starting at t. Times before 1970 map to 0.
func EpochFromTime(t time.Time) Epoch {
	ns := t.UnixNano()
	if ns < 0 {
		return 0
	}
	return Epoch(ns / 100)
}

// Time returns the wall-clock origin of the epoch.
func (e Epoch) Time() time.Time {
	return time.Unix(int64(e/1e7), int64(e%1e7)*100).UTC()
}

const (
	timestamp42Shift = 13
	timestamp42Bits  = 42
	timestamp42Max   = uint64(1)<<timestamp42Bits - 1

	// coarseStep is the smallest tick increment the compact formats can see.
	coarseStep Tick = 1 << timestamp42Shift
	fineStep   Tick = 1
)

// compactTimestamp turns an absolute tick into the 42-bit epoch-relative field.
func compactTimestamp(t Tick, epoch Epoch) (uint64, error) {
	if t < TicksBetweenEpochs {
		return 0, fmt.Errorf("%w: tick %d before unix epoch", ErrEpoch, t)
	}
	unix := uint64(t - TicksBetweenEpochs)
	if unix < uint64(epoch) {
		return 0, fmt.Errorf("%w: epoch %s is after %s", ErrEpoch, epoch.Time().Format(time.RFC3339), t.Time().Format(time.RFC3339))
	}
	ts := (unix - uint64(epoch)) >> timestamp42Shift
	if ts > timestamp42Max {
		return 0, fmt.Errorf("%w: epoch %s too far in the past for a 42-bit timestamp", ErrEpoch, epoch.Time().Format(time.RFC3339))
	}
	return ts, nil
}

// expandTimestamp is the inverse of compactTimestamp, minus the dropped low bits.
func expandTimestamp(ts uint64, epoch Epoch) Tick {
	return Tick(ts<<timestamp42Shift) + Tick(epoch) + TicksBetweenEpochs
}
