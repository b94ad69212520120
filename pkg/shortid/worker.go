package shortid

import "fmt"

// Worker owns one identity and the timestamp/sequence state behind it.
// A Worker must not be used from more than one goroutine at a time.
type Worker struct {
	id WorkerID

	// fine serves the 128-bit format, coarse the 96 and 64-bit formats.
	fine   *sequencer
	coarse *sequencer
}

func newWorker(id WorkerID, clock Clock, bounded bool) *Worker {
	return &Worker{
		id:     id,
		fine:   newSequencer(clock, fineStep, bounded),
		coarse: newSequencer(clock, coarseStep, bounded),
	}
}

// ID returns the worker identity.
func (w *Worker) ID() WorkerID { return w.id }

// Compact reports whether the worker can produce 64-bit identifiers.
func (w *Worker) Compact() bool { return w.id <= MaxCompactWorkerID }

// Next128 returns a UUID version 1 compatible identifier.
func (w *Worker) Next128(machine [4]byte) (ID128, error) {
	t, s, err := w.fine.next()
	if err != nil {
		return ID128{}, err
	}
	return Encode128(Fields128{
		Timestamp: t,
		Sequence:  s,
		Worker:    w.id,
		Machine:   machine,
	}), nil
}

// Next96 returns a 96-bit identifier relative to epoch.
func (w *Worker) Next96(machine [3]byte, epoch Epoch) (ID96, error) {
	t, s, err := w.coarse.next()
	if err != nil {
		return ID96{}, err
	}
	ts, err := compactTimestamp(t, epoch)
	if err != nil {
		return ID96{}, err
	}
	return Encode96(Fields96{
		Timestamp: ts,
		Sequence:  s,
		Worker:    w.id,
		Machine:   machine,
	}), nil
}

// Next64 returns a 64-bit identifier relative to epoch. Workers with an
// identity above 255 always fail with ErrWorkerIDOverflow.
func (w *Worker) Next64(epoch Epoch) (ID64, error) {
	if !w.Compact() {
		return ID64{}, fmt.Errorf("%w: worker %d does not fit in 8 bits", ErrWorkerIDOverflow, w.id)
	}
	t, s, err := w.coarse.next()
	if err != nil {
		return ID64{}, err
	}
	ts, err := compactTimestamp(t, epoch)
	if err != nil {
		return ID64{}, err
	}
	return Encode64(Fields64{
		Timestamp: ts,
		Sequence:  s,
		Worker:    uint8(w.id),
	}), nil
}
