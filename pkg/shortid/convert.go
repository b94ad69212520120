package shortid

import "fmt"

// To128 promotes the identifier to a version 1 UUID. machineHigh becomes the
// top byte of the 32-bit machine field.
func (id ID96) To128(epoch Epoch, machineHigh byte) ID128 {
	f := id.Fields()
	return Encode128(Fields128{
		Timestamp: expandTimestamp(f.Timestamp, epoch),
		Sequence:  f.Sequence,
		Worker:    f.Worker,
		Machine:   [4]byte{machineHigh, f.Machine[0], f.Machine[1], f.Machine[2]},
	})
}

// To96 adds a 24-bit machine id. The worker high byte is zero.
func (id ID64) To96(machine [3]byte) ID96 {
	f := id.Fields()
	return Encode96(Fields96{
		Timestamp: f.Timestamp,
		Sequence:  f.Sequence,
		Worker:    WorkerID(f.Worker),
		Machine:   machine,
	})
}

// To128 composes To96 and ID96.To128; machine[0] is the high byte.
func (id ID64) To128(epoch Epoch, machine [4]byte) ID128 {
	return id.To96([3]byte{machine[1], machine[2], machine[3]}).To128(epoch, machine[0])
}

// To96 narrows the identifier. The low 13 timestamp bits and the machine high
// byte are dropped.
func (id ID128) To96(epoch Epoch) (ID96, error) {
	f := id.Fields()
	ts, err := compactTimestamp(f.Timestamp, epoch)
	if err != nil {
		return ID96{}, err
	}
	return Encode96(Fields96{
		Timestamp: ts,
		Sequence:  f.Sequence,
		Worker:    f.Worker,
		Machine:   [3]byte{f.Machine[1], f.Machine[2], f.Machine[3]},
	}), nil
}

// To64 drops the machine id. Workers above 255 cannot be represented.
func (id ID96) To64() (ID64, error) {
	f := id.Fields()
	if f.Worker > MaxCompactWorkerID {
		return ID64{}, fmt.Errorf("%w: worker %d does not fit in 8 bits", ErrWorkerIDOverflow, f.Worker)
	}
	return Encode64(Fields64{
		Timestamp: f.Timestamp,
		Sequence:  f.Sequence,
		Worker:    uint8(f.Worker),
	}), nil
}

// To64 composes ID128.To96 and ID96.To64.
func (id ID128) To64(epoch Epoch) (ID64, error) {
	id96, err := id.To96(epoch)
	if err != nil {
		return ID64{}, err
	}
	return id96.To64()
}
