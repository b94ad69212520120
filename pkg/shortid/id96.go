package shortid

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"
)

// ID96 is a 12 byte identifier: timestamp(42) sequence(14) worker(16)
// machine(24).
type ID96 [12]byte

// Fields96 are the unpacked parts of an ID96. Timestamp is the epoch-relative
// tick count shifted right by 13.
type Fields96 struct {
	Timestamp uint64
	Sequence  uint16
	Worker    WorkerID
	Machine   [3]byte
}

// Encode96 packs fields into an ID96.
func Encode96(f Fields96) ID96 {
	var id ID96
	putHead(id[:7], f.Timestamp, f.Sequence)
	binary.BigEndian.PutUint16(id[7:9], uint16(f.Worker))
	copy(id[9:], f.Machine[:])
	return id
}

// FromBytes96 decodes 12 raw bytes.
func FromBytes96(b []byte) (ID96, error) {
	var id ID96
	if len(b) != len(id) {
		return id, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidLength, len(b), len(id))
	}
	copy(id[:], b)
	return id, nil
}

// Parse96 decodes the hex form produced by String.
func Parse96(s string) (ID96, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return ID96{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return FromBytes96(b)
}

// Fields unpacks the identifier.
func (id ID96) Fields() Fields96 {
	ts, seq := readHead(id[:7])
	var m [3]byte
	copy(m[:], id[9:])
	return Fields96{
		Timestamp: ts,
		Sequence:  seq,
		Worker:    WorkerID(binary.BigEndian.Uint16(id[7:9])),
		Machine:   m,
	}
}

// Time returns the creation time, truncated to 819.2us, given the epoch the
// identifier was generated with.
func (id ID96) Time(epoch Epoch) time.Time {
	return expandTimestamp(id.Fields().Timestamp, epoch).Time()
}

// Bytes returns a copy of the raw bytes.
func (id ID96) Bytes() []byte {
	b := make([]byte, len(id))
	copy(b, id[:])
	return b
}

// String returns lower-case hex.
func (id ID96) String() string { return hex.EncodeToString(id[:]) }

// MarshalText implements encoding.TextMarshaler.
func (id ID96) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID96) UnmarshalText(b []byte) error {
	v, err := Parse96(string(b))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// Compare compares raw bytes, which follows creation order per worker.
func (id ID96) Compare(other ID96) int { return bytes.Compare(id[:], other[:]) }
