package shortid

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"
)

// ID64 is an 8 byte identifier: timestamp(42) sequence(14) worker(8).
type ID64 [8]byte

// Fields64 are the unpacked parts of an ID64.
type Fields64 struct {
	Timestamp uint64
	Sequence  uint16
	Worker    uint8
}

// Encode64 packs fields into an ID64.
func Encode64(f Fields64) ID64 {
	var id ID64
	putHead(id[:7], f.Timestamp, f.Sequence)
	id[7] = f.Worker
	return id
}

// FromBytes64 decodes 8 raw bytes.
func FromBytes64(b []byte) (ID64, error) {
	var id ID64
	if len(b) != len(id) {
		return id, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidLength, len(b), len(id))
	}
	copy(id[:], b)
	return id, nil
}

// FromUint64 is the inverse of ID64.Uint64.
func FromUint64(v uint64) ID64 {
	var id ID64
	binary.BigEndian.PutUint64(id[:], v)
	return id
}

// Parse64 decodes the hex form produced by String.
func Parse64(s string) (ID64, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return ID64{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return FromBytes64(b)
}

// Fields unpacks the identifier.
func (id ID64) Fields() Fields64 {
	ts, seq := readHead(id[:7])
	return Fields64{Timestamp: ts, Sequence: seq, Worker: id[7]}
}

// Uint64 returns the identifier as a big-endian integer.
func (id ID64) Uint64() uint64 { return binary.BigEndian.Uint64(id[:]) }

// Time returns the creation time, truncated to 819.2us.
func (id ID64) Time(epoch Epoch) time.Time {
	return expandTimestamp(id.Fields().Timestamp, epoch).Time()
}

// Bytes returns a copy of the raw bytes.
func (id ID64) Bytes() []byte {
	b := make([]byte, len(id))
	copy(b, id[:])
	return b
}

// String returns lower-case hex.
func (id ID64) String() string { return hex.EncodeToString(id[:]) }

// MarshalText implements encoding.TextMarshaler.
func (id ID64) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID64) UnmarshalText(b []byte) error {
	v, err := Parse64(string(b))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// Compare compares raw bytes.
func (id ID64) Compare(other ID64) int { return bytes.Compare(id[:], other[:]) }
