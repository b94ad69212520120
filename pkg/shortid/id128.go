package shortid

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ID128 is a 16 byte identifier laid out as an RFC 4122 version 1 UUID.
type ID128 [16]byte

// Fields128 are the unpacked parts of an ID128.
type Fields128 struct {
	Timestamp Tick
	Sequence  uint16
	Worker    WorkerID
	Machine   [4]byte
}

const (
	tickMask60  = uint64(1)<<60 - 1
	version1    = 0x1000
	variantRFC  = 0x80
	variantMask = 0xC0
)

// Encode128 packs fields into an ID128. Timestamp is truncated to 60 bits and
// Sequence to 14 bits.
func Encode128(f Fields128) ID128 {
	var id ID128
	putUUIDTime(&id, f.Timestamp, f.Sequence)
	binary.BigEndian.PutUint16(id[10:12], uint16(f.Worker))
	copy(id[12:], f.Machine[:])
	return id
}

// encodeNode packs a timestamp, sequence and 48-bit node, i.e. a plain UUIDv1.
func encodeNode(t Tick, seq uint16, node Node) ID128 {
	var id ID128
	putUUIDTime(&id, t, seq)
	copy(id[10:], node[:])
	return id
}

func putUUIDTime(id *ID128, t Tick, seq uint16) {
	ts := uint64(t) & tickMask60
	binary.BigEndian.PutUint32(id[0:4], uint32(ts))
	binary.BigEndian.PutUint16(id[4:6], uint16(ts>>32))
	binary.BigEndian.PutUint16(id[6:8], uint16(ts>>48)&0x0FFF|version1)
	seq &= MaxSequence
	id[8] = byte(seq>>8)&0x3F | variantRFC
	id[9] = byte(seq)
}

// FromBytes128 decodes 16 bytes, rejecting anything that is not a version 1
// RFC 4122 UUID.
func FromBytes128(b []byte) (ID128, error) {
	var id ID128
	if len(b) != len(id) {
		return id, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidLength, len(b), len(id))
	}
	copy(id[:], b)
	if !id.Valid() {
		return ID128{}, fmt.Errorf("%w: version %d, variant bits %02b", ErrMalformed, id[6]>>4, id[8]>>6)
	}
	return id, nil
}

// Parse128 decodes any textual UUID form accepted by google/uuid.
func Parse128(s string) (ID128, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ID128{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return FromBytes128(u[:])
}

// Valid reports whether the version and variant bits are set.
func (id ID128) Valid() bool {
	return id[6]>>4 == 1 && id[8]&variantMask == variantRFC
}

// Timestamp returns the 60-bit UUID time.
func (id ID128) Timestamp() Tick {
	lo := uint64(binary.BigEndian.Uint32(id[0:4]))
	mid := uint64(binary.BigEndian.Uint16(id[4:6]))
	hi := uint64(binary.BigEndian.Uint16(id[6:8]) & 0x0FFF)
	return Tick(hi<<48 | mid<<32 | lo)
}

// Sequence returns the 14-bit clock sequence.
func (id ID128) Sequence() uint16 {
	return uint16(id[8]&0x3F)<<8 | uint16(id[9])
}

// Worker returns the worker identity.
func (id ID128) Worker() WorkerID {
	return WorkerID(binary.BigEndian.Uint16(id[10:12]))
}

// Machine returns the caller supplied machine id.
func (id ID128) Machine() [4]byte {
	var m [4]byte
	copy(m[:], id[12:])
	return m
}

// Node returns the 48-bit UUID node field (worker followed by machine).
func (id ID128) Node() Node {
	var n Node
	copy(n[:], id[10:])
	return n
}

// Fields unpacks the identifier.
func (id ID128) Fields() Fields128 {
	return Fields128{
		Timestamp: id.Timestamp(),
		Sequence:  id.Sequence(),
		Worker:    id.Worker(),
		Machine:   id.Machine(),
	}
}

// Time returns the creation time.
func (id ID128) Time() time.Time { return id.Timestamp().Time() }

// UUID returns the identifier as a google/uuid value.
func (id ID128) UUID() uuid.UUID { return uuid.UUID(id) }

// Bytes returns a copy of the raw bytes.
func (id ID128) Bytes() []byte {
	b := make([]byte, len(id))
	copy(b, id[:])
	return b
}

// String returns the canonical UUID text form.
func (id ID128) String() string { return uuid.UUID(id).String() }

// MarshalText implements encoding.TextMarshaler.
func (id ID128) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID128) UnmarshalText(b []byte) error {
	v, err := Parse128(string(b))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// Compare orders identifiers by creation: timestamp, sequence, worker, then
// machine. The UUID field order makes raw bytes unsuitable for this.
func (id ID128) Compare(other ID128) int {
	a, b := id.Fields(), other.Fields()
	switch {
	case a.Timestamp != b.Timestamp:
		return cmp(a.Timestamp < b.Timestamp)
	case a.Sequence != b.Sequence:
		return cmp(a.Sequence < b.Sequence)
	case a.Worker != b.Worker:
		return cmp(a.Worker < b.Worker)
	}
	for i := range a.Machine {
		if a.Machine[i] != b.Machine[i] {
			return cmp(a.Machine[i] < b.Machine[i])
		}
	}
	return 0
}

func cmp(less bool) int {
	if less {
		return -1
	}
	return 1
}
