package shortid

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode128Layout(t *testing.T) {
	id := Encode128(Fields128{
		Timestamp: 0x0123456789ABCDEF,
		Sequence:  0x2345,
		Worker:    0xBEEF,
		Machine:   [4]byte{1, 2, 3, 4},
	})
	assert.Equal(t, "89abcdef-4567-1123-a345-beef01020304", id.String())
	assert.True(t, id.Valid())
}

func TestID128RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		fields Fields128
	}{
		{"zero", Fields128{}},
		{"max", Fields128{Timestamp: Tick(tickMask60), Sequence: MaxSequence, Worker: MaxWorkerID, Machine: [4]byte{0xff, 0xff, 0xff, 0xff}}},
		{"typical", Fields128{Timestamp: baseTick, Sequence: 42, Worker: 7, Machine: [4]byte{192, 168, 1, 20}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := Encode128(tt.fields)
			assert.Equal(t, tt.fields, id.Fields())

			fromBytes, err := FromBytes128(id.Bytes())
			require.NoError(t, err)
			assert.Equal(t, id, fromBytes)

			parsed, err := Parse128(id.String())
			require.NoError(t, err)
			assert.Equal(t, id, parsed)

			u := id.UUID()
			assert.Equal(t, uuid.Version(1), u.Version())
			assert.Equal(t, uuid.RFC4122, u.Variant())
		})
	}
}

func TestFromBytes128Rejects(t *testing.T) {
	_, err := FromBytes128(make([]byte, 12))
	assert.ErrorIs(t, err, ErrInvalidLength)

	v4 := uuid.New()
	_, err = FromBytes128(v4[:])
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Parse128("not-a-uuid")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestID128CompareAcrossTimeLowWrap(t *testing.T) {
	a := Encode128(Fields128{Timestamp: 0x0FFFFFFFF})
	b := Encode128(Fields128{Timestamp: 0x100000000})

	// bytewise the later id sorts first
	assert.Greater(t, a[0], b[0])
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
}

func TestEncode96Layout(t *testing.T) {
	id := Encode96(Fields96{Timestamp: 1, Sequence: 0, Worker: 0x0102, Machine: [3]byte{0x0a, 0x0b, 0x0c}})
	assert.Equal(t, "0000000000400001020a0b0c", id.String())
}

func TestID96RoundTrip(t *testing.T) {
	tests := []Fields96{
		{},
		{Timestamp: timestamp42Max, Sequence: MaxSequence, Worker: MaxWorkerID, Machine: [3]byte{0xff, 0xff, 0xff}},
		{Timestamp: 0x2AAAAAAAAAA, Sequence: 0x1555, Worker: 300, Machine: [3]byte{1, 1, 1}},
	}
	for _, f := range tests {
		id := Encode96(f)
		assert.Equal(t, f, id.Fields())

		parsed, err := Parse96(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, parsed)

		fromBytes, err := FromBytes96(id.Bytes())
		require.NoError(t, err)
		assert.Equal(t, id, fromBytes)
	}
}

func TestEncode96MasksFields(t *testing.T) {
	id := Encode96(Fields96{Timestamp: timestamp42Max + 1, Sequence: MaxSequence + 1})
	f := id.Fields()
	assert.Equal(t, uint64(0), f.Timestamp)
	assert.Equal(t, uint16(0), f.Sequence)
}

func TestEncode64Layout(t *testing.T) {
	id := Encode64(Fields64{Timestamp: timestamp42Max, Sequence: MaxSequence, Worker: 7})
	assert.Equal(t, uint64(0xFFFFFFFFFFFFFF07), id.Uint64())
	assert.Equal(t, id, FromUint64(id.Uint64()))
}

func TestID64RoundTrip(t *testing.T) {
	tests := []Fields64{
		{},
		{Timestamp: 123456789, Sequence: 4321, Worker: 255},
	}
	for _, f := range tests {
		id := Encode64(f)
		assert.Equal(t, f, id.Fields())

		parsed, err := Parse64(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	}

	_, err := FromBytes64([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidLength)
	_, err = Parse64("zz")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestIdentifiersAsJSON(t *testing.T) {
	type payload struct {
		Wide    ID128 `json:"wide"`
		Compact ID96  `json:"compact"`
		Small   ID64  `json:"small"`
	}
	in := payload{
		Wide:    Encode128(Fields128{Timestamp: baseTick, Sequence: 1, Worker: 2, Machine: [4]byte{3, 4, 5, 6}}),
		Compact: Encode96(Fields96{Timestamp: 99, Sequence: 1, Worker: 2, Machine: [3]byte{3, 4, 5}}),
		Small:   Encode64(Fields64{Timestamp: 99, Sequence: 1, Worker: 2}),
	}

	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(b), in.Wide.String())

	var out payload
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out)
}
