package shortid

// The compact formats share a 56-bit head: timestamp(42) sequence(14).

func putHead(b []byte, ts uint64, seq uint16) {
	v := (ts&timestamp42Max)<<sequenceBits | uint64(seq&MaxSequence)
	for i := 6; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
}

func readHead(b []byte) (uint64, uint16) {
	var v uint64
	for i := 0; i < 7; i++ {
		v = v<<8 | uint64(b[i])
	}
	return v >> sequenceBits, uint16(v & MaxSequence)
}
