package compact

// Byte-length ceilings for LEB128 runs by target width. Runs longer than
// the ceiling fail with ErrMalformedVarint rather than walking off the
// end of hostile input.
const (
	MaxVarintLen16 = 3
	MaxVarintLen32 = 5
	MaxVarintLen64 = 10
)

// ReadUvarint consumes an unsigned LEB128 integer from c. Bytes are
// consumed while the continuation bit is set; bits shifted past 64 are
// discarded.
func ReadUvarint(c *Cursor, maxBytes int) (uint64, error) {
	first, err := c.ReadByte()
	if err != nil {
		return 0, err
	}

	return ReadUvarintSeed(c, first, maxBytes)
}

// ReadUvarintSeed is ReadUvarint with the first byte supplied by the
// caller. Map-header decoding needs this: the header byte is consumed to
// test for the empty-map sentinel before it turns out to be the first
// byte of the entry count.
func ReadUvarintSeed(c *Cursor, first byte, maxBytes int) (uint64, error) {
	result := uint64(first & 0x7f)
	if first&0x80 == 0 {
		return result, nil
	}

	shift := uint(7)

	for i := 1; ; i++ {
		if i >= maxBytes {
			return 0, newError(ErrMalformedVarint, c.Offset())
		}

		b, err := c.ReadByte()
		if err != nil {
			return 0, err
		}

		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}

		shift += 7
	}
}

// ReadVarintBytes consumes a LEB128-terminated run and returns the raw
// bytes as a subslice of the underlying region. Integer primitives are
// preserved in this form; zig-zag interpretation happens downstream.
func ReadVarintBytes(c *Cursor, maxBytes int) ([]byte, error) {
	start := c.pos

	for i := 0; ; i++ {
		if i >= maxBytes {
			return nil, newError(ErrMalformedVarint, c.Offset())
		}

		b, err := c.ReadByte()
		if err != nil {
			return nil, err
		}

		if b&0x80 == 0 {
			return c.buf[start:c.pos], nil
		}
	}
}

// ZigZag maps an unsigned LEB128 value back to its signed form.
func ZigZag(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}
