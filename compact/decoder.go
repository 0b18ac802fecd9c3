// Package compact decodes Apache Thrift compact-protocol payloads into a
// generic, self-describing value tree. No IDL is required: the compact
// encoding carries type tags inline, so the tree can be reconstructed
// from the bytes alone.
//
// The decoder is a single-pass recursive descent over a fully
// materialized byte window. It performs no I/O, keeps no state between
// invocations and never reads past the input; the first malformed byte
// aborts the whole decode.
package compact

import (
	"github.com/batchcorp/thriftwire/types"
)

// DefaultMaxDepth bounds struct/collection nesting so hostile input
// cannot exhaust the call stack.
const DefaultMaxDepth = 64

// Options adjusts decoder behavior. The zero value is usable.
type Options struct {
	// MaxDepth bounds nesting of structs and collections. Values <= 0
	// fall back to DefaultMaxDepth.
	MaxDepth int

	// StandardFieldIDEscape selects the Apache-canonical zig-zag varint
	// encoding for the delta==0 field ID escape. The default reads two
	// raw big-endian bytes before zig-zag, which is what several widely
	// deployed writers emit. The two encodings are not interoperable for
	// IDs outside the single-byte varint range.
	StandardFieldIDEscape bool

	// StrictBool rejects collection boolean payload bytes other than
	// 0x00, 0x01 and 0x02 (writers disagree on true/false encoding
	// inside collections; all three appear in the wild).
	StrictBool bool
}

func (o *Options) maxDepth() int {
	if o == nil || o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}

	return o.MaxDepth
}

// Stats summarizes a completed decode.
type Stats struct {
	BytesConsumed int
	Fields        int
	MaxDepth      int
	TypeCounts    map[types.ThriftType]int
}

// Decoder drives a single decode over one byte window. Not safe for
// concurrent use; create one per payload.
type Decoder struct {
	cur   *Cursor
	opts  *Options
	depth int
	stats Stats
}

func NewDecoder(buf []byte, opts *Options) *Decoder {
	return &Decoder{
		cur:  NewCursor(buf),
		opts: opts,
		stats: Stats{
			TypeCounts: make(map[types.ThriftType]int),
		},
	}
}

// ParseStruct decodes a top-level struct from buf. opts may be nil.
func ParseStruct(buf []byte, opts *Options) (*types.ThriftStruct, error) {
	return NewDecoder(buf, opts).DecodeStruct()
}

// ParseValue decodes a single value of the given type from buf. opts may
// be nil.
func ParseValue(buf []byte, t types.ThriftType, opts *Options) (types.ThriftObject, error) {
	return NewDecoder(buf, opts).DecodeValue(t)
}

// DecodeStruct decodes a top-level struct (nil parent index).
func (d *Decoder) DecodeStruct() (*types.ThriftStruct, error) {
	st, err := d.readStruct(nil)
	if err != nil {
		return nil, err
	}

	d.stats.BytesConsumed = d.cur.Offset()

	return st, nil
}

// DecodeValue decodes a single value of caller-specified type, as it
// would appear in a struct field position.
func (d *Decoder) DecodeValue(t types.ThriftType) (types.ThriftObject, error) {
	obj, err := d.readValue(nil, t, false)
	if err != nil {
		return nil, err
	}

	d.stats.BytesConsumed = d.cur.Offset()

	return obj, nil
}

// Stats is only meaningful after a successful decode.
func (d *Decoder) Stats() Stats {
	return d.stats
}

// Remaining returns the number of bytes left unconsumed after a decode.
func (d *Decoder) Remaining() int {
	return d.cur.Remaining()
}

func (d *Decoder) push() error {
	d.depth++
	if d.depth > d.opts.maxDepth() {
		return newError(ErrMaxDepthExceeded, d.cur.Offset())
	}

	if d.depth > d.stats.MaxDepth {
		d.stats.MaxDepth = d.depth
	}

	return nil
}

func (d *Decoder) pop() {
	d.depth--
}

// readStruct consumes field headers and values until the stop sentinel.
// Field IDs are delta-encoded against the previous field of the same
// struct, so the running previous ID is scoped to this invocation.
func (d *Decoder) readStruct(index *int16) (*types.ThriftStruct, error) {
	if err := d.push(); err != nil {
		return nil, err
	}
	defer d.pop()

	st := types.NewThriftStruct(index)

	var previousID int16

	for {
		fieldType, id, err := d.readFieldHeader(previousID)
		if err != nil {
			return nil, err
		}

		if fieldType == types.TypeStop {
			break
		}

		fieldID := id

		obj, err := d.readValue(&fieldID, fieldType, false)
		if err != nil {
			return nil, err
		}

		st.Add(&types.ThriftValue{
			Index:  id,
			Type:   fieldType,
			Object: obj,
		})

		d.stats.Fields++
		previousID = id
	}

	return st, nil
}

// readFieldHeader reads one field header byte. A zero byte is the stop
// sentinel. Otherwise the high nibble is the field ID delta (0 selects
// the 16-bit escape) and the low nibble is the type code.
func (d *Decoder) readFieldHeader(previousID int16) (types.ThriftType, int16, error) {
	h, err := d.cur.ReadByte()
	if err != nil {
		return types.TypeStop, 0, err
	}

	if h == 0 {
		return types.TypeStop, 0, nil
	}

	delta := (h >> 4) & 0x0f

	fieldType, ok := types.TypeFromCompact(h & 0x0f)
	if !ok {
		return types.TypeStop, 0, newTypeError(h&0x0f, d.cur.Offset()-1)
	}

	if delta != 0 {
		return fieldType, previousID + int16(delta), nil
	}

	var id int16

	if d.opts != nil && d.opts.StandardFieldIDEscape {
		u, err := ReadUvarint(d.cur, MaxVarintLen16)
		if err != nil {
			return types.TypeStop, 0, err
		}

		id = int16(ZigZag(u))
	} else {
		raw, err := d.cur.ReadUint16BE()
		if err != nil {
			return types.TypeStop, 0, err
		}

		id = int16(ZigZag(uint64(raw)))
	}

	return fieldType, id, nil
}

// readValue decodes one object of the given type. inCollection flips the
// semantics of void and bool: a struct field header already carries the
// boolean value in its type nibble, while a collection element needs a
// real payload byte.
func (d *Decoder) readValue(index *int16, t types.ThriftType, inCollection bool) (types.ThriftObject, error) {
	d.stats.TypeCounts[t]++

	switch t {
	case types.TypeVoid:
		if inCollection {
			return types.Stop{}, nil
		}

		// Field header nibble 0x1: boolean true, no payload byte.
		return types.Data{0x01}, nil

	case types.TypeBool:
		if !inCollection {
			// Field header nibble 0x2: boolean false, no payload byte.
			return types.Data{0x00}, nil
		}

		b, err := d.cur.ReadByte()
		if err != nil {
			return nil, err
		}

		if d.opts != nil && d.opts.StrictBool && b > 0x02 {
			return nil, newError(ErrInvalidBool, d.cur.Offset()-1)
		}

		return types.Data{b}, nil

	case types.TypeByte:
		b, err := d.cur.ReadByte()
		if err != nil {
			return nil, err
		}

		return types.Data{b}, nil

	case types.TypeDouble:
		b, err := d.cur.ReadBytes(8)
		if err != nil {
			return nil, err
		}

		return types.Data(b), nil

	case types.TypeI16:
		b, err := ReadVarintBytes(d.cur, MaxVarintLen16)
		if err != nil {
			return nil, err
		}

		return types.Data(b), nil

	case types.TypeI32:
		b, err := ReadVarintBytes(d.cur, MaxVarintLen32)
		if err != nil {
			return nil, err
		}

		return types.Data(b), nil

	case types.TypeI64:
		b, err := ReadVarintBytes(d.cur, MaxVarintLen64)
		if err != nil {
			return nil, err
		}

		return types.Data(b), nil

	case types.TypeString:
		return d.readBinary()

	case types.TypeStruct:
		return d.readStruct(index)

	case types.TypeMap:
		return d.readMap(index)

	case types.TypeList, types.TypeSet:
		return d.readListOrSet(index, t)
	}

	// Unknown types cannot carry a payload we know how to size, so emit
	// the sentinel and consume nothing.
	return types.Stop{}, nil
}

func (d *Decoder) readBinary() (types.ThriftObject, error) {
	n, err := ReadUvarint(d.cur, MaxVarintLen32)
	if err != nil {
		return nil, err
	}

	if n > uint64(d.cur.Remaining()) {
		return nil, newError(ErrBufferOverflow, d.cur.Offset())
	}

	b, err := d.cur.ReadBytes(int(n))
	if err != nil {
		return nil, err
	}

	return types.Data(b), nil
}

// readMap decodes a map header and its entries. A single zero byte is a
// complete empty map; otherwise the already-consumed byte seeds the
// entry count varint.
func (d *Decoder) readMap(index *int16) (types.ThriftObject, error) {
	if err := d.push(); err != nil {
		return nil, err
	}
	defer d.pop()

	h, err := d.cur.ReadByte()
	if err != nil {
		return nil, err
	}

	if h == 0 {
		return &types.ThriftKeyedCollection{
			Index:       index,
			KeyType:     types.TypeStop,
			ElementType: types.TypeStop,
			Entries:     []types.KeyedEntry{},
		}, nil
	}

	count64, err := ReadUvarintSeed(d.cur, h, MaxVarintLen32)
	if err != nil {
		return nil, err
	}

	if count64 > uint64(d.cur.Remaining()) {
		return nil, newError(ErrBufferOverflow, d.cur.Offset())
	}

	count := int(count64)

	tb, err := d.cur.ReadByte()
	if err != nil {
		return nil, err
	}

	keyType, ok := types.TypeFromCompact(tb >> 4)
	if !ok {
		return nil, newTypeError(tb>>4, d.cur.Offset()-1)
	}

	elementType, ok := types.TypeFromCompact(tb & 0x0f)
	if !ok {
		return nil, newTypeError(tb&0x0f, d.cur.Offset()-1)
	}

	entries := make([]types.KeyedEntry, 0, count)

	for i := 0; i < count; i++ {
		key, err := d.readValue(nil, keyType, true)
		if err != nil {
			return nil, err
		}

		value, err := d.readValue(nil, elementType, true)
		if err != nil {
			return nil, err
		}

		entries = append(entries, types.KeyedEntry{Key: key, Value: value})
	}

	return &types.ThriftKeyedCollection{
		Index:       index,
		Count:       count,
		KeyType:     keyType,
		ElementType: elementType,
		Entries:     entries,
	}, nil
}

// readListOrSet decodes a list/set header and its elements. Counts up to
// 14 are packed into the header's high nibble; 15 means the real count
// follows as a varint.
func (d *Decoder) readListOrSet(index *int16, outer types.ThriftType) (types.ThriftObject, error) {
	if err := d.push(); err != nil {
		return nil, err
	}
	defer d.pop()

	h, err := d.cur.ReadByte()
	if err != nil {
		return nil, err
	}

	elementType, ok := types.TypeFromCompact(h & 0x0f)
	if !ok {
		return nil, newTypeError(h&0x0f, d.cur.Offset()-1)
	}

	count := int((h >> 4) & 0x0f)

	if count == 15 {
		count64, err := ReadUvarint(d.cur, MaxVarintLen32)
		if err != nil {
			return nil, err
		}

		if count64 > uint64(d.cur.Remaining()) {
			return nil, newError(ErrBufferOverflow, d.cur.Offset())
		}

		count = int(count64)
	}

	entries := make([]types.ThriftObject, 0, count)

	for i := 0; i < count; i++ {
		obj, err := d.readValue(nil, elementType, true)
		if err != nil {
			return nil, err
		}

		entries = append(entries, obj)
	}

	return &types.ThriftUnkeyedCollection{
		Index:       index,
		Count:       count,
		Type:        outer,
		ElementType: elementType,
		Entries:     entries,
	}, nil
}
