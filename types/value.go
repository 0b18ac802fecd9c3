package types

// ThriftObject is a node in the decoded value tree. It is a closed sum:
// the only implementations are Stop, Data, *ThriftStruct,
// *ThriftKeyedCollection and *ThriftUnkeyedCollection.
type ThriftObject interface {
	thriftObject()
}

// Stop is the sentinel payload. It appears where a value position
// carries no bytes on the wire: a void collection element, or a value
// whose type has no payload encoding (such as TypeStop).
type Stop struct{}

func (Stop) thriftObject() {}

// Data holds the byte-level compact form of a primitive: raw LEB128 runs
// for integers, 8 little-endian bytes for doubles, raw payload bytes for
// strings, and a single byte for booleans (0x01/0x00 for struct fields,
// the raw payload byte for collection elements). Interpretation
// (zig-zag, UTF-8, float bits) is left to the consumer.
type Data []byte

func (Data) thriftObject() {}

// ThriftValue is a single struct field: its absolute field ID, the wire
// type from the field header, and the decoded payload.
type ThriftValue struct {
	Index  int16
	Type   ThriftType
	Object ThriftObject
}

// ThriftStruct is a decoded struct. Index is the field ID the struct
// occupied in its parent, nil for the top-level root. Fields are keyed
// by absolute field ID and iteration order matches wire order.
type ThriftStruct struct {
	Index *int16

	fields map[int16]*ThriftValue
	order  []int16
}

func (*ThriftStruct) thriftObject() {}

func NewThriftStruct(index *int16) *ThriftStruct {
	return &ThriftStruct{
		Index:  index,
		fields: make(map[int16]*ThriftValue),
	}
}

// Add inserts a field. A repeated field ID replaces the existing value
// but keeps its original position in the wire order.
func (s *ThriftStruct) Add(v *ThriftValue) {
	if _, ok := s.fields[v.Index]; !ok {
		s.order = append(s.order, v.Index)
	}

	s.fields[v.Index] = v
}

func (s *ThriftStruct) Get(id int16) (*ThriftValue, bool) {
	v, ok := s.fields[id]
	return v, ok
}

// FieldIDs returns the field IDs in the order they appeared on the wire.
func (s *ThriftStruct) FieldIDs() []int16 {
	ids := make([]int16, len(s.order))
	copy(ids, s.order)
	return ids
}

func (s *ThriftStruct) Len() int {
	return len(s.fields)
}

// KeyedEntry is a single map entry.
type KeyedEntry struct {
	Key   ThriftObject
	Value ThriftObject
}

// ThriftKeyedCollection is a decoded map. An empty map on the wire is a
// single zero byte and decodes with KeyType and ElementType set to
// TypeStop.
type ThriftKeyedCollection struct {
	Index       *int16
	Count       int
	KeyType     ThriftType
	ElementType ThriftType
	Entries     []KeyedEntry
}

func (*ThriftKeyedCollection) thriftObject() {}

// ThriftUnkeyedCollection is a decoded list or set. Type records which
// of the two the wire header named; ElementType is the element type from
// the collection header.
type ThriftUnkeyedCollection struct {
	Index       *int16
	Count       int
	Type        ThriftType
	ElementType ThriftType
	Entries     []ThriftObject
}

func (*ThriftUnkeyedCollection) thriftObject() {}
