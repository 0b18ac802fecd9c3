package serializers

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"

	"github.com/batchcorp/thriftwire/compact"
	"github.com/batchcorp/thriftwire/types"
)

// objectToInterface turns a decoded tree node into plain Go values fit
// for JSON marshaling. The parser preserves primitives in their raw
// byte-level compact form, so interpretation (zig-zag, float bits)
// happens here.
func objectToInterface(obj types.ThriftObject, t types.ThriftType) (interface{}, error) {
	switch o := obj.(type) {
	case types.Stop:
		return nil, nil
	case types.Data:
		return dataToInterface(o, t)
	case *types.ThriftStruct:
		return structToInterface(o)
	case *types.ThriftKeyedCollection:
		return keyedToInterface(o)
	case *types.ThriftUnkeyedCollection:
		return unkeyedToInterface(o)
	}

	return nil, errors.Errorf("unknown thrift object %T", obj)
}

func dataToInterface(data types.Data, t types.ThriftType) (interface{}, error) {
	switch t {
	case types.TypeVoid, types.TypeBool:
		if len(data) != 1 {
			return nil, errors.New("boolean payload must be exactly one byte")
		}

		return data[0] != 0x00, nil

	case types.TypeByte:
		if len(data) != 1 {
			return nil, errors.New("byte payload must be exactly one byte")
		}

		return int8(data[0]), nil

	case types.TypeDouble:
		if len(data) != 8 {
			return nil, errors.New("double payload must be exactly eight bytes")
		}

		return math.Float64frombits(binary.LittleEndian.Uint64(data)), nil

	case types.TypeI16:
		v, err := varintToInt64(data)
		return int16(v), err

	case types.TypeI32:
		v, err := varintToInt64(data)
		return int32(v), err

	case types.TypeI64:
		return varintToInt64(data)

	case types.TypeString:
		return string(data), nil
	}

	// Defensive: unknown primitives surface as raw bytes.
	return []byte(data), nil
}

// varintToInt64 applies zig-zag to a stored LEB128 run.
func varintToInt64(data []byte) (int64, error) {
	u, err := compact.ReadUvarint(compact.NewCursor(data), compact.MaxVarintLen64)
	if err != nil {
		return 0, errors.Wrap(err, "unable to interpret stored varint")
	}

	return compact.ZigZag(u), nil
}

// structToInterface keys fields by ID. jsoniter renders the int16 keys
// as JSON object keys.
func structToInterface(st *types.ThriftStruct) (map[int16]interface{}, error) {
	out := make(map[int16]interface{}, st.Len())

	for _, id := range st.FieldIDs() {
		field, _ := st.Get(id)

		v, err := objectToInterface(field.Object, field.Type)
		if err != nil {
			return nil, err
		}

		out[id] = v
	}

	return out, nil
}

// keyedToInterface produces a map[interface{}]interface{}; thrift map
// keys are not limited to strings, which is why jsoniter is used for
// marshaling instead of encoding/json.
func keyedToInterface(kc *types.ThriftKeyedCollection) (map[interface{}]interface{}, error) {
	out := make(map[interface{}]interface{}, len(kc.Entries))

	for _, entry := range kc.Entries {
		k, err := objectToInterface(entry.Key, kc.KeyType)
		if err != nil {
			return nil, err
		}

		v, err := objectToInterface(entry.Value, kc.ElementType)
		if err != nil {
			return nil, err
		}

		out[k] = v
	}

	return out, nil
}

func unkeyedToInterface(uc *types.ThriftUnkeyedCollection) ([]interface{}, error) {
	out := make([]interface{}, 0, len(uc.Entries))

	for _, entry := range uc.Entries {
		v, err := objectToInterface(entry, uc.ElementType)
		if err != nil {
			return nil, err
		}

		out = append(out, v)
	}

	return out, nil
}
