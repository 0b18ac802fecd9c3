package types

// ThriftType identifies a thrift wire type. The compact protocol carries
// these inline as 4-bit type codes, which is what makes schema-less
// decoding possible in the first place.
type ThriftType int8

const (
	TypeStop ThriftType = iota
	TypeVoid
	TypeBool
	TypeByte
	TypeDouble
	TypeI16
	TypeI32
	TypeI64
	TypeString
	TypeStruct
	TypeMap
	TypeList
	TypeSet
)

// Compact type codes, per the compact protocol wire format. Codes 1 and 2
// double as the boolean value when they appear in a struct field header.
const (
	compactStop         = 0x00
	compactBooleanTrue  = 0x01
	compactBooleanFalse = 0x02
	compactByte         = 0x03
	compactI16          = 0x04
	compactI32          = 0x05
	compactI64          = 0x06
	compactDouble       = 0x07
	compactBinary       = 0x08
	compactList         = 0x09
	compactSet          = 0x0a
	compactMap          = 0x0b
	compactStruct       = 0x0c
)

// TypeFromCompact maps a 4-bit compact type code to its ThriftType. The
// second return is false for codes outside 0..12.
//
// Code 1 (boolean-true) maps to TypeVoid and code 2 (boolean-false) maps
// to TypeBool: a struct field header encodes the boolean value in the
// type nibble itself, so the two codes must stay distinguishable in the
// decoded tree.
func TypeFromCompact(nibble byte) (ThriftType, bool) {
	switch nibble {
	case compactStop:
		return TypeStop, true
	case compactBooleanTrue:
		return TypeVoid, true
	case compactBooleanFalse:
		return TypeBool, true
	case compactByte:
		return TypeByte, true
	case compactI16:
		return TypeI16, true
	case compactI32:
		return TypeI32, true
	case compactI64:
		return TypeI64, true
	case compactDouble:
		return TypeDouble, true
	case compactBinary:
		return TypeString, true
	case compactList:
		return TypeList, true
	case compactSet:
		return TypeSet, true
	case compactMap:
		return TypeMap, true
	case compactStruct:
		return TypeStruct, true
	}

	return TypeStop, false
}

// CompactCode returns the 4-bit compact code for t.
func (t ThriftType) CompactCode() byte {
	switch t {
	case TypeVoid:
		return compactBooleanTrue
	case TypeBool:
		return compactBooleanFalse
	case TypeByte:
		return compactByte
	case TypeI16:
		return compactI16
	case TypeI32:
		return compactI32
	case TypeI64:
		return compactI64
	case TypeDouble:
		return compactDouble
	case TypeString:
		return compactBinary
	case TypeList:
		return compactList
	case TypeSet:
		return compactSet
	case TypeMap:
		return compactMap
	case TypeStruct:
		return compactStruct
	}

	return compactStop
}

func (t ThriftType) String() string {
	switch t {
	case TypeStop:
		return "stop"
	case TypeVoid:
		return "void"
	case TypeBool:
		return "bool"
	case TypeByte:
		return "byte"
	case TypeDouble:
		return "double"
	case TypeI16:
		return "i16"
	case TypeI32:
		return "i32"
	case TypeI64:
		return "i64"
	case TypeString:
		return "string"
	case TypeStruct:
		return "struct"
	case TypeMap:
		return "map"
	case TypeList:
		return "list"
	case TypeSet:
		return "set"
	}

	return "unknown"
}
