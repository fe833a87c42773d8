package kvwire

import "fmt"

// Indicator bytes. One per value kind, except Bool which uses the literal
// '0'/'1' as both tag and payload. These are part of the wire contract and
// must not change.
const (
	TagSimpleString byte = '$'
	TagString       byte = '&'
	TagChar         byte = 'c'
	TagBinary       byte = '%'
	TagInt8         byte = 'b'
	TagInt16        byte = 'w'
	TagInt32        byte = 'i'
	TagInt64        byte = 'd'
	TagInt128       byte = 'q'
	TagUint8        byte = 'B'
	TagUint16       byte = 'W'
	TagUint32       byte = 'I'
	TagUint64       byte = 'D'
	TagUint128      byte = 'Q'
	TagFloat32      byte = 'f'
	TagFloat64      byte = 'F'
	TagBoolFalse    byte = '0'
	TagBoolTrue     byte = '1'
	TagEnumUnit     byte = '@'
	TagEnumTuple    byte = '^'
	TagEnumStruct   byte = '#'
	TagSequence     byte = '`'
	TagTuple        byte = '~'
	TagNamedTuple   byte = ':'
	TagMap          byte = '{'
	TagStruct       byte = '}'
	TagNil          byte = '!'
	TagIdentifier   byte = '='

	// TagFieldMarker prefixes each field name inside a plain Struct. It is
	// not a value indicator and never appears in tag position.
	TagFieldMarker byte = ']'
)

// Wire-contract constants.
const (
	// MaxSimpleStringLen is the byte-length cap for SimpleString payloads.
	MaxSimpleStringLen = 8192
	// MaxLength is the ceiling for every declared length, count and arity.
	MaxLength = 1<<32 - 1
	// DefaultMaxDepth bounds decoder recursion on adversarial input.
	DefaultMaxDepth = 256
)

// Kind identifies a Value variant.
type Kind int

const (
	KindInvalid Kind = iota
	KindSimpleString
	KindString
	KindChar
	KindBinary
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindInt128
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindUint128
	KindFloat32
	KindFloat64
	KindBool
	KindEnumUnit
	KindEnumTuple
	KindEnumStruct
	KindSequence
	KindTuple
	KindNamedTuple
	KindMap
	KindStruct
	KindNil
	KindIdentifier
)

var kindNames = map[Kind]string{
	KindInvalid:      "Invalid",
	KindSimpleString: "SimpleString",
	KindString:       "String",
	KindChar:         "Character",
	KindBinary:       "Binary",
	KindInt8:         "SignedInt8",
	KindInt16:        "SignedInt16",
	KindInt32:        "SignedInt32",
	KindInt64:        "SignedInt64",
	KindInt128:       "SignedInt128",
	KindUint8:        "UnsignedInt8",
	KindUint16:       "UnsignedInt16",
	KindUint32:       "UnsignedInt32",
	KindUint64:       "UnsignedInt64",
	KindUint128:      "UnsignedInt128",
	KindFloat32:      "Float32",
	KindFloat64:      "Float64",
	KindBool:         "Bool",
	KindEnumUnit:     "UnitVariant",
	KindEnumTuple:    "TupleVariant",
	KindEnumStruct:   "StructVariant",
	KindSequence:     "Sequence",
	KindTuple:        "Tuple",
	KindNamedTuple:   "NamedTuple",
	KindMap:          "Map",
	KindStruct:       "Struct",
	KindNil:          "Nil",
	KindIdentifier:   "Identifier",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// KindForTag resolves an indicator byte to its value kind. The second
// return is false for bytes outside the tag table, including the struct
// field marker ']' which is a positional marker rather than a value tag.
func KindForTag(tag byte) (Kind, bool) {
	switch tag {
	case TagSimpleString:
		return KindSimpleString, true
	case TagString:
		return KindString, true
	case TagChar:
		return KindChar, true
	case TagBinary:
		return KindBinary, true
	case TagInt8:
		return KindInt8, true
	case TagInt16:
		return KindInt16, true
	case TagInt32:
		return KindInt32, true
	case TagInt64:
		return KindInt64, true
	case TagInt128:
		return KindInt128, true
	case TagUint8:
		return KindUint8, true
	case TagUint16:
		return KindUint16, true
	case TagUint32:
		return KindUint32, true
	case TagUint64:
		return KindUint64, true
	case TagUint128:
		return KindUint128, true
	case TagFloat32:
		return KindFloat32, true
	case TagFloat64:
		return KindFloat64, true
	case TagBoolFalse, TagBoolTrue:
		return KindBool, true
	case TagEnumUnit:
		return KindEnumUnit, true
	case TagEnumTuple:
		return KindEnumTuple, true
	case TagEnumStruct:
		return KindEnumStruct, true
	case TagSequence:
		return KindSequence, true
	case TagTuple:
		return KindTuple, true
	case TagNamedTuple:
		return KindNamedTuple, true
	case TagMap:
		return KindMap, true
	case TagStruct:
		return KindStruct, true
	case TagNil:
		return KindNil, true
	case TagIdentifier:
		return KindIdentifier, true
	default:
		return KindInvalid, false
	}
}

// TagForKind returns the indicator byte for a value kind. KindBool maps to
// TagBoolFalse here; the encoder picks '0' or '1' from the value itself.
func TagForKind(k Kind) (byte, bool) {
	switch k {
	case KindSimpleString:
		return TagSimpleString, true
	case KindString:
		return TagString, true
	case KindChar:
		return TagChar, true
	case KindBinary:
		return TagBinary, true
	case KindInt8:
		return TagInt8, true
	case KindInt16:
		return TagInt16, true
	case KindInt32:
		return TagInt32, true
	case KindInt64:
		return TagInt64, true
	case KindInt128:
		return TagInt128, true
	case KindUint8:
		return TagUint8, true
	case KindUint16:
		return TagUint16, true
	case KindUint32:
		return TagUint32, true
	case KindUint64:
		return TagUint64, true
	case KindUint128:
		return TagUint128, true
	case KindFloat32:
		return TagFloat32, true
	case KindFloat64:
		return TagFloat64, true
	case KindBool:
		return TagBoolFalse, true
	case KindEnumUnit:
		return TagEnumUnit, true
	case KindEnumTuple:
		return TagEnumTuple, true
	case KindEnumStruct:
		return TagEnumStruct, true
	case KindSequence:
		return TagSequence, true
	case KindTuple:
		return TagTuple, true
	case KindNamedTuple:
		return TagNamedTuple, true
	case KindMap:
		return TagMap, true
	case KindStruct:
		return TagStruct, true
	case KindNil:
		return TagNil, true
	case KindIdentifier:
		return TagIdentifier, true
	default:
		return 0, false
	}
}

// TagName converts an indicator byte to a human-readable name for
// diagnostics and error messages.
func TagName(tag byte) string {
	if tag == TagFieldMarker {
		return "FieldMarker"
	}
	if k, ok := KindForTag(tag); ok {
		return k.String()
	}
	return fmt.Sprintf("UnknownTag(0x%02x)", tag)
}
