// Package kvwire is the public surface of the key-value store wire codec.
// It re-exports the codec core so callers never import internal packages:
// build a Value (or convert a native Go value with ValueOf), Marshal it to
// bytes, and Unmarshal or stream-Decode it back.
package kvwire

import (
	wire "github.com/gbutler69/my-pingcap-talentplan/internal/kvwire"
)

// Value model.
type (
	Value = wire.Value
	Kind  = wire.Kind
	Field = wire.Field
	Entry = wire.Entry
)

// Codec machinery.
type (
	Encoder = wire.Encoder
	Decoder = wire.Decoder
	Cursor  = wire.Cursor
)

// Errors.
type (
	Error     = wire.Error
	ErrorKind = wire.ErrorKind
)

var ErrEndOfInput = wire.ErrEndOfInput

const (
	ErrTruncatedInput      = wire.ErrTruncatedInput
	ErrUnknownTag          = wire.ErrUnknownTag
	ErrLengthOverflow      = wire.ErrLengthOverflow
	ErrMissingTerminator   = wire.ErrMissingTerminator
	ErrInvalidUTF8         = wire.ErrInvalidUTF8
	ErrSimpleStringTooLong = wire.ErrSimpleStringTooLong
	ErrMalformedScalar     = wire.ErrMalformedScalar
	ErrDepthExceeded       = wire.ErrDepthExceeded
	ErrInvalidSimpleString = wire.ErrInvalidSimpleString
	ErrValueOutOfRange     = wire.ErrValueOutOfRange
)

// Wire-contract constants.
const (
	MaxSimpleStringLen = wire.MaxSimpleStringLen
	MaxLength          = wire.MaxLength
	DefaultMaxDepth    = wire.DefaultMaxDepth
)

// Value kinds.
const (
	KindSimpleString = wire.KindSimpleString
	KindString       = wire.KindString
	KindChar         = wire.KindChar
	KindBinary       = wire.KindBinary
	KindInt8         = wire.KindInt8
	KindInt16        = wire.KindInt16
	KindInt32        = wire.KindInt32
	KindInt64        = wire.KindInt64
	KindInt128       = wire.KindInt128
	KindUint8        = wire.KindUint8
	KindUint16       = wire.KindUint16
	KindUint32       = wire.KindUint32
	KindUint64       = wire.KindUint64
	KindUint128      = wire.KindUint128
	KindFloat32      = wire.KindFloat32
	KindFloat64      = wire.KindFloat64
	KindBool         = wire.KindBool
	KindEnumUnit     = wire.KindEnumUnit
	KindEnumTuple    = wire.KindEnumTuple
	KindEnumStruct   = wire.KindEnumStruct
	KindSequence     = wire.KindSequence
	KindTuple        = wire.KindTuple
	KindNamedTuple   = wire.KindNamedTuple
	KindMap          = wire.KindMap
	KindStruct       = wire.KindStruct
	KindNil          = wire.KindNil
	KindIdentifier   = wire.KindIdentifier
)

// Entry points.
var (
	Marshal    = wire.Marshal
	Unmarshal  = wire.Unmarshal
	NewEncoder = wire.NewEncoder
	NewDecoder = wire.NewDecoder
	NewCursor  = wire.NewCursor
	ValueOf    = wire.ValueOf
	Into       = wire.Into
	IsKind     = wire.IsKind
	KindForTag = wire.KindForTag
	TagForKind = wire.TagForKind
	TagName    = wire.TagName
)

// Value constructors.
var (
	SimpleString = wire.SimpleString
	String       = wire.String
	Identifier   = wire.Identifier
	Char         = wire.Char
	Binary       = wire.Binary
	Bool         = wire.Bool
	Nil          = wire.Nil
	Int8         = wire.Int8
	Int16        = wire.Int16
	Int32        = wire.Int32
	Int64        = wire.Int64
	Uint8        = wire.Uint8
	Uint16       = wire.Uint16
	Uint32       = wire.Uint32
	Uint64       = wire.Uint64
	Int128       = wire.Int128
	Uint128      = wire.Uint128
	Float32      = wire.Float32
	Float64      = wire.Float64
	Sequence     = wire.Sequence
	Tuple        = wire.Tuple
	NamedTuple   = wire.NamedTuple
	Map          = wire.Map
	Struct       = wire.Struct
	EnumUnit     = wire.EnumUnit
	EnumTuple    = wire.EnumTuple
	EnumStruct   = wire.EnumStruct
)
