package kvwire

import (
	"fmt"
	"math"
	"math/big"
	"strings"
)

// Value is the recursive tagged union the codec operates on. Kind selects
// the variant; only the payload fields that variant uses are meaningful.
// Values own their children exclusively, the grammar is a tree.
type Value struct {
	Kind Kind

	Bool  bool     // KindBool
	Int   int64    // KindInt8..KindInt64
	Uint  uint64   // KindUint8..KindUint64
	Big   *big.Int // KindInt128, KindUint128
	Float float64  // KindFloat32, KindFloat64
	Char  rune     // KindChar
	Str   string   // KindSimpleString, KindString, KindIdentifier
	Bin   []byte   // KindBinary

	Name    string  // struct name / enum name for named and enum kinds
	Variant string  // variant name for enum kinds
	Elems   []Value // KindSequence, KindTuple, KindNamedTuple, KindEnumTuple
	Fields  []Field // KindStruct, KindEnumStruct
	Entries []Entry // KindMap
}

// Field is one (name, value) pair of a Struct or StructVariant.
type Field struct {
	Name  string
	Value Value
}

// Entry is one (key, value) pair of a Map.
type Entry struct {
	Key Value
	Val Value
}

// Constructors. Scalar constructors take exact-width arguments so a Value
// built through them is always encodable; the encoder still re-checks
// widths for hand-assembled Values.

func SimpleString(s string) Value { return Value{Kind: KindSimpleString, Str: s} }
func String(s string) Value       { return Value{Kind: KindString, Str: s} }
func Identifier(s string) Value   { return Value{Kind: KindIdentifier, Str: s} }
func Char(r rune) Value           { return Value{Kind: KindChar, Char: r} }
func Binary(b []byte) Value       { return Value{Kind: KindBinary, Bin: b} }
func Bool(b bool) Value           { return Value{Kind: KindBool, Bool: b} }
func Nil() Value                  { return Value{Kind: KindNil} }

func Int8(v int8) Value   { return Value{Kind: KindInt8, Int: int64(v)} }
func Int16(v int16) Value { return Value{Kind: KindInt16, Int: int64(v)} }
func Int32(v int32) Value { return Value{Kind: KindInt32, Int: int64(v)} }
func Int64(v int64) Value { return Value{Kind: KindInt64, Int: v} }

func Uint8(v uint8) Value   { return Value{Kind: KindUint8, Uint: uint64(v)} }
func Uint16(v uint16) Value { return Value{Kind: KindUint16, Uint: uint64(v)} }
func Uint32(v uint32) Value { return Value{Kind: KindUint32, Uint: uint64(v)} }
func Uint64(v uint64) Value { return Value{Kind: KindUint64, Uint: v} }

func Float32(v float32) Value { return Value{Kind: KindFloat32, Float: float64(v)} }
func Float64(v float64) Value { return Value{Kind: KindFloat64, Float: v} }

// Int128 wraps a 128-bit signed integer. The argument is copied.
func Int128(v *big.Int) Value {
	return Value{Kind: KindInt128, Big: new(big.Int).Set(v)}
}

// Uint128 wraps a 128-bit unsigned integer. The argument is copied.
func Uint128(v *big.Int) Value {
	return Value{Kind: KindUint128, Big: new(big.Int).Set(v)}
}

func Sequence(elems ...Value) Value { return Value{Kind: KindSequence, Elems: elems} }
func Tuple(elems ...Value) Value    { return Value{Kind: KindTuple, Elems: elems} }

func NamedTuple(name string, elems ...Value) Value {
	return Value{Kind: KindNamedTuple, Name: name, Elems: elems}
}

func Map(entries ...Entry) Value { return Value{Kind: KindMap, Entries: entries} }

func Struct(name string, fields ...Field) Value {
	return Value{Kind: KindStruct, Name: name, Fields: fields}
}

func EnumUnit(enum, variant string) Value {
	return Value{Kind: KindEnumUnit, Name: enum, Variant: variant}
}

func EnumTuple(enum, variant string, elems ...Value) Value {
	return Value{Kind: KindEnumTuple, Name: enum, Variant: variant, Elems: elems}
}

func EnumStruct(enum, variant string, fields ...Field) Value {
	return Value{Kind: KindEnumStruct, Name: enum, Variant: variant, Fields: fields}
}

// Equal reports structural equality of two value trees. Floats compare by
// bit pattern so NaN equals NaN and round-tripped values compare clean.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNil:
		return true
	case KindBool:
		return v.Bool == o.Bool
	case KindChar:
		return v.Char == o.Char
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return v.Int == o.Int
	case KindUint8, KindUint16, KindUint32, KindUint64:
		return v.Uint == o.Uint
	case KindInt128, KindUint128:
		if v.Big == nil || o.Big == nil {
			return v.Big == o.Big
		}
		return v.Big.Cmp(o.Big) == 0
	case KindFloat32:
		return math.Float32bits(float32(v.Float)) == math.Float32bits(float32(o.Float))
	case KindFloat64:
		return math.Float64bits(v.Float) == math.Float64bits(o.Float)
	case KindSimpleString, KindString, KindIdentifier:
		return v.Str == o.Str
	case KindBinary:
		if len(v.Bin) != len(o.Bin) {
			return false
		}
		for i := range v.Bin {
			if v.Bin[i] != o.Bin[i] {
				return false
			}
		}
		return true
	case KindSequence, KindTuple:
		return elemsEqual(v.Elems, o.Elems)
	case KindNamedTuple:
		return v.Name == o.Name && elemsEqual(v.Elems, o.Elems)
	case KindEnumUnit:
		return v.Name == o.Name && v.Variant == o.Variant
	case KindEnumTuple:
		return v.Name == o.Name && v.Variant == o.Variant && elemsEqual(v.Elems, o.Elems)
	case KindStruct:
		return v.Name == o.Name && fieldsEqual(v.Fields, o.Fields)
	case KindEnumStruct:
		return v.Name == o.Name && v.Variant == o.Variant && fieldsEqual(v.Fields, o.Fields)
	case KindMap:
		if len(v.Entries) != len(o.Entries) {
			return false
		}
		for i := range v.Entries {
			if !v.Entries[i].Key.Equal(o.Entries[i].Key) || !v.Entries[i].Val.Equal(o.Entries[i].Val) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func elemsEqual(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func fieldsEqual(a, b []Field) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || !a[i].Value.Equal(b[i].Value) {
			return false
		}
	}
	return true
}

// String renders a compact, human-readable form of the value tree for
// diagnostics and the inspection tool. It is not the wire encoding.
func (v Value) String() string {
	var sb strings.Builder
	v.render(&sb)
	return sb.String()
}

func (v Value) render(sb *strings.Builder) {
	switch v.Kind {
	case KindNil:
		sb.WriteString("nil")
	case KindBool:
		fmt.Fprintf(sb, "%v", v.Bool)
	case KindChar:
		fmt.Fprintf(sb, "'%c'", v.Char)
	case KindInt8, KindInt16, KindInt32, KindInt64:
		fmt.Fprintf(sb, "%s(%d)", v.Kind, v.Int)
	case KindUint8, KindUint16, KindUint32, KindUint64:
		fmt.Fprintf(sb, "%s(%d)", v.Kind, v.Uint)
	case KindInt128, KindUint128:
		fmt.Fprintf(sb, "%s(%s)", v.Kind, v.Big)
	case KindFloat32, KindFloat64:
		fmt.Fprintf(sb, "%s(%s)", v.Kind, formatFloatText(v.Float, v.Kind == KindFloat32))
	case KindSimpleString, KindString:
		fmt.Fprintf(sb, "%q", v.Str)
	case KindIdentifier:
		fmt.Fprintf(sb, "ident(%s)", v.Str)
	case KindBinary:
		fmt.Fprintf(sb, "binary(%d bytes)", len(v.Bin))
	case KindSequence, KindTuple:
		opening, closing := "[", "]"
		if v.Kind == KindTuple {
			opening, closing = "(", ")"
		}
		sb.WriteString(opening)
		for i, e := range v.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			e.render(sb)
		}
		sb.WriteString(closing)
	case KindNamedTuple:
		sb.WriteString(v.Name)
		sb.WriteString("(")
		for i, e := range v.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			e.render(sb)
		}
		sb.WriteString(")")
	case KindMap:
		sb.WriteString("{")
		for i, ent := range v.Entries {
			if i > 0 {
				sb.WriteString(", ")
			}
			ent.Key.render(sb)
			sb.WriteString(": ")
			ent.Val.render(sb)
		}
		sb.WriteString("}")
	case KindStruct, KindEnumStruct:
		sb.WriteString(v.Name)
		if v.Kind == KindEnumStruct {
			sb.WriteString("::")
			sb.WriteString(v.Variant)
		}
		sb.WriteString("{")
		for i, f := range v.Fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(f.Name)
			sb.WriteString(": ")
			f.Value.render(sb)
		}
		sb.WriteString("}")
	case KindEnumUnit:
		sb.WriteString(v.Name)
		sb.WriteString("::")
		sb.WriteString(v.Variant)
	case KindEnumTuple:
		sb.WriteString(v.Name)
		sb.WriteString("::")
		sb.WriteString(v.Variant)
		sb.WriteString("(")
		for i, e := range v.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			e.render(sb)
		}
		sb.WriteString(")")
	default:
		fmt.Fprintf(sb, "<%s>", v.Kind)
	}
}
