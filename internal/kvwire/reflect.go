package kvwire

import (
	"math"
	"math/big"
	"reflect"
	"sort"
	"strings"
)

// ValueOf converts a native Go value into the wire Value model. Strings
// become SimpleStrings when they fit the cap and carry no newline, and
// long or multi-line text falls back to the length-prefixed String form.
// Struct fields honour the `kvwire:"name"` tag; `kvwire:"-"` skips a
// field. Map entries are sorted by rendered key so encoding stays
// deterministic regardless of Go's map iteration order.
func ValueOf(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Nil(), nil
	case Value:
		return val, nil
	case bool:
		return Bool(val), nil
	case int8:
		return Int8(val), nil
	case int16:
		return Int16(val), nil
	case int32:
		return Int32(val), nil
	case int64:
		return Int64(val), nil
	case int:
		return Int64(int64(val)), nil
	case uint8:
		return Uint8(val), nil
	case uint16:
		return Uint16(val), nil
	case uint32:
		return Uint32(val), nil
	case uint64:
		return Uint64(val), nil
	case uint:
		return Uint64(uint64(val)), nil
	case float32:
		return Float32(val), nil
	case float64:
		return Float64(val), nil
	case string:
		return stringValue(val), nil
	case []byte:
		return Binary(val), nil
	case *big.Int:
		if val == nil {
			return Nil(), nil
		}
		return Int128(val), nil
	}
	return reflectValueOf(reflect.ValueOf(v))
}

func stringValue(s string) Value {
	if len(s) <= MaxSimpleStringLen && !strings.ContainsRune(s, '\n') {
		return SimpleString(s)
	}
	return String(s)
}

func reflectValueOf(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Nil(), nil
		}
		return reflectValueOf(rv.Elem())

	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int8:
		return Int8(int8(rv.Int())), nil
	case reflect.Int16:
		return Int16(int16(rv.Int())), nil
	case reflect.Int32:
		return Int32(int32(rv.Int())), nil
	case reflect.Int64, reflect.Int:
		return Int64(rv.Int()), nil
	case reflect.Uint8:
		return Uint8(uint8(rv.Uint())), nil
	case reflect.Uint16:
		return Uint16(uint16(rv.Uint())), nil
	case reflect.Uint32:
		return Uint32(uint32(rv.Uint())), nil
	case reflect.Uint64, reflect.Uint:
		return Uint64(rv.Uint()), nil
	case reflect.Float32:
		return Float32(float32(rv.Float())), nil
	case reflect.Float64:
		return Float64(rv.Float()), nil
	case reflect.String:
		return stringValue(rv.String()), nil

	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return Binary(rv.Bytes()), nil
		}
		elems := make([]Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			el, err := reflectValueOf(rv.Index(i))
			if err != nil {
				return Value{}, err
			}
			elems[i] = el
		}
		return Sequence(elems...), nil

	case reflect.Map:
		entries := make([]Entry, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key, err := reflectValueOf(iter.Key())
			if err != nil {
				return Value{}, err
			}
			val, err := reflectValueOf(iter.Value())
			if err != nil {
				return Value{}, err
			}
			entries = append(entries, Entry{Key: key, Val: val})
		}
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Key.String() < entries[j].Key.String()
		})
		return Map(entries...), nil

	case reflect.Struct:
		rt := rv.Type()
		fields := make([]Field, 0, rv.NumField())
		for i := 0; i < rv.NumField(); i++ {
			sf := rt.Field(i)
			if sf.PkgPath != "" { // unexported
				continue
			}
			name := sf.Name
			if tag := sf.Tag.Get("kvwire"); tag == "-" {
				continue
			} else if tag != "" {
				name = tag
			}
			fv, err := reflectValueOf(rv.Field(i))
			if err != nil {
				return Value{}, err
			}
			fields = append(fields, Field{Name: name, Value: fv})
		}
		return Struct(rt.Name(), fields...), nil
	}
	return Value{}, encodeErr(ErrMalformedScalar, "cannot convert Go %s to a wire value", rv.Kind())
}

// Into populates the Go value pointed to by out from a decoded Value.
// Supported targets mirror ValueOf: booleans, integer and float widths
// (with range checks when narrowing), strings, []byte, slices, maps, and
// structs addressed by field name via the `kvwire` tag.
func Into(v Value, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return encodeErr(ErrMalformedScalar, "Into requires a non-nil pointer, got %T", out)
	}
	return assign(v, rv.Elem())
}

func assign(v Value, target reflect.Value) error {
	if target.Kind() == reflect.Pointer {
		if v.Kind == KindNil {
			target.Set(reflect.Zero(target.Type()))
			return nil
		}
		p := reflect.New(target.Type().Elem())
		if err := assign(v, p.Elem()); err != nil {
			return err
		}
		target.Set(p)
		return nil
	}

	switch target.Kind() {
	case reflect.Bool:
		if v.Kind != KindBool {
			return conversionErr(v, target)
		}
		target.SetBool(v.Bool)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := signedPayload(v)
		if !ok {
			return conversionErr(v, target)
		}
		if target.OverflowInt(n) {
			return encodeErr(ErrValueOutOfRange, "value %d overflows %s", n, target.Type())
		}
		target.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := unsignedPayload(v)
		if !ok {
			return conversionErr(v, target)
		}
		if target.OverflowUint(n) {
			return encodeErr(ErrValueOutOfRange, "value %d overflows %s", n, target.Type())
		}
		target.SetUint(n)

	case reflect.Float32, reflect.Float64:
		if v.Kind != KindFloat32 && v.Kind != KindFloat64 {
			return conversionErr(v, target)
		}
		target.SetFloat(v.Float)

	case reflect.String:
		switch v.Kind {
		case KindSimpleString, KindString, KindIdentifier:
			target.SetString(v.Str)
		default:
			return conversionErr(v, target)
		}

	case reflect.Slice:
		if target.Type().Elem().Kind() == reflect.Uint8 && v.Kind == KindBinary {
			target.SetBytes(append([]byte(nil), v.Bin...))
			return nil
		}
		var elems []Value
		switch v.Kind {
		case KindSequence, KindTuple, KindNamedTuple, KindEnumTuple:
			elems = v.Elems
		default:
			return conversionErr(v, target)
		}
		out := reflect.MakeSlice(target.Type(), len(elems), len(elems))
		for i, el := range elems {
			if err := assign(el, out.Index(i)); err != nil {
				return err
			}
		}
		target.Set(out)

	case reflect.Map:
		if v.Kind != KindMap {
			return conversionErr(v, target)
		}
		out := reflect.MakeMapWithSize(target.Type(), len(v.Entries))
		for _, ent := range v.Entries {
			key := reflect.New(target.Type().Key()).Elem()
			if err := assign(ent.Key, key); err != nil {
				return err
			}
			val := reflect.New(target.Type().Elem()).Elem()
			if err := assign(ent.Val, val); err != nil {
				return err
			}
			out.SetMapIndex(key, val)
		}
		target.Set(out)

	case reflect.Struct:
		var fields []Field
		switch v.Kind {
		case KindStruct, KindEnumStruct:
			fields = v.Fields
		default:
			return conversionErr(v, target)
		}
		byName := make(map[string]Value, len(fields))
		for _, f := range fields {
			byName[f.Name] = f.Value
		}
		rt := target.Type()
		for i := 0; i < target.NumField(); i++ {
			sf := rt.Field(i)
			if sf.PkgPath != "" {
				continue
			}
			name := sf.Name
			if tag := sf.Tag.Get("kvwire"); tag == "-" {
				continue
			} else if tag != "" {
				name = tag
			}
			fv, present := byName[name]
			if !present {
				continue
			}
			if err := assign(fv, target.Field(i)); err != nil {
				return err
			}
		}

	default:
		return encodeErr(ErrMalformedScalar, "cannot populate Go %s from a wire value", target.Kind())
	}
	return nil
}

func conversionErr(v Value, target reflect.Value) error {
	return encodeErr(ErrMalformedScalar, "cannot assign %v to %s", v.Kind, target.Type())
}

func signedPayload(v Value) (int64, bool) {
	switch v.Kind {
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return v.Int, true
	case KindUint8, KindUint16, KindUint32, KindUint64:
		if v.Uint > math.MaxInt64 {
			return 0, false
		}
		return int64(v.Uint), true
	case KindInt128, KindUint128:
		if v.Big != nil && v.Big.IsInt64() {
			return v.Big.Int64(), true
		}
		return 0, false
	case KindChar:
		return int64(v.Char), true
	}
	return 0, false
}

func unsignedPayload(v Value) (uint64, bool) {
	switch v.Kind {
	case KindUint8, KindUint16, KindUint32, KindUint64:
		return v.Uint, true
	case KindInt8, KindInt16, KindInt32, KindInt64:
		if v.Int < 0 {
			return 0, false
		}
		return uint64(v.Int), true
	case KindInt128, KindUint128:
		if v.Big != nil && v.Big.IsUint64() {
			return v.Big.Uint64(), true
		}
		return 0, false
	}
	return 0, false
}
