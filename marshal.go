package brief

import (
	"fmt"
	"reflect"
	"sort"
)

var marshalerType = reflect.TypeOf((*Marshaler)(nil)).Elem()

// encodeReflect walks an arbitrary Go value and emits it. Types
// implementing Marshaler take over their own encoding.
//
// Nil pointers and nil interfaces encode as null. Nil slices and maps
// encode as their empty form, so nil-ness does not survive a round trip
// but the shape does.
func encodeReflect(e *Encoder, rv reflect.Value) error {
	if e.err != nil {
		return e.err
	}
	if !rv.IsValid() {
		e.EncodeNull()
		return e.Err()
	}
	if rv.Type().Implements(marshalerType) {
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			e.EncodeNull()
			return e.Err()
		}
		return rv.Interface().(Marshaler).MarshalBrief(e)
	}
	if rv.CanAddr() && reflect.PointerTo(rv.Type()).Implements(marshalerType) {
		return rv.Addr().Interface().(Marshaler).MarshalBrief(e)
	}

	switch rv.Kind() {
	case reflect.Bool:
		e.EncodeBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		e.EncodeInt(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		e.EncodeUint(rv.Uint())
	case reflect.Float32:
		e.EncodeFloat32(float32(rv.Float()))
	case reflect.Float64:
		e.EncodeFloat64(rv.Float())
	case reflect.String:
		e.EncodeString(rv.String())
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			e.EncodeBytes(rv.Bytes())
			break
		}
		fallthrough
	case reflect.Array:
		e.BeginSeq()
		for i := 0; i < rv.Len(); i++ {
			if err := encodeReflect(e, rv.Index(i)); err != nil {
				return err
			}
		}
		e.EndSeq()
	case reflect.Map:
		return encodeReflectMap(e, rv)
	case reflect.Struct:
		return encodeReflectStruct(e, rv)
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			e.EncodeNull()
			break
		}
		return encodeReflect(e, rv.Elem())
	default:
		return e.fail(fmt.Errorf("brief: cannot encode type %s", rv.Type()))
	}
	return e.Err()
}

// encodeReflectMap emits a Go map with its keys sorted, so identical maps
// always produce identical bytes.
func encodeReflectMap(e *Encoder, rv reflect.Value) error {
	keys := rv.MapKeys()
	switch rv.Type().Key().Kind() {
	case reflect.String:
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		sort.Slice(keys, func(i, j int) bool { return keys[i].Int() < keys[j].Int() })
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		sort.Slice(keys, func(i, j int) bool { return keys[i].Uint() < keys[j].Uint() })
	default:
		return e.fail(fmt.Errorf("brief: cannot encode map key type %s", rv.Type().Key()))
	}
	e.BeginMap()
	for _, k := range keys {
		if err := encodeReflect(e, k); err != nil {
			return err
		}
		if err := encodeReflect(e, rv.MapIndex(k)); err != nil {
			return err
		}
	}
	e.EndMap()
	return e.Err()
}

func encodeReflectStruct(e *Encoder, rv reflect.Value) error {
	info := cachedStructInfo(rv.Type())
	e.BeginMap()
	for _, f := range info.fields {
		fv := rv.Field(f.fieldIdx)
		if f.omitEmpty && fv.IsZero() {
			continue
		}
		e.EncodeFieldKey(f.name, f.wireIdx)
		if err := encodeReflect(e, fv); err != nil {
			return err
		}
	}
	e.EndMap()
	return e.Err()
}

// ToValue builds a dynamic tree from a Go value directly, without a byte
// round trip. Struct field keys follow the default configuration.
func ToValue(v any) (Value, error) {
	return ToValueWithConfig(v, DefaultConfig())
}

// ToValueWithConfig builds a dynamic tree from a Go value. Types with a
// custom MarshalBrief are encoded and re-read, since only they know their
// wire shape.
func ToValueWithConfig(v any, cfg Config) (Value, error) {
	if val, ok := v.(Value); ok {
		return val, nil
	}
	return toValueReflect(reflect.ValueOf(v), cfg)
}

func toValueReflect(rv reflect.Value, cfg Config) (Value, error) {
	if !rv.IsValid() {
		return Value{}, nil
	}
	if rv.Type().Implements(marshalerType) {
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return Value{}, nil
		}
		return marshalerToValue(rv.Interface().(Marshaler), cfg)
	}
	if rv.CanAddr() && reflect.PointerTo(rv.Type()).Implements(marshalerType) {
		return marshalerToValue(rv.Addr().Interface().(Marshaler), cfg)
	}

	switch rv.Kind() {
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Uint(rv.Uint()), nil
	case reflect.Float32:
		return Float32(float32(rv.Float())), nil
	case reflect.Float64:
		return Float64(rv.Float()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return Bytes(rv.Bytes()), nil
		}
		fallthrough
	case reflect.Array:
		elems := make([]Value, rv.Len())
		for i := range elems {
			elem, err := toValueReflect(rv.Index(i), cfg)
			if err != nil {
				return Value{}, err
			}
			elems[i] = elem
		}
		return Array(elems...), nil
	case reflect.Map:
		keys := rv.MapKeys()
		switch rv.Type().Key().Kind() {
		case reflect.String:
			sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			sort.Slice(keys, func(i, j int) bool { return keys[i].Int() < keys[j].Int() })
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			sort.Slice(keys, func(i, j int) bool { return keys[i].Uint() < keys[j].Uint() })
		default:
			return Value{}, fmt.Errorf("brief: cannot encode map key type %s", rv.Type().Key())
		}
		entries := make([]MapEntry, 0, len(keys))
		for _, k := range keys {
			key, err := toValueReflect(k, cfg)
			if err != nil {
				return Value{}, err
			}
			val, err := toValueReflect(rv.MapIndex(k), cfg)
			if err != nil {
				return Value{}, err
			}
			entries = append(entries, MapEntry{Key: key, Value: val})
		}
		return Map(entries...), nil
	case reflect.Struct:
		info := cachedStructInfo(rv.Type())
		entries := make([]MapEntry, 0, len(info.fields))
		for _, f := range info.fields {
			fv := rv.Field(f.fieldIdx)
			if f.omitEmpty && fv.IsZero() {
				continue
			}
			val, err := toValueReflect(fv, cfg)
			if err != nil {
				return Value{}, err
			}
			key := String(f.name)
			if cfg.UseIndices {
				key = Uint(uint64(f.wireIdx))
			}
			entries = append(entries, MapEntry{Key: key, Value: val})
		}
		return Map(entries...), nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Value{}, nil
		}
		return toValueReflect(rv.Elem(), cfg)
	default:
		return Value{}, fmt.Errorf("brief: cannot encode type %s", rv.Type())
	}
}

func marshalerToValue(m Marshaler, cfg Config) (Value, error) {
	sink := NewBufferSink(nil)
	enc := NewEncoderWithConfig(sink, Config{UseIndices: cfg.UseIndices})
	if err := m.MarshalBrief(enc); err != nil {
		return Value{}, err
	}
	return DecodeValue(NewDecoder(NewSliceSource(sink.Bytes())))
}
