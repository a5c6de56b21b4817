package brief

import (
	"fmt"
	"reflect"
)

var unmarshalerType = reflect.TypeOf((*Unmarshaler)(nil)).Elem()

// decodeReflect decodes the next value into rv, which must be settable.
// Types implementing Unmarshaler take over their own decoding.
//
// A null decodes into pointers, slices, maps, and interfaces as their nil
// form. Missing struct fields keep their current contents; unknown keys in
// the input are skipped. Both let encoders and decoders drift apart by a
// field without breaking each other.
func decodeReflect(d *Decoder, rv reflect.Value) error {
	if d.err != nil {
		return d.err
	}
	if rv.CanAddr() && reflect.PointerTo(rv.Type()).Implements(unmarshalerType) {
		return rv.Addr().Interface().(Unmarshaler).UnmarshalBrief(d)
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		isNull, err := d.DecodeNull()
		if err != nil {
			return err
		}
		if isNull {
			rv.SetZero()
			return nil
		}
	}

	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return decodeReflect(d, rv.Elem())
	case reflect.Bool:
		v, err := d.DecodeBool()
		if err != nil {
			return err
		}
		rv.SetBool(v)
	case reflect.Int:
		v, err := d.DecodeInt()
		if err != nil {
			return err
		}
		rv.SetInt(int64(v))
	case reflect.Int8:
		v, err := d.DecodeInt8()
		if err != nil {
			return err
		}
		rv.SetInt(int64(v))
	case reflect.Int16:
		v, err := d.DecodeInt16()
		if err != nil {
			return err
		}
		rv.SetInt(int64(v))
	case reflect.Int32:
		v, err := d.DecodeInt32()
		if err != nil {
			return err
		}
		rv.SetInt(int64(v))
	case reflect.Int64:
		v, err := d.DecodeInt64()
		if err != nil {
			return err
		}
		rv.SetInt(v)
	case reflect.Uint:
		v, err := d.DecodeUint()
		if err != nil {
			return err
		}
		rv.SetUint(uint64(v))
	case reflect.Uint8:
		v, err := d.DecodeUint8()
		if err != nil {
			return err
		}
		rv.SetUint(uint64(v))
	case reflect.Uint16:
		v, err := d.DecodeUint16()
		if err != nil {
			return err
		}
		rv.SetUint(uint64(v))
	case reflect.Uint32:
		v, err := d.DecodeUint32()
		if err != nil {
			return err
		}
		rv.SetUint(uint64(v))
	case reflect.Uint64, reflect.Uintptr:
		v, err := d.DecodeUint64()
		if err != nil {
			return err
		}
		rv.SetUint(v)
	case reflect.Float32:
		v, err := d.DecodeFloat32()
		if err != nil {
			return err
		}
		rv.SetFloat(float64(v))
	case reflect.Float64:
		v, err := d.DecodeFloat64()
		if err != nil {
			return err
		}
		rv.SetFloat(v)
	case reflect.String:
		v, err := d.DecodeString()
		if err != nil {
			return err
		}
		rv.SetString(v)
	case reflect.Slice:
		return decodeReflectSlice(d, rv)
	case reflect.Array:
		return decodeReflectArray(d, rv)
	case reflect.Map:
		return decodeReflectMap(d, rv)
	case reflect.Struct:
		return decodeReflectStruct(d, rv)
	case reflect.Interface:
		if rv.NumMethod() != 0 {
			return d.fail(fmt.Errorf("brief: cannot decode into non-empty interface %s", rv.Type()))
		}
		val, err := DecodeValue(d)
		if err != nil {
			return err
		}
		rv.Set(reflect.ValueOf(val))
	default:
		return d.fail(fmt.Errorf("brief: cannot decode into type %s", rv.Type()))
	}
	return nil
}

// decodeReflectSlice fills a slice from a sequence, or from the bytes of a
// blob or string when the element type can take them. Byte slices alias
// slice-backed input.
func decodeReflectSlice(d *Decoder, rv reflect.Value) error {
	elemKind := rv.Type().Elem().Kind()
	if elemKind == reflect.Uint8 {
		data, borrowed, err := d.DecodeBytes()
		if err != nil {
			return err
		}
		if !borrowed {
			data = append([]byte(nil), data...)
		}
		rv.SetBytes(data)
		return nil
	}

	t, err := d.PeekType()
	if err != nil {
		return err
	}
	switch t {
	case TypeString:
		if elemKind != reflect.Int32 {
			return d.fail(wrongType(t, TypeSeqStart))
		}
		s, err := d.DecodeString()
		if err != nil {
			return err
		}
		rv.Set(reflect.ValueOf([]rune(s)).Convert(rv.Type()))
		return nil
	case TypeBytes:
		if !isIntegerKind(elemKind) {
			return d.fail(wrongType(t, TypeSeqStart))
		}
		data, _, err := d.DecodeBytes()
		if err != nil {
			return err
		}
		out := reflect.MakeSlice(rv.Type(), len(data), len(data))
		for i, b := range data {
			setIntegerValue(out.Index(i), uint64(b))
		}
		rv.Set(out)
		return nil
	}

	if err := d.BeginSeq(); err != nil {
		return err
	}
	out := reflect.MakeSlice(rv.Type(), 0, 8)
	for {
		more, err := d.MoreElements()
		if err != nil {
			return err
		}
		if !more {
			break
		}
		elem := reflect.New(rv.Type().Elem()).Elem()
		if err := decodeReflect(d, elem); err != nil {
			return err
		}
		out = reflect.Append(out, elem)
	}
	if err := d.EndSeq(); err != nil {
		return err
	}
	rv.Set(out)
	return nil
}

func decodeReflectArray(d *Decoder, rv reflect.Value) error {
	t, err := d.PeekType()
	if err != nil {
		return err
	}
	if t == TypeBytes || t == TypeString {
		if !isIntegerKind(rv.Type().Elem().Kind()) {
			return d.fail(wrongType(t, TypeSeqStart))
		}
		data, _, err := d.DecodeBytes()
		if err != nil {
			return err
		}
		if len(data) != rv.Len() {
			return d.fail(fmt.Errorf("brief: cannot decode %d bytes into %s", len(data), rv.Type()))
		}
		for i, b := range data {
			setIntegerValue(rv.Index(i), uint64(b))
		}
		return nil
	}

	if err := d.BeginSeq(); err != nil {
		return err
	}
	for i := 0; i < rv.Len(); i++ {
		more, err := d.MoreElements()
		if err != nil {
			return err
		}
		if !more {
			return d.fail(fmt.Errorf("brief: sequence too short for %s", rv.Type()))
		}
		if err := decodeReflect(d, rv.Index(i)); err != nil {
			return err
		}
	}
	more, err := d.MoreElements()
	if err != nil {
		return err
	}
	if more {
		return d.fail(fmt.Errorf("brief: sequence too long for %s", rv.Type()))
	}
	return d.EndSeq()
}

func decodeReflectMap(d *Decoder, rv reflect.Value) error {
	if err := d.BeginMap(); err != nil {
		return err
	}
	if rv.IsNil() {
		rv.Set(reflect.MakeMap(rv.Type()))
	}
	keyType := rv.Type().Key()
	elemType := rv.Type().Elem()
	for {
		more, err := d.MoreKeys()
		if err != nil {
			return err
		}
		if !more {
			break
		}
		key := reflect.New(keyType).Elem()
		if err := decodeReflect(d, key); err != nil {
			return err
		}
		val := reflect.New(elemType).Elem()
		if err := decodeReflect(d, val); err != nil {
			return err
		}
		rv.SetMapIndex(key, val)
	}
	return d.EndMap()
}

func decodeReflectStruct(d *Decoder, rv reflect.Value) error {
	info := cachedStructInfo(rv.Type())
	if err := d.BeginMap(); err != nil {
		return err
	}
	for {
		more, err := d.MoreKeys()
		if err != nil {
			return err
		}
		if !more {
			break
		}
		t, err := d.PeekType()
		if err != nil {
			return err
		}
		idx := -1
		switch t {
		case TypeUnsignedInt:
			u, err := d.DecodeUint64()
			if err != nil {
				return err
			}
			if i, ok := info.byIndex[u]; ok {
				idx = i
			}
		case TypeString:
			data, _, err := d.DecodeStringBytes()
			if err != nil {
				return err
			}
			if i, ok := info.byName[string(data)]; ok {
				idx = i
			}
		default:
			return d.fail(wrongType(t, TypeUnsignedInt, TypeString))
		}
		if idx < 0 {
			if err := d.Skip(); err != nil {
				return err
			}
			continue
		}
		if err := decodeReflect(d, rv.Field(info.fields[idx].fieldIdx)); err != nil {
			return err
		}
	}
	return d.EndMap()
}

func isIntegerKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func setIntegerValue(rv reflect.Value, u uint64) {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		rv.SetInt(int64(u))
	default:
		rv.SetUint(u)
	}
}

// FromValue decodes a dynamic tree into a Go value, without a byte round
// trip. The target follows the same rules as Unmarshal.
func FromValue(v Value, target any) error {
	if u, ok := target.(Unmarshaler); ok {
		return valueIntoUnmarshaler(v, u)
	}
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrNilTarget
	}
	return fromValueReflect(v, rv.Elem())
}

// valueIntoUnmarshaler replays the tree through the wire form, since only
// the target knows its own shape.
func valueIntoUnmarshaler(v Value, u Unmarshaler) error {
	sink := NewBufferSink(nil)
	enc := NewEncoder(sink)
	if err := v.MarshalBrief(enc); err != nil {
		return err
	}
	return u.UnmarshalBrief(NewDecoder(NewSliceSource(sink.Bytes())))
}

func fromValueReflect(v Value, rv reflect.Value) error {
	if rv.CanAddr() && reflect.PointerTo(rv.Type()).Implements(unmarshalerType) {
		return valueIntoUnmarshaler(v, rv.Addr().Interface().(Unmarshaler))
	}

	if v.IsNull() {
		switch rv.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
			rv.SetZero()
			return nil
		}
		return valueConvError(v, rv.Type())
	}

	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return fromValueReflect(v, rv.Elem())
	case reflect.Bool:
		b, ok := v.AsBool()
		if !ok {
			return valueConvError(v, rv.Type())
		}
		rv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, ok := v.AsInt()
		if !ok {
			return valueConvError(v, rv.Type())
		}
		if rv.OverflowInt(i) {
			return ErrIntegerRange
		}
		rv.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u, ok := v.AsUint()
		if !ok {
			if b, bok := v.AsBool(); bok {
				if b {
					u = 1
				}
			} else {
				return valueConvError(v, rv.Type())
			}
		}
		if rv.OverflowUint(u) {
			return ErrIntegerRange
		}
		rv.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, ok := v.AsFloat()
		if !ok {
			return valueConvError(v, rv.Type())
		}
		rv.SetFloat(f)
	case reflect.String:
		s, ok := v.AsString()
		if !ok {
			return valueConvError(v, rv.Type())
		}
		rv.SetString(s)
	case reflect.Slice:
		return fromValueSlice(v, rv)
	case reflect.Array:
		return fromValueArray(v, rv)
	case reflect.Map:
		entries, ok := v.AsMap()
		if !ok {
			return valueConvError(v, rv.Type())
		}
		if rv.IsNil() {
			rv.Set(reflect.MakeMapWithSize(rv.Type(), len(entries)))
		}
		for _, e := range entries {
			key := reflect.New(rv.Type().Key()).Elem()
			if err := fromValueReflect(e.Key, key); err != nil {
				return err
			}
			val := reflect.New(rv.Type().Elem()).Elem()
			if err := fromValueReflect(e.Value, val); err != nil {
				return err
			}
			rv.SetMapIndex(key, val)
		}
	case reflect.Struct:
		entries, ok := v.AsMap()
		if !ok {
			return valueConvError(v, rv.Type())
		}
		info := cachedStructInfo(rv.Type())
		for _, e := range entries {
			idx := -1
			if s, sok := e.Key.AsString(); sok {
				if i, found := info.byName[s]; found {
					idx = i
				}
			} else if u, uok := e.Key.AsUint(); uok {
				if i, found := info.byIndex[u]; found {
					idx = i
				}
			} else {
				return valueConvError(e.Key, rv.Type())
			}
			if idx < 0 {
				continue
			}
			if err := fromValueReflect(e.Value, rv.Field(info.fields[idx].fieldIdx)); err != nil {
				return err
			}
		}
	case reflect.Interface:
		if rv.NumMethod() != 0 {
			return fmt.Errorf("brief: cannot decode into non-empty interface %s", rv.Type())
		}
		rv.Set(reflect.ValueOf(v))
	default:
		return fmt.Errorf("brief: cannot decode into type %s", rv.Type())
	}
	return nil
}

func fromValueSlice(v Value, rv reflect.Value) error {
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		if data, ok := v.AsBytes(); ok {
			rv.SetBytes(append([]byte(nil), data...))
			return nil
		}
		if data, ok := v.AsStringBytes(); ok {
			rv.SetBytes(append([]byte(nil), data...))
			return nil
		}
		return valueConvError(v, rv.Type())
	}
	if s, ok := v.AsString(); ok && rv.Type().Elem().Kind() == reflect.Int32 {
		rv.Set(reflect.ValueOf([]rune(s)).Convert(rv.Type()))
		return nil
	}
	elems, ok := v.AsArray()
	if !ok {
		return valueConvError(v, rv.Type())
	}
	out := reflect.MakeSlice(rv.Type(), len(elems), len(elems))
	for i, e := range elems {
		if err := fromValueReflect(e, out.Index(i)); err != nil {
			return err
		}
	}
	rv.Set(out)
	return nil
}

func fromValueArray(v Value, rv reflect.Value) error {
	if data, ok := v.AsBytes(); ok && isIntegerKind(rv.Type().Elem().Kind()) {
		if len(data) != rv.Len() {
			return fmt.Errorf("brief: cannot decode %d bytes into %s", len(data), rv.Type())
		}
		for i, b := range data {
			setIntegerValue(rv.Index(i), uint64(b))
		}
		return nil
	}
	elems, ok := v.AsArray()
	if !ok {
		return valueConvError(v, rv.Type())
	}
	if len(elems) != rv.Len() {
		return fmt.Errorf("brief: cannot decode %d elements into %s", len(elems), rv.Type())
	}
	for i, e := range elems {
		if err := fromValueReflect(e, rv.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

func valueConvError(v Value, t reflect.Type) error {
	return fmt.Errorf("brief: cannot decode %s value into %s", v.Kind(), t)
}
