package brief

// MarshalBrief replays the tree onto an encoder. A tree decoded from wire
// data re-encodes to the same bytes, field keys included, with one
// exception: half precision floats widen to single precision on decode and
// re-encode as Float32.
func (v Value) MarshalBrief(e *Encoder) error {
	switch v.kind {
	case KindNull:
		e.EncodeNull()
	case KindBool:
		e.EncodeBool(v.b)
	case KindUint:
		e.EncodeUint(v.u)
	case KindInt:
		e.EncodeInt(v.i)
	case KindFloat32:
		e.EncodeFloat32(float32(v.f))
	case KindFloat64:
		e.EncodeFloat64(v.f)
	case KindBytes:
		e.EncodeBytes(v.raw)
	case KindString:
		e.EncodeString(string(v.raw))
	case KindArray:
		e.BeginSeq()
		for _, elem := range v.arr {
			if err := elem.MarshalBrief(e); err != nil {
				return err
			}
		}
		e.EndSeq()
	case KindMap:
		e.BeginMap()
		for _, entry := range v.entries {
			if err := entry.Key.MarshalBrief(e); err != nil {
				return err
			}
			if err := entry.Value.MarshalBrief(e); err != nil {
				return err
			}
		}
		e.EndMap()
	}
	return e.Err()
}

// UnmarshalBrief decodes the next value of any shape into the tree.
func (v *Value) UnmarshalBrief(d *Decoder) error {
	decoded, err := DecodeValue(d)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

// DecodeValue decodes the next value off d into a dynamic tree, whatever
// its shape. Blob and string contents borrow from slice-backed sources and
// are copied otherwise. A half precision float widens exactly into a
// single precision value; it is the one wire form that does not re-encode
// to its original bytes.
func DecodeValue(d *Decoder) (Value, error) {
	t, err := d.PeekType()
	if err != nil {
		return Value{}, err
	}
	switch t {
	case TypeNull:
		_, err := d.DecodeNull()
		return Value{}, err
	case TypeBooleanFalse, TypeBooleanTrue:
		b, err := d.DecodeBool()
		return Bool(b), err
	case TypeUnsignedInt:
		u, err := d.DecodeUint64()
		return Uint(u), err
	case TypeSignedInt:
		i, err := d.DecodeInt64()
		return Int(i), err
	case TypeFloat16, TypeFloat32:
		f, err := d.DecodeFloat64()
		return Float32(float32(f)), err
	case TypeFloat64:
		f, err := d.DecodeFloat64()
		return Float64(f), err
	case TypeBytes:
		data, borrowed, err := d.DecodeBytes()
		if err != nil {
			return Value{}, err
		}
		if !borrowed {
			data = append([]byte(nil), data...)
		}
		return Bytes(data), nil
	case TypeString:
		data, borrowed, err := d.DecodeStringBytes()
		if err != nil {
			return Value{}, err
		}
		if !borrowed {
			data = append([]byte(nil), data...)
		}
		return Value{kind: KindString, raw: data}, nil
	case TypeSeqStart:
		if err := d.BeginSeq(); err != nil {
			return Value{}, err
		}
		var elems []Value
		for {
			more, err := d.MoreElements()
			if err != nil {
				return Value{}, err
			}
			if !more {
				break
			}
			elem, err := DecodeValue(d)
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, elem)
		}
		if err := d.EndSeq(); err != nil {
			return Value{}, err
		}
		return Array(elems...), nil
	case TypeMapStart:
		if err := d.BeginMap(); err != nil {
			return Value{}, err
		}
		var entries []MapEntry
		for {
			more, err := d.MoreKeys()
			if err != nil {
				return Value{}, err
			}
			if !more {
				break
			}
			key, err := DecodeValue(d)
			if err != nil {
				return Value{}, err
			}
			val, err := DecodeValue(d)
			if err != nil {
				return Value{}, err
			}
			entries = append(entries, MapEntry{Key: key, Value: val})
		}
		if err := d.EndMap(); err != nil {
			return Value{}, err
		}
		return Map(entries...), nil
	default:
		return Value{}, wrongType(t,
			TypeNull, TypeBooleanFalse, TypeBooleanTrue,
			TypeUnsignedInt, TypeSignedInt,
			TypeFloat16, TypeFloat32, TypeFloat64,
			TypeBytes, TypeString, TypeSeqStart, TypeMapStart)
	}
}
