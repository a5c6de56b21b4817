package brief

import "bytes"

// Kind enumerates the shapes a Value can hold. Unsigned and signed
// integers and the two float widths are kept apart so a decoded tree
// re-encodes to exactly the bytes it came from.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindUint
	KindInt
	KindFloat32
	KindFloat64
	KindBytes
	KindString
	KindArray
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindUint:
		return "uint"
	case KindInt:
		return "int"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindBytes:
		return "bytes"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	default:
		return "invalid"
	}
}

// Value is a dynamic tree mirroring the wire data model: it can hold any
// value the format can, without a Go type to decode into. Values decoded
// from slice-backed input keep views of that input; Owned lifts a tree out
// of borrowed storage. Map entries preserve their wire order.
type Value struct {
	kind    Kind
	b       bool
	u       uint64
	i       int64
	f       float64
	raw     []byte
	arr     []Value
	entries []MapEntry
}

// MapEntry is one key-value pair of a map Value.
type MapEntry struct {
	Key   Value
	Value Value
}

// Null returns the null Value. The zero Value is also null.
func Null() Value { return Value{} }

// Bool returns a boolean Value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Uint returns an unsigned integer Value.
func Uint(v uint64) Value { return Value{kind: KindUint, u: v} }

// Int returns a signed integer Value.
func Int(v int64) Value { return Value{kind: KindInt, i: v} }

// Float32 returns a single precision float Value.
func Float32(v float32) Value { return Value{kind: KindFloat32, f: float64(v)} }

// Float64 returns a double precision float Value.
func Float64(v float64) Value { return Value{kind: KindFloat64, f: v} }

// Bytes returns a byte blob Value holding p without copying it.
func Bytes(p []byte) Value { return Value{kind: KindBytes, raw: p} }

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, raw: []byte(s)} }

// Array returns an array Value holding elems without copying the slice.
func Array(elems ...Value) Value { return Value{kind: KindArray, arr: elems} }

// Map returns a map Value holding entries in the given order.
func Map(entries ...MapEntry) Value { return Value{kind: KindMap, entries: entries} }

// Kind returns the shape of the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean content, if any.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsUint returns the unsigned integer content, if any.
func (v Value) AsUint() (uint64, bool) {
	return v.u, v.kind == KindUint
}

// AsInt returns the signed integer content. An unsigned value converts
// when it fits.
func (v Value) AsInt() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindUint:
		if v.u <= 1<<63-1 {
			return int64(v.u), true
		}
	}
	return 0, false
}

// AsFloat returns the float content of either width, if any.
func (v Value) AsFloat() (float64, bool) {
	return v.f, v.kind == KindFloat32 || v.kind == KindFloat64
}

// AsString returns the string content, if any. The returned string is a
// copy and safe to retain.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return string(v.raw), true
}

// AsStringBytes returns the raw UTF-8 content of a string value without
// copying. The slice may alias decoder input.
func (v Value) AsStringBytes() ([]byte, bool) {
	return v.raw, v.kind == KindString
}

// AsBytes returns the blob content, if any. The slice may alias decoder
// input.
func (v Value) AsBytes() ([]byte, bool) {
	return v.raw, v.kind == KindBytes
}

// AsArray returns the elements of an array value.
func (v Value) AsArray() ([]Value, bool) {
	return v.arr, v.kind == KindArray
}

// AsMap returns the entries of a map value in wire order.
func (v Value) AsMap() ([]MapEntry, bool) {
	return v.entries, v.kind == KindMap
}

// Get returns the value of the first map entry whose key is the string
// key, or the element at an integer key of an array or integer-keyed map.
func (v Value) Get(key Value) (Value, bool) {
	switch v.kind {
	case KindMap:
		for _, e := range v.entries {
			if e.Key.Equal(key) {
				return e.Value, true
			}
		}
	case KindArray:
		if i, ok := key.AsUint(); ok && i < uint64(len(v.arr)) {
			return v.arr[i], true
		}
	}
	return Value{}, false
}

// Field returns the value stored under a struct field key, matching either
// the name or the index form of the key.
func (v Value) Field(name string, index uint64) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	for _, e := range v.entries {
		if s, ok := e.Key.AsString(); ok && s == name {
			return e.Value, true
		}
		if u, ok := e.Key.AsUint(); ok && u == index {
			return e.Value, true
		}
	}
	return Value{}, false
}

// Owned returns a deep copy with no views into decoder input. A plain
// assignment of a Value shares its backing storage; Owned is the way to
// keep a tree alive past the input it was decoded from.
func (v Value) Owned() Value {
	out := v
	if v.raw != nil {
		out.raw = append([]byte(nil), v.raw...)
	}
	if v.arr != nil {
		out.arr = make([]Value, len(v.arr))
		for i, e := range v.arr {
			out.arr[i] = e.Owned()
		}
	}
	if v.entries != nil {
		out.entries = make([]MapEntry, len(v.entries))
		for i, e := range v.entries {
			out.entries[i] = MapEntry{Key: e.Key.Owned(), Value: e.Value.Owned()}
		}
	}
	return out
}

// Equal reports structural equality. Kinds must match except for integers,
// which compare by numeric value across the signed and unsigned kinds.
// Map entries compare in order.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		vi, vok := v.AsInt()
		oi, ook := o.AsInt()
		return vok && ook && (v.kind == KindUint || v.kind == KindInt) &&
			(o.kind == KindUint || o.kind == KindInt) && vi == oi
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindUint:
		return v.u == o.u
	case KindInt:
		return v.i == o.i
	case KindFloat32, KindFloat64:
		return v.f == o.f
	case KindBytes, KindString:
		return bytes.Equal(v.raw, o.raw)
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.entries) != len(o.entries) {
			return false
		}
		for i := range v.entries {
			if !v.entries[i].Key.Equal(o.entries[i].Key) ||
				!v.entries[i].Value.Equal(o.entries[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}
