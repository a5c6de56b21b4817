// Package brief implements a compact, self-describing binary encoding.
// Every value carries a one-byte type designator, integers use
// variable-length encoding, and composites are bracketed by explicit start
// and end markers, so any payload can be decoded, inspected, or skipped
// without knowing its schema.
//
// Go values marshal through reflection with `brief` struct tags, or take
// over their own wire shape by implementing Marshaler and Unmarshaler.
// Payloads decoded from byte slices borrow string and blob contents from
// the input instead of copying them.
package brief

import (
	"io"
	"reflect"
)

// Marshaler is implemented by types that emit their own wire shape.
type Marshaler interface {
	MarshalBrief(e *Encoder) error
}

// Unmarshaler is implemented by types that decode their own wire shape.
type Unmarshaler interface {
	UnmarshalBrief(d *Decoder) error
}

// Marshal encodes v with the default configuration and returns the
// encoded bytes.
func Marshal(v any) ([]byte, error) {
	return MarshalWithConfig(v, DefaultConfig())
}

// MarshalWithConfig encodes v and returns the encoded bytes.
func MarshalWithConfig(v any, cfg Config) ([]byte, error) {
	sink := NewBufferSink(nil)
	if err := encodeTo(sink, v, cfg); err != nil {
		return nil, err
	}
	return sink.Bytes(), nil
}

// MarshalTo encodes v into buf without allocating and returns the written
// prefix. A value that does not fit fails with ErrBufferTooSmall.
func MarshalTo(buf []byte, v any) ([]byte, error) {
	return MarshalToWithConfig(buf, v, DefaultConfig())
}

// MarshalToWithConfig encodes v into buf and returns the written prefix.
func MarshalToWithConfig(buf []byte, v any, cfg Config) ([]byte, error) {
	sink := NewSliceSink(buf)
	if err := encodeTo(sink, v, cfg); err != nil {
		return nil, err
	}
	return sink.Bytes(), nil
}

// MarshalBounded encodes v into a fresh buffer that grows at most to
// capacity bytes.
func MarshalBounded(v any, capacity int) ([]byte, error) {
	return MarshalBoundedWithConfig(v, capacity, DefaultConfig())
}

// MarshalBoundedWithConfig encodes v into a fresh buffer that grows at
// most to capacity bytes.
func MarshalBoundedWithConfig(v any, capacity int, cfg Config) ([]byte, error) {
	sink := NewBoundedSink(capacity)
	if err := encodeTo(sink, v, cfg); err != nil {
		return nil, err
	}
	return sink.Bytes(), nil
}

// MarshalWriter encodes v onto w.
func MarshalWriter(w io.Writer, v any) error {
	return MarshalWriterWithConfig(w, v, DefaultConfig())
}

// MarshalWriterWithConfig encodes v onto w.
func MarshalWriterWithConfig(w io.Writer, v any, cfg Config) error {
	return encodeTo(NewWriterSink(w), v, cfg)
}

func encodeTo(sink Sink, v any, cfg Config) error {
	enc := NewEncoderWithConfig(sink, cfg)
	if err := encodeAny(enc, v); err != nil {
		return err
	}
	return enc.Err()
}

func encodeAny(e *Encoder, v any) error {
	if v == nil {
		e.EncodeNull()
		return e.Err()
	}
	if m, ok := v.(Marshaler); ok {
		return m.MarshalBrief(e)
	}
	return encodeReflect(e, reflect.ValueOf(v))
}

// Unmarshal decodes data into v with the default configuration. v must be
// a non-nil pointer, or a type implementing Unmarshaler. String and byte
// contents in the result may alias data.
func Unmarshal(data []byte, v any) error {
	return UnmarshalWithConfig(data, v, DefaultConfig())
}

// UnmarshalWithConfig decodes data into v.
func UnmarshalWithConfig(data []byte, v any, cfg Config) error {
	dec := NewDecoderWithConfig(NewSliceSource(data), cfg)
	if err := decodeAny(dec, v); err != nil {
		return err
	}
	return checkExcess(dec, cfg)
}

// UnmarshalReader decodes a value from r into v with the default
// configuration. Contents are copied, never borrowed.
func UnmarshalReader(r io.Reader, v any) error {
	return UnmarshalReaderWithConfig(r, v, DefaultConfig())
}

// UnmarshalReaderWithConfig decodes a value from r into v.
func UnmarshalReaderWithConfig(r io.Reader, v any, cfg Config) error {
	scratch := getScratch()
	defer putScratch(scratch)
	dec := NewDecoderWithConfig(NewReaderSource(r), cfg).WithScratch(scratch)
	if err := decodeAny(dec, v); err != nil {
		return err
	}
	return checkExcess(dec, cfg)
}

func decodeAny(d *Decoder, v any) error {
	if u, ok := v.(Unmarshaler); ok {
		return u.UnmarshalBrief(d)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrNilTarget
	}
	return decodeReflect(d, rv.Elem())
}

func checkExcess(d *Decoder, cfg Config) error {
	if cfg.ErrorOnExcessData && d.More() {
		return ErrExcessData
	}
	return nil
}
