package brief

import (
	"encoding/binary"
	"math"
	"unicode/utf8"
)

// Encoder emits the wire form of values onto a Sink. Methods latch the
// first error and turn every later call into a no-op, so a composite can be
// written straight through and checked once at the end with Err.
//
// Composites are explicit: the caller brackets sequences with BeginSeq and
// EndSeq and maps with BeginMap and EndMap, and is responsible for emitting
// alternating keys and values between the map brackets.
type Encoder struct {
	sink       Sink
	useIndices bool
	err        error
}

// NewEncoder returns an encoder writing to sink with the default
// configuration.
func NewEncoder(sink Sink) *Encoder {
	return NewEncoderWithConfig(sink, DefaultConfig())
}

// NewEncoderWithConfig returns an encoder writing to sink. A non-zero
// Config.MaxSize wraps sink in a LimitedSink.
func NewEncoderWithConfig(sink Sink, cfg Config) *Encoder {
	if cfg.MaxSize > 0 {
		sink = NewLimitedSink(sink, cfg.MaxSize)
	}
	return &Encoder{sink: sink, useIndices: cfg.UseIndices}
}

// Err returns the first error encountered, if any.
func (e *Encoder) Err() error {
	return e.err
}

func (e *Encoder) fail(err error) error {
	if e.err == nil {
		e.err = err
	}
	return e.err
}

func (e *Encoder) writeTag(t Type) {
	if e.err != nil {
		return
	}
	if err := e.sink.WriteByte(byte(t)); err != nil {
		e.fail(err)
	}
}

// EncodeNull emits an absent value.
func (e *Encoder) EncodeNull() {
	e.writeTag(TypeNull)
}

// EncodeBool emits a boolean.
func (e *Encoder) EncodeBool(v bool) {
	if v {
		e.writeTag(TypeBooleanTrue)
	} else {
		e.writeTag(TypeBooleanFalse)
	}
}

// EncodeUint emits an unsigned integer.
func (e *Encoder) EncodeUint(v uint64) {
	e.writeTag(TypeUnsignedInt)
	if e.err != nil {
		return
	}
	if err := encodeUvarint(e.sink, v); err != nil {
		e.fail(err)
	}
}

// EncodeInt emits a signed integer.
func (e *Encoder) EncodeInt(v int64) {
	e.writeTag(TypeSignedInt)
	if e.err != nil {
		return
	}
	if err := encodeVarint(e.sink, v); err != nil {
		e.fail(err)
	}
}

// EncodeFloat32 emits a single precision float.
func (e *Encoder) EncodeFloat32(v float32) {
	e.writeTag(TypeFloat32)
	if e.err != nil {
		return
	}
	var p [4]byte
	binary.LittleEndian.PutUint32(p[:], math.Float32bits(v))
	if err := e.sink.WriteAll(p[:]); err != nil {
		e.fail(err)
	}
}

// EncodeFloat64 emits a double precision float.
func (e *Encoder) EncodeFloat64(v float64) {
	e.writeTag(TypeFloat64)
	if e.err != nil {
		return
	}
	var p [8]byte
	binary.LittleEndian.PutUint64(p[:], math.Float64bits(v))
	if err := e.sink.WriteAll(p[:]); err != nil {
		e.fail(err)
	}
}

// EncodeString emits UTF-8 text. Invalid UTF-8 fails with ErrInvalidUTF8.
func (e *Encoder) EncodeString(s string) {
	if e.err != nil {
		return
	}
	if !utf8.ValidString(s) {
		e.fail(ErrInvalidUTF8)
		return
	}
	e.writeTag(TypeString)
	e.writeLenPrefixedString(s)
}

// EncodeBytes emits a raw byte blob.
func (e *Encoder) EncodeBytes(p []byte) {
	e.writeTag(TypeBytes)
	if e.err != nil {
		return
	}
	if err := encodeUvarint(e.sink, uint64(len(p))); err != nil {
		e.fail(err)
		return
	}
	if err := e.sink.WriteAll(p); err != nil {
		e.fail(err)
	}
}

// EncodeRune emits a single character as a string of one to four UTF-8
// bytes.
func (e *Encoder) EncodeRune(r rune) {
	if e.err != nil {
		return
	}
	if !utf8.ValidRune(r) {
		e.fail(ErrInvalidUTF8)
		return
	}
	var p [utf8.UTFMax]byte
	n := utf8.EncodeRune(p[:], r)
	e.writeTag(TypeString)
	if e.err != nil {
		return
	}
	if err := encodeUvarint(e.sink, uint64(n)); err != nil {
		e.fail(err)
		return
	}
	if err := e.sink.WriteAll(p[:n]); err != nil {
		e.fail(err)
	}
}

// BeginSeq opens a sequence. Close it with EndSeq.
func (e *Encoder) BeginSeq() {
	e.writeTag(TypeSeqStart)
}

// EndSeq closes the innermost open sequence.
func (e *Encoder) EndSeq() {
	e.writeTag(TypeSeqEnd)
}

// BeginMap opens a map. Close it with EndMap.
func (e *Encoder) BeginMap() {
	e.writeTag(TypeMapStart)
}

// EndMap closes the innermost open map.
func (e *Encoder) EndMap() {
	e.writeTag(TypeMapEnd)
}

// EncodeFieldKey emits a struct field key, as the name or the declaration
// index depending on the configuration.
func (e *Encoder) EncodeFieldKey(name string, index uint32) {
	if e.useIndices {
		e.EncodeUint(uint64(index))
	} else {
		e.EncodeString(name)
	}
}

// EncodeUnitVariant emits a payload-free variant as its bare selector.
func (e *Encoder) EncodeUnitVariant(name string, index uint32) {
	e.EncodeFieldKey(name, index)
}

// BeginVariant opens a variant that carries a payload: a one-entry map from
// the selector to the payload. The caller emits the payload and closes with
// EndVariant.
func (e *Encoder) BeginVariant(name string, index uint32) {
	e.BeginMap()
	e.EncodeFieldKey(name, index)
}

// EndVariant closes a variant opened with BeginVariant.
func (e *Encoder) EndVariant() {
	e.EndMap()
}

func (e *Encoder) writeLenPrefixedString(s string) {
	if e.err != nil {
		return
	}
	if err := encodeUvarint(e.sink, uint64(len(s))); err != nil {
		e.fail(err)
		return
	}
	if err := e.sink.WriteAll([]byte(s)); err != nil {
		e.fail(err)
	}
}
