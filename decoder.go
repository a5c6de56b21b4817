package brief

import (
	"encoding/binary"
	"math"
	"math/bits"
	"unicode/utf8"

	"github.com/x448/float16"
)

// Decoder pulls values off a Source. It is pull-driven: the caller peeks at
// the next designator with PeekType when the shape is open, or asks for the
// shape it expects and gets a WrongTypeError when the input disagrees.
// The first error latches and every later call returns it.
//
// Byte and string payloads borrow from slice-backed sources. Other sources
// land payloads in the decoder's scratch, where they stay valid only until
// the next read.
type Decoder struct {
	src     Source
	scratch *Scratch
	err     error
}

// NewDecoder returns a decoder reading from src with the default
// configuration and no scratch.
func NewDecoder(src Source) *Decoder {
	return &Decoder{src: src}
}

// NewDecoderWithConfig returns a decoder reading from src. A non-zero
// Config.MaxSize wraps src in a LimitedSource.
func NewDecoderWithConfig(src Source, cfg Config) *Decoder {
	if cfg.MaxSize > 0 {
		src = NewLimitedSource(src, cfg.MaxSize)
	}
	return &Decoder{src: src}
}

// WithScratch attaches a landing buffer for payloads from non-borrowing
// sources and returns the decoder.
func (d *Decoder) WithScratch(s *Scratch) *Decoder {
	d.scratch = s
	return d
}

// Err returns the first error encountered, if any.
func (d *Decoder) Err() error {
	return d.err
}

func (d *Decoder) fail(err error) error {
	if d.err == nil {
		d.err = err
	}
	return err
}

// More reports whether at least one more byte of input is available.
func (d *Decoder) More() bool {
	_, err := d.src.PeekByte()
	return err == nil
}

// PeekType returns the designator of the next value without consuming it.
func (d *Decoder) PeekType() (Type, error) {
	if d.err != nil {
		return 0, d.err
	}
	b, err := d.src.PeekByte()
	if err != nil {
		return 0, d.fail(err)
	}
	t, err := typeFromByte(b)
	if err != nil {
		return 0, d.fail(err)
	}
	return t, nil
}

// expectTag consumes the next designator if it is one of the expected ones.
// A mismatched designator is left unconsumed.
func (d *Decoder) expectTag(expected ...Type) (Type, error) {
	t, err := d.PeekType()
	if err != nil {
		return 0, err
	}
	for _, want := range expected {
		if t == want {
			if _, err := d.src.ReadByte(); err != nil {
				return 0, d.fail(err)
			}
			return t, nil
		}
	}
	return 0, d.fail(wrongType(t, expected...))
}

// DecodeNull reports whether the next value is a null, consuming it if so.
func (d *Decoder) DecodeNull() (bool, error) {
	t, err := d.PeekType()
	if err != nil {
		return false, err
	}
	if t != TypeNull {
		return false, nil
	}
	_, err = d.src.ReadByte()
	if err != nil {
		return false, d.fail(err)
	}
	return true, nil
}

// DecodeBool decodes a boolean.
func (d *Decoder) DecodeBool() (bool, error) {
	t, err := d.expectTag(TypeBooleanFalse, TypeBooleanTrue)
	if err != nil {
		return false, err
	}
	return t == TypeBooleanTrue, nil
}

// decodeUintWidth decodes an unsigned integer of at most width bits.
// Boolean designators are accepted as 0 and 1.
func (d *Decoder) decodeUintWidth(width int) (uint64, error) {
	t, err := d.expectTag(TypeUnsignedInt, TypeBooleanFalse, TypeBooleanTrue)
	if err != nil {
		return 0, err
	}
	switch t {
	case TypeBooleanFalse:
		return 0, nil
	case TypeBooleanTrue:
		return 1, nil
	}
	v, err := decodeUvarint(d.src, width)
	if err != nil {
		return 0, d.fail(err)
	}
	return v, nil
}

// DecodeUint8 decodes an unsigned integer that fits 8 bits.
func (d *Decoder) DecodeUint8() (uint8, error) {
	v, err := d.decodeUintWidth(8)
	return uint8(v), err
}

// DecodeUint16 decodes an unsigned integer that fits 16 bits.
func (d *Decoder) DecodeUint16() (uint16, error) {
	v, err := d.decodeUintWidth(16)
	return uint16(v), err
}

// DecodeUint32 decodes an unsigned integer that fits 32 bits.
func (d *Decoder) DecodeUint32() (uint32, error) {
	v, err := d.decodeUintWidth(32)
	return uint32(v), err
}

// DecodeUint64 decodes an unsigned integer.
func (d *Decoder) DecodeUint64() (uint64, error) {
	return d.decodeUintWidth(64)
}

// DecodeUint decodes a platform-sized unsigned integer. A signed encoding
// is accepted when its value is non-negative.
func (d *Decoder) DecodeUint() (uint, error) {
	t, err := d.expectTag(TypeUnsignedInt, TypeSignedInt, TypeBooleanFalse, TypeBooleanTrue)
	if err != nil {
		return 0, err
	}
	switch t {
	case TypeBooleanFalse:
		return 0, nil
	case TypeBooleanTrue:
		return 1, nil
	case TypeSignedInt:
		v, err := decodeVarint(d.src, bits.UintSize)
		if err != nil {
			return 0, d.fail(err)
		}
		if v < 0 {
			return 0, d.fail(ErrIntegerRange)
		}
		return uint(v), nil
	}
	v, err := decodeUvarint(d.src, bits.UintSize)
	if err != nil {
		return 0, d.fail(err)
	}
	return uint(v), nil
}

// decodeIntWidth decodes a signed integer whose zig-zag form fits width
// bits.
func (d *Decoder) decodeIntWidth(width int) (int64, error) {
	if _, err := d.expectTag(TypeSignedInt); err != nil {
		return 0, err
	}
	v, err := decodeVarint(d.src, width)
	if err != nil {
		return 0, d.fail(err)
	}
	return v, nil
}

// DecodeInt8 decodes a signed integer that fits 8 bits.
func (d *Decoder) DecodeInt8() (int8, error) {
	v, err := d.decodeIntWidth(8)
	return int8(v), err
}

// DecodeInt16 decodes a signed integer that fits 16 bits.
func (d *Decoder) DecodeInt16() (int16, error) {
	v, err := d.decodeIntWidth(16)
	return int16(v), err
}

// DecodeInt32 decodes a signed integer that fits 32 bits.
func (d *Decoder) DecodeInt32() (int32, error) {
	v, err := d.decodeIntWidth(32)
	return int32(v), err
}

// DecodeInt64 decodes a signed integer.
func (d *Decoder) DecodeInt64() (int64, error) {
	return d.decodeIntWidth(64)
}

// DecodeInt decodes a platform-sized signed integer. An unsigned encoding
// is accepted when its value fits.
func (d *Decoder) DecodeInt() (int, error) {
	t, err := d.expectTag(TypeSignedInt, TypeUnsignedInt)
	if err != nil {
		return 0, err
	}
	if t == TypeUnsignedInt {
		u, err := decodeUvarint(d.src, bits.UintSize)
		if err != nil {
			return 0, d.fail(err)
		}
		if u > math.MaxInt {
			return 0, d.fail(ErrIntegerRange)
		}
		return int(u), nil
	}
	v, err := decodeVarint(d.src, bits.UintSize)
	if err != nil {
		return 0, d.fail(err)
	}
	return int(v), nil
}

func (d *Decoder) readFloatBits(n int) (uint64, error) {
	var p [8]byte
	if err := d.src.ReadExact(p[:n]); err != nil {
		return 0, d.fail(err)
	}
	switch n {
	case 2:
		return uint64(binary.LittleEndian.Uint16(p[:2])), nil
	case 4:
		return uint64(binary.LittleEndian.Uint32(p[:4])), nil
	default:
		return binary.LittleEndian.Uint64(p[:]), nil
	}
}

// DecodeFloat64 decodes a float of any decodable width. Half precision
// values widen exactly; quadruple precision is recognized but not
// decodable.
func (d *Decoder) DecodeFloat64() (float64, error) {
	t, err := d.expectTag(TypeFloat16, TypeFloat32, TypeFloat64)
	if err != nil {
		return 0, err
	}
	switch t {
	case TypeFloat16:
		u, err := d.readFloatBits(2)
		if err != nil {
			return 0, err
		}
		return float64(float16.Frombits(uint16(u)).Float32()), nil
	case TypeFloat32:
		u, err := d.readFloatBits(4)
		if err != nil {
			return 0, err
		}
		return float64(math.Float32frombits(uint32(u))), nil
	}
	u, err := d.readFloatBits(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(u), nil
}

// DecodeFloat32 decodes a float into single precision, narrowing a double
// precision value if needed.
func (d *Decoder) DecodeFloat32() (float32, error) {
	v, err := d.DecodeFloat64()
	return float32(v), err
}

// readLenPrefixed consumes a length prefix and that many payload bytes.
func (d *Decoder) readLenPrefixed() ([]byte, bool, error) {
	n, err := decodeLen(d.src)
	if err != nil {
		return nil, false, d.fail(err)
	}
	if d.scratch != nil {
		d.scratch.Reset()
	}
	data, borrowed, err := d.src.ReadBytes(n, d.scratch)
	if err != nil {
		return nil, false, d.fail(err)
	}
	return data, borrowed, nil
}

// DecodeStringBytes decodes UTF-8 text without converting it to a string.
// The data is borrowed from the input when the source allows it; otherwise
// it lives in scratch until the next read.
func (d *Decoder) DecodeStringBytes() ([]byte, bool, error) {
	if _, err := d.expectTag(TypeString); err != nil {
		return nil, false, err
	}
	data, borrowed, err := d.readLenPrefixed()
	if err != nil {
		return nil, false, err
	}
	if !utf8.Valid(data) {
		return nil, false, d.fail(ErrInvalidUTF8)
	}
	return data, borrowed, nil
}

// DecodeString decodes UTF-8 text.
func (d *Decoder) DecodeString() (string, error) {
	data, _, err := d.DecodeStringBytes()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeBytes decodes a byte blob. String payloads are accepted as their
// raw bytes. The same lifetime rules as DecodeStringBytes apply.
func (d *Decoder) DecodeBytes() ([]byte, bool, error) {
	if _, err := d.expectTag(TypeBytes, TypeString); err != nil {
		return nil, false, err
	}
	return d.readLenPrefixed()
}

// DecodeRune decodes a string holding exactly one character.
func (d *Decoder) DecodeRune() (rune, error) {
	data, _, err := d.DecodeStringBytes()
	if err != nil {
		return 0, err
	}
	r, size := utf8.DecodeRune(data)
	if size != len(data) || len(data) == 0 {
		return 0, d.fail(ErrNotOneChar)
	}
	return r, nil
}

// BeginSeq consumes the opening designator of a sequence.
func (d *Decoder) BeginSeq() error {
	_, err := d.expectTag(TypeSeqStart)
	return err
}

// MoreElements reports whether the innermost open sequence has another
// element before its end marker.
func (d *Decoder) MoreElements() (bool, error) {
	t, err := d.PeekType()
	if err != nil {
		return false, err
	}
	return t != TypeSeqEnd, nil
}

// EndSeq consumes the closing designator of a sequence. Any other
// designator in its place fails with a WrongTypeError.
func (d *Decoder) EndSeq() error {
	_, err := d.expectTag(TypeSeqEnd)
	return err
}

// BeginMap consumes the opening designator of a map.
func (d *Decoder) BeginMap() error {
	_, err := d.expectTag(TypeMapStart)
	return err
}

// MoreKeys reports whether the innermost open map has another entry before
// its end marker.
func (d *Decoder) MoreKeys() (bool, error) {
	t, err := d.PeekType()
	if err != nil {
		return false, err
	}
	return t != TypeMapEnd, nil
}

// EndMap consumes the closing designator of a map.
func (d *Decoder) EndMap() error {
	_, err := d.expectTag(TypeMapEnd)
	return err
}

// Variant identifies one alternative of a tagged union. The selector is a
// field name or index, mirroring struct field keys. HasPayload reports
// whether the variant was wrapped in a map carrying a payload value; the
// caller then decodes the payload and closes with EndVariant.
type Variant struct {
	Name       string
	Index      uint64
	ByIndex    bool
	HasPayload bool
}

// DecodeVariant decodes a variant selector. A bare name or index is a
// payload-free variant; a map opening introduces a selector followed by a
// payload.
func (d *Decoder) DecodeVariant() (Variant, error) {
	t, err := d.PeekType()
	if err != nil {
		return Variant{}, err
	}
	var v Variant
	if t == TypeMapStart {
		if _, err := d.src.ReadByte(); err != nil {
			return Variant{}, d.fail(err)
		}
		v.HasPayload = true
		t, err = d.PeekType()
		if err != nil {
			return Variant{}, err
		}
	}
	switch t {
	case TypeUnsignedInt:
		v.ByIndex = true
		v.Index, err = d.DecodeUint64()
	case TypeString:
		v.Name, err = d.DecodeString()
	default:
		err = d.fail(wrongType(t, TypeUnsignedInt, TypeString))
	}
	if err != nil {
		return Variant{}, err
	}
	return v, nil
}

// EndVariant closes a variant that carried a payload.
func (d *Decoder) EndVariant() error {
	return d.EndMap()
}

// Skip consumes the next value structurally without interpreting it:
// composites are skipped recursively, blobs by their length prefix.
func (d *Decoder) Skip() error {
	t, err := d.PeekType()
	if err != nil {
		return err
	}
	if _, err := d.src.ReadByte(); err != nil {
		return d.fail(err)
	}
	switch t {
	case TypeNull, TypeBooleanFalse, TypeBooleanTrue:
		return nil
	case TypeUnsignedInt, TypeSignedInt:
		// Same byte cap as decoding, so an endless run of continuation
		// bytes cannot keep a skip reading forever.
		for i := 0; i < varintMaxLen(64); i++ {
			b, err := d.src.ReadByte()
			if err != nil {
				return d.fail(err)
			}
			if b&0x80 == 0 {
				return nil
			}
		}
		return d.fail(ErrVarIntTooLarge)
	case TypeFloat16:
		return d.skipBytes(2)
	case TypeFloat32:
		return d.skipBytes(4)
	case TypeFloat64:
		return d.skipBytes(8)
	case TypeFloat128:
		return d.skipBytes(16)
	case TypeBytes, TypeString:
		n, err := decodeLen(d.src)
		if err != nil {
			return d.fail(err)
		}
		return d.skipBytes(n)
	case TypeSeqStart:
		return d.skipUntil(TypeSeqEnd)
	case TypeMapStart:
		return d.skipUntil(TypeMapEnd)
	default:
		// SeqEnd or MapEnd with no matching opener.
		return d.fail(wrongType(t,
			TypeNull, TypeBooleanFalse, TypeBooleanTrue,
			TypeUnsignedInt, TypeSignedInt,
			TypeFloat16, TypeFloat32, TypeFloat64, TypeFloat128,
			TypeBytes, TypeString, TypeSeqStart, TypeMapStart))
	}
}

func (d *Decoder) skipBytes(n int) error {
	if err := d.src.SkipBytes(n); err != nil {
		return d.fail(err)
	}
	return nil
}

func (d *Decoder) skipUntil(end Type) error {
	for {
		t, err := d.PeekType()
		if err != nil {
			return err
		}
		if t == end {
			_, err := d.src.ReadByte()
			if err != nil {
				return d.fail(err)
			}
			return nil
		}
		if err := d.Skip(); err != nil {
			return err
		}
	}
}
