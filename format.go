package brief

import "fmt"

// Type is the single-byte designator that introduces every encoded value.
// The designator tells the decoder how to interpret the bytes that follow,
// which makes the format fully self-describing.
type Type byte

const (
	// TypeNull encodes an absent value. No payload follows.
	TypeNull Type = 0
	// TypeBooleanFalse encodes false. No payload follows.
	TypeBooleanFalse Type = 1
	// TypeBooleanTrue encodes true. No payload follows.
	TypeBooleanTrue Type = 2
	// TypeUnsignedInt is followed by a variable-length unsigned integer.
	TypeUnsignedInt Type = 3
	// TypeSignedInt is followed by a zig-zag encoded variable-length integer.
	TypeSignedInt Type = 4
	// TypeFloat16 is followed by 2 bytes of an IEEE 754 half precision
	// float in little-endian order. Recognized on decode, never produced.
	TypeFloat16 Type = 5
	// TypeFloat32 is followed by 4 bytes of an IEEE 754 single precision
	// float in little-endian order.
	TypeFloat32 Type = 6
	// TypeFloat64 is followed by 8 bytes of an IEEE 754 double precision
	// float in little-endian order.
	TypeFloat64 Type = 7
	// TypeFloat128 is followed by 16 bytes of an IEEE 754 quadruple
	// precision float. Reserved; values can be skipped but not decoded.
	TypeFloat128 Type = 8
	// TypeBytes is followed by a variable-length byte count and that many
	// raw bytes.
	TypeBytes Type = 10
	// TypeString is followed by a variable-length byte count and that many
	// bytes of UTF-8 text.
	TypeString Type = 11
	// TypeSeqStart opens a sequence of self-describing values.
	TypeSeqStart Type = 15
	// TypeSeqEnd closes the innermost open sequence.
	TypeSeqEnd Type = 16
	// TypeMapStart opens a map of alternating self-describing keys and values.
	TypeMapStart Type = 17
	// TypeMapEnd closes the innermost open map.
	TypeMapEnd Type = 18
)

// typeFromByte validates a raw designator byte. Gaps in the numbering (9,
// 12 through 14) and everything above TypeMapEnd are invalid.
func typeFromByte(b byte) (Type, error) {
	switch t := Type(b); t {
	case TypeNull, TypeBooleanFalse, TypeBooleanTrue,
		TypeUnsignedInt, TypeSignedInt,
		TypeFloat16, TypeFloat32, TypeFloat64, TypeFloat128,
		TypeBytes, TypeString,
		TypeSeqStart, TypeSeqEnd, TypeMapStart, TypeMapEnd:
		return t, nil
	default:
		return 0, InvalidTypeError(b)
	}
}

func (t Type) String() string {
	switch t {
	case TypeNull:
		return "Null"
	case TypeBooleanFalse:
		return "BooleanFalse"
	case TypeBooleanTrue:
		return "BooleanTrue"
	case TypeUnsignedInt:
		return "UnsignedInt"
	case TypeSignedInt:
		return "SignedInt"
	case TypeFloat16:
		return "Float16"
	case TypeFloat32:
		return "Float32"
	case TypeFloat64:
		return "Float64"
	case TypeFloat128:
		return "Float128"
	case TypeBytes:
		return "Bytes"
	case TypeString:
		return "String"
	case TypeSeqStart:
		return "SeqStart"
	case TypeSeqEnd:
		return "SeqEnd"
	case TypeMapStart:
		return "MapStart"
	case TypeMapEnd:
		return "MapEnd"
	default:
		return fmt.Sprintf("Type(0x%02X)", byte(t))
	}
}
