package brief

import (
	"math"
	"math/bits"

	"golang.org/x/exp/constraints"
)

// Integers are encoded little-endian in base-128 groups. The high bit of
// each byte marks a continuation, the low seven bits carry data. Encoded
// values are minimal: the final byte is never zero unless the value itself
// is zero.

// varintMaxLen is the byte cap for a varint carrying width bits of payload.
func varintMaxLen(width int) int {
	return (width + 6) / 7
}

// encodeUvarint writes v in as few bytes as possible.
func encodeUvarint[T constraints.Unsigned](s Sink, v T) error {
	for v >= 0x80 {
		if err := s.WriteByte(byte(v) | 0x80); err != nil {
			return err
		}
		v >>= 7
	}
	return s.WriteByte(byte(v))
}

// decodeUvarint reads a varint of at most width payload bits. Continuation
// groups beyond the byte cap, or data bits beyond the width, fail with
// ErrVarIntTooLarge. Redundant zero groups within the byte cap are accepted.
func decodeUvarint(s Source, width int) (uint64, error) {
	var value uint64
	remaining := width
	for i := 0; i < varintMaxLen(width); i++ {
		b, err := s.ReadByte()
		if err != nil {
			return 0, err
		}
		if remaining < 8 && (b&0x7F)>>remaining != 0 {
			return 0, ErrVarIntTooLarge
		}
		if remaining > 7 {
			remaining -= 7
		} else {
			remaining = 0
		}
		value |= uint64(b&0x7F) << (i * 7)
		if b&0x80 == 0 {
			return value, nil
		}
	}
	return 0, ErrVarIntTooLarge
}

// encodeVarint writes v using the zig-zag mapping, so small magnitudes of
// either sign stay short.
func encodeVarint(s Sink, v int64) error {
	return encodeUvarint(s, zigzag(v))
}

// decodeVarint reads a zig-zag varint whose unsigned form carries at most
// width payload bits.
func decodeVarint(s Source, width int) (int64, error) {
	u, err := decodeUvarint(s, width)
	if err != nil {
		return 0, err
	}
	return unzigzag(u), nil
}

func zigzag(v int64) uint64 {
	return uint64(v<<1) ^ uint64(v>>63)
}

func unzigzag(u uint64) int64 {
	v := int64(u >> 1)
	if u&1 != 0 {
		v = ^v
	}
	return v
}

// decodeLen reads a platform-sized length prefix.
func decodeLen(s Source) (int, error) {
	u, err := decodeUvarint(s, bits.UintSize)
	if err != nil {
		return 0, err
	}
	if u > math.MaxInt {
		return 0, ErrLengthOverflow
	}
	return int(u), nil
}
