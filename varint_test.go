package brief

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodedUvarint(t *testing.T, v uint64) []byte {
	t.Helper()
	sink := NewBufferSink(nil)
	require.NoError(t, encodeUvarint(sink, v))
	return sink.Bytes()
}

func encodedVarint(t *testing.T, v int64) []byte {
	t.Helper()
	sink := NewBufferSink(nil)
	require.NoError(t, encodeVarint(sink, v))
	return sink.Bytes()
}

func TestUvarintEncode(t *testing.T) {
	cases := []struct {
		value uint64
		want  []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7F}},
		{128, []byte{0x80, 0x01}},
		{0xFFFF, []byte{0xFF, 0xFF, 0x03}},
		{1<<64 - 1, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x01}},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, encodedUvarint(t, c.value), "value %d", c.value)
	}
}

func TestUvarintDecode(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		for _, v := range []uint64{0, 1, 127, 128, 300, 1 << 20, 1<<64 - 1} {
			got, err := decodeUvarint(NewSliceSource(encodedUvarint(t, v)), 64)
			require.NoError(t, err)
			assert.Equal(t, v, got)
		}
	})

	t.Run("RedundantZeroGroupsWithinCap", func(t *testing.T) {
		// Three bytes is exactly the cap for 16 bits of payload.
		got, err := decodeUvarint(NewSliceSource([]byte{0x80, 0x80, 0x00}), 16)
		require.NoError(t, err)
		assert.Zero(t, got)
	})

	t.Run("TooManyGroups", func(t *testing.T) {
		_, err := decodeUvarint(NewSliceSource([]byte{0x80, 0x80, 0x80, 0x00}), 16)
		assert.ErrorIs(t, err, ErrVarIntTooLarge)
	})

	t.Run("DataBitsBeyondWidth", func(t *testing.T) {
		// 0xFFFF is the largest 16-bit value; one more data bit must fail.
		got, err := decodeUvarint(NewSliceSource([]byte{0xFF, 0xFF, 0x03}), 16)
		require.NoError(t, err)
		assert.EqualValues(t, 0xFFFF, got)

		_, err = decodeUvarint(NewSliceSource([]byte{0xFF, 0xFF, 0x07}), 16)
		assert.ErrorIs(t, err, ErrVarIntTooLarge)
	})

	t.Run("TruncatedInput", func(t *testing.T) {
		_, err := decodeUvarint(NewSliceSource([]byte{0x80}), 64)
		assert.ErrorIs(t, err, ErrUnexpectedEnd)
	})
}

func TestVarintZigZag(t *testing.T) {
	cases := []struct {
		value int64
		want  []byte
	}{
		{0, []byte{0x00}},
		{-1, []byte{0x01}},
		{1, []byte{0x02}},
		{-2, []byte{0x03}},
		{64, []byte{0x80, 0x01}},
		{-65, []byte{0x81, 0x01}},
		{0x7FFF, []byte{0xFE, 0xFF, 0x03}},
		{-0x8000, []byte{0xFF, 0xFF, 0x03}},
	}
	for _, c := range cases {
		got := encodedVarint(t, c.value)
		assert.Equal(t, c.want, got, "value %d", c.value)

		back, err := decodeVarint(NewSliceSource(got), 64)
		require.NoError(t, err)
		assert.Equal(t, c.value, back)
	}
}

func TestVarintWidthLimits(t *testing.T) {
	// The zig-zag form of an extreme 16-bit value occupies the full 16
	// unsigned bits, so it decodes at width 16 but its neighbor does not.
	_, err := decodeVarint(NewSliceSource([]byte{0xFF, 0xFF, 0x03}), 16)
	require.NoError(t, err)

	_, err = decodeVarint(NewSliceSource(encodedVarint(t, 0x8000)), 16)
	assert.ErrorIs(t, err, ErrVarIntTooLarge)
}
