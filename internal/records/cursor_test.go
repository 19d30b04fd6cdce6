package records

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeFloat16(t *testing.T) {
	cases := []struct {
		raw  uint16
		want float64
	}{
		{0x4005, 0.5},
		{0x0012, 18.0},
		{0x0000, 0.0},
		{0x3FFF, 16383},
		{0x8000 | 1234, 12.34},
		{0xC000 | 1234, 1.23},
		{0xC000 | 5, 0.01},
		{0x4000 | 2300, 230},
	}
	for _, tc := range cases {
		require.InDelta(t, tc.want, DecodeFloat16(tc.raw), 1e-9, "raw 0x%04X", tc.raw)
	}
}

func TestDecodeFloat16Total(t *testing.T) {
	for raw := 0; raw <= 0xFFFF; raw++ {
		v := DecodeFloat16(uint16(raw))
		if v < 0 || v > 16383 {
			t.Fatalf("raw 0x%04X decoded out of range: %v", raw, v)
		}
	}
}

func TestDecodeString(t *testing.T) {
	raw := []byte("Apollo 600\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00")
	require.Len(t, raw, 20)
	require.Equal(t, "Apollo 600", DecodeString(raw))
	require.Equal(t, "AB", DecodeString([]byte("A\x00B  \t")))
	require.Equal(t, "", DecodeString(make([]byte, 16)))
	require.Equal(t, "  lead", DecodeString([]byte("  lead  ")))
}

func TestCursorReads(t *testing.T) {
	c := NewCursor([]byte{0x07, 0x34, 0x12, 0x05, 0x40, 0x01, 'h', 'i', 0x00})
	u8, err := c.Uint8()
	require.NoError(t, err)
	require.Equal(t, uint8(7), u8)
	u16, err := c.Uint16()
	require.NoError(t, err)
	require.Equal(t, uint16(0x1234), u16)
	f, err := c.Float16()
	require.NoError(t, err)
	require.Equal(t, 0.5, f)
	flags, err := c.Flags()
	require.NoError(t, err)
	require.Equal(t, FlagSet{FlagPass}, flags)
	s, err := c.String(3)
	require.NoError(t, err)
	require.Equal(t, "hi", s)
	require.Equal(t, 0, c.Remaining())
	require.Equal(t, 9, c.Offset())
}

func TestCursorOutOfBounds(t *testing.T) {
	c := NewCursor([]byte{0x01})
	_, err := c.Uint16()
	require.True(t, errors.Is(err, ErrOutOfBounds))
	var oe *OffsetError
	require.ErrorAs(t, err, &oe)
	require.Equal(t, 0, oe.Offset)
	require.Equal(t, 2, oe.Value)
	// a failed read does not advance the cursor
	require.Equal(t, 1, c.Remaining())
	require.ErrorIs(t, c.Skip(2), ErrOutOfBounds)
	_, err = c.Read(-1)
	require.ErrorIs(t, err, ErrOutOfBounds)
}
