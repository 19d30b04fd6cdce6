package records

import (
	"bytes"
	"encoding/binary"
	"math"
	"strings"
	"unicode"
)

// Cursor is a forward-only reader over a record payload. Every read is
// bounds-checked; a Cursor must not be shared between decoders.
type Cursor struct {
	buf []byte
	off int
}

// NewCursor starts reading buf at offset zero.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Offset returns the number of bytes consumed.
func (c *Cursor) Offset() int { return c.off }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.buf) - c.off }

// Read consumes n bytes. The returned slice aliases the payload.
func (c *Cursor) Read(n int) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, &OffsetError{Offset: c.off, Value: n, Reason: "requested length exceeds remaining bytes", Err: ErrOutOfBounds}
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b, nil
}

// Skip discards n reserved bytes.
func (c *Cursor) Skip(n int) error {
	_, err := c.Read(n)
	return err
}

// Uint8 reads one byte.
func (c *Cursor) Uint8() (uint8, error) {
	b, err := c.Read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Uint16 reads a little-endian uint16.
func (c *Cursor) Uint16() (uint16, error) {
	b, err := c.Read(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// String reads a fixed-width text field: null bytes are dropped and trailing
// whitespace trimmed.
func (c *Cursor) String(width int) (string, error) {
	b, err := c.Read(width)
	if err != nil {
		return "", err
	}
	return DecodeString(b), nil
}

// Float16 reads a value in the instrument's fixed-point format.
func (c *Cursor) Float16() (float64, error) {
	raw, err := c.Uint16()
	if err != nil {
		return 0, err
	}
	return DecodeFloat16(raw), nil
}

// Flags reads a status flag byte.
func (c *Cursor) Flags() (FlagSet, error) {
	b, err := c.Uint8()
	if err != nil {
		return nil, err
	}
	return DecodeFlags(b), nil
}

// DecodeString converts a padded fixed-width field to text.
func DecodeString(b []byte) string {
	clean := bytes.ReplaceAll(b, []byte{0x00}, nil)
	return strings.TrimRightFunc(strings.ToValidUTF8(string(clean), "�"), unicode.IsSpace)
}

// DecodeFloat16 interprets raw as a 14-bit significand scaled by 10^-e where e
// is the 2-bit exponent in the top bits. The result is rounded to two
// decimals. This is not IEEE half precision.
func DecodeFloat16(raw uint16) float64 {
	exponent := (raw >> 14) & 0x03
	significand := raw & 0x3FFF
	return roundTo(float64(significand)*math.Pow(0.1, float64(exponent)), 2)
}

func roundTo(value float64, decimals int) float64 {
	pow := math.Pow10(decimals)
	return math.Round(value*pow) / pow
}
