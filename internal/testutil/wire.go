package testutil

import "encoding/binary"

// Frame wraps payload in a well-formed frame header with a correct checksum.
func Frame(payload []byte) []byte {
	return FrameWith(payload, uint16(len(payload)), sum(payload))
}

// FrameWith builds a frame with an explicit declared length and checksum so
// tests can reproduce the instrument's short-length and off-by-one quirks.
func FrameWith(payload []byte, length, checksum uint16) []byte {
	out := make([]byte, 0, 7+len(payload))
	out = append(out, 0x55)
	out = binary.LittleEndian.AppendUint16(out, length)
	out = binary.LittleEndian.AppendUint16(out, checksum)
	out = append(out, 0x00, 0x00)
	return append(out, payload...)
}

// Terminal returns the end-of-stream frame.
func Terminal() []byte {
	return Frame([]byte{0xAA, 0xFF})
}

// Stream concatenates frames.
func Stream(frames ...[]byte) []byte {
	var out []byte
	for _, f := range frames {
		out = append(out, f...)
	}
	return out
}

// Str null-pads s to a fixed width field.
func Str(s string, width int) []byte {
	out := make([]byte, width)
	copy(out, s)
	return out
}

// Float16 encodes a value in the instrument's fixed-point format.
func Float16(significand uint16, exponent uint8) []byte {
	raw := uint16(exponent&0x03)<<14 | significand&0x3FFF
	return binary.LittleEndian.AppendUint16(nil, raw)
}

// MachineInfoPayload returns a tagged machine info payload.
func MachineInfoPayload(model, serial string) []byte {
	out := []byte{0x55}
	out = append(out, Str(model, 20)...)
	return append(out, Str(serial, 20)...)
}

// Header describes the fixed part of a test result record.
type Header struct {
	Flags            byte
	AssetID          string
	Site             string
	Location         string
	Hour             byte
	Minute           byte
	Second           byte
	Day              byte
	Month            byte
	Year             uint16
	Operator         string
	Comments         string
	FullTestMonths   byte
	Program          string
	VisualTestMonths byte
	// Padding is inserted between the reserved block and the 0xFE separator.
	Padding []byte
}

// HeaderLen is the size of the fixed test result header without the type
// tag, padding and separator.
const HeaderLen = 312

// TestResultPayload returns a tagged test result payload: header, separator,
// the given sub-records and a two byte trailer.
func TestResultPayload(h Header, subs ...[]byte) []byte {
	out := []byte{0x01, h.Flags}
	out = append(out, Str(h.AssetID, 16)...)
	out = append(out, make([]byte, 64)...)
	out = append(out, Str(h.Site, 16)...)
	out = append(out, Str(h.Location, 16)...)
	out = append(out, h.Hour, h.Minute, h.Second, h.Day, h.Month)
	out = binary.LittleEndian.AppendUint16(out, h.Year)
	out = append(out, Str(h.Operator, 16)...)
	out = append(out, Str(h.Comments, 128)...)
	out = append(out, 0x00)
	out = append(out, h.FullTestMonths)
	out = append(out, Str(h.Program, 30)...)
	out = append(out, h.VisualTestMonths)
	out = append(out, make([]byte, 15)...)
	out = append(out, h.Padding...)
	out = append(out, 0xFE)
	for _, s := range subs {
		out = append(out, s...)
	}
	return append(out, 0x00, 0x00)
}

// Sub builds a sub-record: tag followed by its fixed-length body.
func Sub(tag byte, body ...[]byte) []byte {
	out := []byte{tag}
	for _, b := range body {
		out = append(out, b...)
	}
	return out
}

// Visual builds a visual test sub-record.
func Visual(name, unit string, result []byte, flags byte) []byte {
	return Sub(0xFD, Str(name, 16), Str(unit, 16), result, []byte{flags})
}

func sum(payload []byte) uint16 {
	var s uint16
	for _, b := range payload {
		s += uint16(b)
	}
	return s
}
