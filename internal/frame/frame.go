package frame

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	// SyncByte opens every frame on the wire.
	SyncByte = 0x55
	// HeaderLen covers sync, length, checksum and the two reserved bytes.
	HeaderLen = 7
)

var (
	ErrFraming    = errors.New("frame: bad framing")
	ErrChecksum   = errors.New("frame: checksum mismatch")
	ErrShortFrame = errors.New("frame: truncated frame")
)

// Error carries the stream offset and the offending value of a framing
// failure so unseen firmware variants can be diagnosed from the log alone.
type Error struct {
	Offset int64
	Value  uint32
	Reason string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v at offset %d: %s (0x%X)", e.Err, e.Offset, e.Reason, e.Value)
}

func (e *Error) Unwrap() error { return e.Err }

// Frame is one length-prefixed, checksummed unit read from a .sss stream.
type Frame struct {
	Offset    int64
	Length    uint16
	Checksum  uint16
	Payload   []byte
	Recovered bool
}

// PayloadOffset returns the stream offset of the first payload byte.
func (f Frame) PayloadOffset() int64 {
	return f.Offset + HeaderLen
}

// Checksum sums the payload modulo 65536.
func Checksum(payload []byte) uint16 {
	var sum uint16
	for _, b := range payload {
		sum += uint16(b)
	}
	return sum
}

// Accepts reports whether a computed sum matches the declared checksum. The
// instrument is sometimes one above the value it writes, so checksum+1 is
// accepted as well.
func Accepts(sum, checksum uint16) bool {
	return uint32(sum) == uint32(checksum) || uint32(sum) == uint32(checksum)+1
}

// Reader splits a byte source into frames and tracks the absolute offset.
type Reader struct {
	r   *bufio.Reader
	off int64
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int64 {
	return r.off
}

// ReadFrame reads the next frame. It returns io.EOF when the source ends
// exactly on a frame boundary.
func (r *Reader) ReadFrame() (Frame, error) {
	start := r.off
	sync, err := r.r.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Frame{}, io.EOF
		}
		return Frame{}, err
	}
	r.off++
	if sync != SyncByte {
		return Frame{}, &Error{Offset: start, Value: uint32(sync), Reason: "unexpected sync byte", Err: ErrFraming}
	}

	var hdr [HeaderLen - 1]byte
	if err := r.readFull(hdr[:]); err != nil {
		return Frame{}, r.short(start, "header", err)
	}
	f := Frame{
		Offset:   start,
		Length:   binary.LittleEndian.Uint16(hdr[0:2]),
		Checksum: binary.LittleEndian.Uint16(hdr[2:4]),
	}
	if reserved := binary.LittleEndian.Uint16(hdr[4:6]); reserved != 0 {
		return Frame{}, &Error{Offset: start + 5, Value: uint32(reserved), Reason: "reserved bytes not zero", Err: ErrFraming}
	}

	f.Payload = make([]byte, f.Length)
	if err := r.readFull(f.Payload); err != nil {
		return Frame{}, r.short(start, "payload", err)
	}
	if Accepts(Checksum(f.Payload), f.Checksum) {
		return f, nil
	}

	// The declared length is occasionally one byte short of the content.
	extra, err := r.r.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Frame{}, r.mismatch(f)
		}
		return Frame{}, err
	}
	r.off++
	f.Payload = append(f.Payload, extra)
	f.Length++
	f.Recovered = true
	if !Accepts(Checksum(f.Payload), f.Checksum) {
		return Frame{}, r.mismatch(f)
	}
	return f, nil
}

func (r *Reader) readFull(buf []byte) error {
	n, err := io.ReadFull(r.r, buf)
	r.off += int64(n)
	return err
}

func (r *Reader) short(start int64, part string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &Error{Offset: r.off, Value: uint32(r.off - start), Reason: "stream ended inside frame " + part, Err: ErrShortFrame}
	}
	return err
}

func (r *Reader) mismatch(f Frame) error {
	return &Error{
		Offset: f.Offset,
		Value:  uint32(Checksum(f.Payload)),
		Reason: fmt.Sprintf("declared checksum 0x%04X, length %d", f.Checksum, f.Length),
		Err:    ErrChecksum,
	}
}
