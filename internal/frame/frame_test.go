package frame

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/XBigRiceH/SeawardSuperStringParser/internal/testutil"
)

func TestReadFrame(t *testing.T) {
	payload := []byte{0x01, 0x02, 0x03}
	r := NewReader(bytes.NewReader(testutil.Frame(payload)))
	f, err := r.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if f.Length != 3 || f.Checksum != 6 {
		t.Fatalf("unexpected header: length=%d checksum=%d", f.Length, f.Checksum)
	}
	if !bytes.Equal(f.Payload, payload) {
		t.Fatalf("payload mismatch: % X", f.Payload)
	}
	if f.Recovered {
		t.Fatalf("frame should not need recovery")
	}
	if r.Offset() != 10 {
		t.Fatalf("offset mismatch: %d", r.Offset())
	}
	if _, err := r.ReadFrame(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF at boundary, got %v", err)
	}
}

func TestReadFrameChecksumPlusOne(t *testing.T) {
	payload := []byte{0x10, 0x20}
	raw := testutil.FrameWith(payload, 2, 0x30-1)
	f, err := NewReader(bytes.NewReader(raw)).ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if f.Recovered {
		t.Fatalf("off-by-one checksum must not trigger recovery")
	}
}

func TestReadFrameShortLengthRecovery(t *testing.T) {
	payload := []byte{0x01, 0x02, 0x03, 0x04}
	raw := testutil.FrameWith(payload, 3, 10)
	raw = append(raw, testutil.Terminal()...)
	r := NewReader(bytes.NewReader(raw))
	f, err := r.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if !f.Recovered || f.Length != 4 {
		t.Fatalf("expected recovered 4 byte frame, got length=%d recovered=%v", f.Length, f.Recovered)
	}
	if !bytes.Equal(f.Payload, payload) {
		t.Fatalf("payload mismatch: % X", f.Payload)
	}
	next, err := r.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame after recovery: %v", err)
	}
	if next.Offset != 11 || !bytes.Equal(next.Payload, []byte{0xAA, 0xFF}) {
		t.Fatalf("terminal frame misaligned: offset=%d payload=% X", next.Offset, next.Payload)
	}
}

func TestReadFrameChecksumError(t *testing.T) {
	raw := testutil.FrameWith([]byte{0x01, 0x02}, 2, 0x99)
	raw = append(raw, 0x05)
	_, err := NewReader(bytes.NewReader(raw)).ReadFrame()
	if !errors.Is(err, ErrChecksum) {
		t.Fatalf("expected ErrChecksum, got %v", err)
	}
	var fe *Error
	if !errors.As(err, &fe) || fe.Offset != 0 {
		t.Fatalf("expected positioned error, got %v", err)
	}
}

func TestReadFrameChecksumErrorAtEOF(t *testing.T) {
	raw := testutil.FrameWith([]byte{0x01, 0x02}, 2, 0x99)
	_, err := NewReader(bytes.NewReader(raw)).ReadFrame()
	if !errors.Is(err, ErrChecksum) {
		t.Fatalf("expected ErrChecksum, got %v", err)
	}
}

func TestReadFrameBadSync(t *testing.T) {
	raw := testutil.Frame([]byte{0x01})
	raw[0] = 0x54
	_, err := NewReader(bytes.NewReader(raw)).ReadFrame()
	if !errors.Is(err, ErrFraming) {
		t.Fatalf("expected ErrFraming, got %v", err)
	}
	var fe *Error
	if !errors.As(err, &fe) || fe.Value != 0x54 || fe.Offset != 0 {
		t.Fatalf("unexpected error detail: %+v", fe)
	}
}

func TestReadFrameReservedNotZero(t *testing.T) {
	raw := testutil.Frame([]byte{0x01})
	raw[6] = 0x01
	_, err := NewReader(bytes.NewReader(raw)).ReadFrame()
	if !errors.Is(err, ErrFraming) {
		t.Fatalf("expected ErrFraming, got %v", err)
	}
}

func TestReadFrameTruncated(t *testing.T) {
	raw := testutil.Frame([]byte{0x01, 0x02, 0x03})
	for _, cut := range []int{3, 8} {
		_, err := NewReader(bytes.NewReader(raw[:cut])).ReadFrame()
		if !errors.Is(err, ErrShortFrame) {
			t.Fatalf("cut at %d: expected ErrShortFrame, got %v", cut, err)
		}
	}
}

func TestAccepts(t *testing.T) {
	cases := []struct {
		sum, checksum uint16
		want          bool
	}{
		{100, 100, true},
		{101, 100, true},
		{99, 100, false},
		{102, 100, false},
		{0, 0xFFFF, false},
		{0xFFFF, 0xFFFF, true},
	}
	for _, tc := range cases {
		if got := Accepts(tc.sum, tc.checksum); got != tc.want {
			t.Fatalf("Accepts(%d, %d) = %v, want %v", tc.sum, tc.checksum, got, tc.want)
		}
	}
}

func TestChecksumWraps(t *testing.T) {
	payload := bytes.Repeat([]byte{0xFF}, 300)
	if got := Checksum(payload); got != uint16((300*0xFF)%65536) {
		t.Fatalf("checksum mismatch: %d", got)
	}
}
