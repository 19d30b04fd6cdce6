package sss

import (
	"errors"
	"fmt"

	"github.com/XBigRiceH/SeawardSuperStringParser/internal/driver"
	"github.com/XBigRiceH/SeawardSuperStringParser/internal/frame"
	"github.com/XBigRiceH/SeawardSuperStringParser/internal/records"
)

var (
	ErrFraming            = frame.ErrFraming
	ErrChecksum           = frame.ErrChecksum
	ErrShortFrame         = frame.ErrShortFrame
	ErrUnknownRecordType  = driver.ErrUnknownRecordType
	ErrTruncatedSubRecord = records.ErrTruncatedSubRecord
	ErrOutOfBounds        = records.ErrOutOfBounds
	ErrSentinelNotFound   = records.ErrSentinelNotFound
	ErrInvalidTimestamp   = records.ErrInvalidTimestamp
	ErrMissingTerminal    = errors.New("sss: stream ended without terminal record")
)

// RecordError wraps a failure to decode the payload of one frame.
type RecordError struct {
	// Offset is the stream offset of the first byte after the type tag.
	Offset int64
	Record string
	Err    error
}

func (e *RecordError) Error() string {
	var oe *records.OffsetError
	if errors.As(e.Err, &oe) {
		return fmt.Sprintf("%s record at offset %d: %v at stream offset %d: %s (0x%X)",
			e.Record, e.Offset, oe.Err, e.Offset+int64(oe.Offset), oe.Reason, oe.Value)
	}
	return fmt.Sprintf("%s record at offset %d: %v", e.Record, e.Offset, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// StreamOffset returns the absolute offset of the failing byte when known.
func (e *RecordError) StreamOffset() int64 {
	var oe *records.OffsetError
	if errors.As(e.Err, &oe) {
		return e.Offset + int64(oe.Offset)
	}
	return e.Offset
}

// IsRecoverable reports whether decoding may continue after err. Only a
// truncated sub-record list is recoverable; the record itself is kept.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrTruncatedSubRecord)
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrFraming):
		return "framing"
	case errors.Is(err, ErrChecksum):
		return "checksum"
	case errors.Is(err, ErrShortFrame):
		return "short_frame"
	case errors.Is(err, ErrUnknownRecordType):
		return "unknown_record_type"
	case errors.Is(err, ErrTruncatedSubRecord):
		return "truncated_subrecord"
	case errors.Is(err, ErrOutOfBounds):
		return "out_of_bounds"
	case errors.Is(err, ErrSentinelNotFound):
		return "sentinel_not_found"
	case errors.Is(err, ErrInvalidTimestamp):
		return "invalid_timestamp"
	case errors.Is(err, ErrMissingTerminal):
		return "missing_terminal"
	default:
		return "other"
	}
}
