package records

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfBounds        = errors.New("records: read past end of payload")
	ErrTruncatedSubRecord = errors.New("records: sub-record list truncated")
	ErrSentinelNotFound   = errors.New("records: header separator 0xFE not found")
	ErrInvalidTimestamp   = errors.New("records: invalid test timestamp")
)

// OffsetError locates a decode failure inside a record payload.
type OffsetError struct {
	// Offset is relative to the start of the slice handed to the decoder.
	Offset int
	Value  int
	Reason string
	Err    error
}

func (e *OffsetError) Error() string {
	return fmt.Sprintf("%v at payload offset %d: %s (0x%X)", e.Err, e.Offset, e.Reason, e.Value)
}

func (e *OffsetError) Unwrap() error { return e.Err }
