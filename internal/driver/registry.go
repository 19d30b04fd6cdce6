package driver

import (
	"errors"
	"fmt"

	"github.com/XBigRiceH/SeawardSuperStringParser/internal/records"
)

// ErrUnknownRecordType is returned for a top-level tag with no driver.
var ErrUnknownRecordType = errors.New("driver: unknown record type")

// UnknownRecordError reports the tag that could not be dispatched.
type UnknownRecordError struct {
	Tag byte
}

func (e *UnknownRecordError) Error() string {
	return fmt.Sprintf("%v 0x%02X", ErrUnknownRecordType, e.Tag)
}

func (e *UnknownRecordError) Unwrap() error { return ErrUnknownRecordType }

// Driver decodes the payload of one top-level record type. The payload
// handed to Decode excludes the type tag.
type Driver interface {
	Name() string
	Decode(payload []byte, opts records.ScanOptions) (records.Record, error)
}

type machineInfoDriver struct{}

func (machineInfoDriver) Name() string { return "machine-info" }

func (machineInfoDriver) Decode(payload []byte, _ records.ScanOptions) (records.Record, error) {
	mi, err := records.DecodeMachineInfo(payload)
	if err != nil {
		return nil, err
	}
	return mi, nil
}

type testResultDriver struct{}

func (testResultDriver) Name() string { return "test-result" }

func (testResultDriver) Decode(payload []byte, opts records.ScanOptions) (records.Record, error) {
	tr, err := records.DecodeTestResult(payload, opts)
	if tr == nil {
		// keep a nil *TestResult from becoming a non-nil Record
		return nil, err
	}
	return tr, err
}

var registry = map[byte]Driver{
	records.TypeMachineInfo: machineInfoDriver{},
	records.TypeTestResult:  testResultDriver{},
}

// Lookup returns the driver registered for a record type tag.
func Lookup(tag byte) (Driver, error) {
	if drv, ok := registry[tag]; ok {
		return drv, nil
	}
	return nil, &UnknownRecordError{Tag: tag}
}

// IsTerminal reports whether a frame payload is the end-of-stream record.
func IsTerminal(payload []byte) bool {
	return len(payload) >= 2 && payload[0] == 0xAA && payload[1] == 0xFF
}
