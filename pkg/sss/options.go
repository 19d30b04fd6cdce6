package sss

import (
	"context"

	"github.com/sirupsen/logrus"

	internalopts "github.com/XBigRiceH/SeawardSuperStringParser/internal/options"
	"github.com/XBigRiceH/SeawardSuperStringParser/internal/records"
)

// DecodeOptions configures decoding.
type DecodeOptions struct {
	// MaxHeaderScan bounds the search for the separator between a test
	// result header and its sub-records. Zero selects the default of 1024
	// bytes; a negative value scans to the end of the payload.
	MaxHeaderScan int
	// Logger receives per-frame debug output and warnings. Defaults to the
	// logger stored in the context, or none.
	Logger logrus.FieldLogger
	// Observer, if set, is notified of frames, records and errors.
	Observer Observer
}

// Observer receives decode statistics.
type Observer interface {
	ObserveFrame(payloadLen int, recovered bool)
	ObserveRecord(kind string)
	ObserveSubResult(kind string)
	ObserveError(kind string)
}

func (opts DecodeOptions) scanOptions() records.ScanOptions {
	switch {
	case opts.MaxHeaderScan < 0:
		return records.ScanOptions{}
	case opts.MaxHeaderScan == 0:
		return records.DefaultScanOptions()
	default:
		return records.ScanOptions{MaxHeaderScan: opts.MaxHeaderScan}
	}
}

func (opts DecodeOptions) toInternal(ctx context.Context) context.Context {
	ctx = internalopts.WithLogger(ctx, opts.Logger)
	return internalopts.WithScanOptions(ctx, opts.scanOptions())
}

type nopObserver struct{}

func (nopObserver) ObserveFrame(int, bool)  {}
func (nopObserver) ObserveRecord(string)    {}
func (nopObserver) ObserveSubResult(string) {}
func (nopObserver) ObserveError(string)     {}

func (opts DecodeOptions) observer() Observer {
	if opts.Observer == nil {
		return nopObserver{}
	}
	return opts.Observer
}
