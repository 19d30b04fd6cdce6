package options

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/XBigRiceH/SeawardSuperStringParser/internal/records"
)

type loggerKey struct{}

type scanKey struct{}

var discard = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

// WithLogger stores the logger decoders should report to.
func WithLogger(ctx context.Context, log logrus.FieldLogger) context.Context {
	if log == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerKey{}, log)
}

// Logger retrieves the logger from context, or one that discards output.
func Logger(ctx context.Context) logrus.FieldLogger {
	if v := ctx.Value(loggerKey{}); v != nil {
		if log, ok := v.(logrus.FieldLogger); ok {
			return log
		}
	}
	return discard
}

// WithScanOptions stores record scan bounds inside the context.
func WithScanOptions(ctx context.Context, opts records.ScanOptions) context.Context {
	return context.WithValue(ctx, scanKey{}, opts)
}

// ScanOptions retrieves the scan bounds from context, falling back to the
// defaults.
func ScanOptions(ctx context.Context) records.ScanOptions {
	if v := ctx.Value(scanKey{}); v != nil {
		if opts, ok := v.(records.ScanOptions); ok {
			return opts
		}
	}
	return records.DefaultScanOptions()
}

// ValidateScanLimit rejects negative header scan limits.
func ValidateScanLimit(limit int) error {
	if limit < 0 {
		return fmt.Errorf("max header scan must be >= 0, got %d", limit)
	}
	return nil
}
