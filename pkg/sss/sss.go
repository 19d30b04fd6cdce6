package sss

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"

	"github.com/XBigRiceH/SeawardSuperStringParser/internal/driver"
	"github.com/XBigRiceH/SeawardSuperStringParser/internal/frame"
	internalopts "github.com/XBigRiceH/SeawardSuperStringParser/internal/options"
	"github.com/XBigRiceH/SeawardSuperStringParser/internal/records"
)

// Decoded record types.
type (
	Record             = records.Record
	MachineInfo        = records.MachineInfo
	TestResult         = records.TestResult
	VisualTestResult   = records.VisualTestResult
	PhysicalTestResult = records.PhysicalTestResult
	PhysicalKind       = records.PhysicalKind
	ValueWithUnit      = records.ValueWithUnit
	Flag               = records.Flag
	FlagSet            = records.FlagSet
)

// Result captures the outcome of decoding one .sss stream.
type Result struct {
	MachineInfo *MachineInfo
	TestResults []*TestResult
	Frames      int
	Recovered   int
	// Warnings holds recoverable errors; the affected records are still in
	// TestResults, marked Truncated.
	Warnings []error
}

// Document is the serialisable form of a Result.
type Document struct {
	MachineInfo *MachineInfo  `json:"machine_info" yaml:"machine_info"`
	TestResults []*TestResult `json:"test_results" yaml:"test_results"`
	Frames      int           `json:"frames" yaml:"frames"`
	Recovered   int           `json:"checksum_recoveries" yaml:"checksum_recoveries"`
	Warnings    []string      `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Document converts the result for JSON or YAML output.
func (r Result) Document() Document {
	doc := Document{
		MachineInfo: r.MachineInfo,
		TestResults: r.TestResults,
		Frames:      r.Frames,
		Recovered:   r.Recovered,
	}
	if doc.TestResults == nil {
		doc.TestResults = []*TestResult{}
	}
	for _, w := range r.Warnings {
		doc.Warnings = append(doc.Warnings, w.Error())
	}
	return doc
}

// String renders a short human-readable summary.
func (r Result) String() string {
	summary := map[string]any{
		"frames":       r.Frames,
		"test_results": len(r.TestResults),
		"warnings":     len(r.Warnings),
	}
	if r.MachineInfo != nil {
		summary["machine_model"] = r.MachineInfo.Model
		summary["machine_serial_number"] = r.MachineInfo.SerialNumber
	}
	if r.Recovered > 0 {
		summary["checksum_recoveries"] = r.Recovered
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Sprintf("frames:%d test_results:%d (marshal error: %v)", r.Frames, len(r.TestResults), err)
	}
	return string(data)
}

// Decoder reads records from a .sss stream one at a time.
type Decoder struct {
	fr        *frame.Reader
	opts      DecodeOptions
	obs       Observer
	frames    int
	recovered int
	done      bool
	err       error
}

// NewDecoder returns a decoder reading from r.
func NewDecoder(r io.Reader, opts DecodeOptions) *Decoder {
	return &Decoder{
		fr:   frame.NewReader(r),
		opts: opts,
		obs:  opts.observer(),
	}
}

// Offset returns the number of stream bytes consumed.
func (d *Decoder) Offset() int64 { return d.fr.Offset() }

// Next decodes the next record. It returns io.EOF once the terminal record
// has been read. A recoverable error is returned together with the partial
// record it affected; any other error ends the stream.
func (d *Decoder) Next(ctx context.Context) (Record, error) {
	if d.done {
		if d.err != nil {
			return nil, d.err
		}
		return nil, io.EOF
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx = d.opts.toInternal(ctx)
	log := internalopts.Logger(ctx)

	f, err := d.fr.ReadFrame()
	if err == io.EOF {
		err = fmt.Errorf("%w at offset %d", ErrMissingTerminal, d.fr.Offset())
	}
	if err != nil {
		return nil, d.fail(err)
	}
	d.frames++
	if f.Recovered {
		d.recovered++
	}
	d.obs.ObserveFrame(len(f.Payload), f.Recovered)
	entry := log.WithFields(logrus.Fields{"offset": f.Offset, "length": f.Length})
	if f.Recovered {
		entry.Debug("record length one byte short, checksum recovered")
	} else {
		entry.Debug("found record")
	}

	if len(f.Payload) == 0 {
		return nil, d.fail(&frame.Error{Offset: f.Offset, Reason: "empty payload", Err: ErrFraming})
	}
	if driver.IsTerminal(f.Payload) {
		d.done = true
		return nil, io.EOF
	}
	drv, err := driver.Lookup(f.Payload[0])
	if err != nil {
		return nil, d.fail(&RecordError{Offset: f.PayloadOffset(), Record: "frame", Err: err})
	}
	rec, err := drv.Decode(f.Payload[1:], internalopts.ScanOptions(ctx))
	if err != nil {
		err = &RecordError{Offset: f.PayloadOffset() + 1, Record: drv.Name(), Err: err}
		if rec == nil || !IsRecoverable(err) {
			return nil, d.fail(err)
		}
		d.obs.ObserveError(errorKind(err))
		log.WithError(err).Warn("test result truncated, keeping decoded sub-results")
	}
	d.observeRecord(drv.Name(), rec)
	entry.WithField("record", drv.Name()).Debug("record decoded")
	return rec, err
}

func (d *Decoder) fail(err error) error {
	d.done = true
	d.err = err
	d.obs.ObserveError(errorKind(err))
	return err
}

func (d *Decoder) observeRecord(name string, rec Record) {
	d.obs.ObserveRecord(name)
	tr, ok := rec.(*TestResult)
	if !ok {
		return
	}
	for range tr.Visual {
		d.obs.ObserveSubResult("Visual")
	}
	for _, p := range tr.Physical {
		d.obs.ObserveSubResult(p.Kind().String())
	}
}

// Decode reads a whole stream up to its terminal record. On a fatal error
// the records decoded so far are returned alongside the error.
func Decode(ctx context.Context, r io.Reader, opts DecodeOptions) (Result, error) {
	dec := NewDecoder(r, opts)
	log := internalopts.Logger(opts.toInternal(ctx))
	var res Result
	for {
		rec, err := dec.Next(ctx)
		switch v := rec.(type) {
		case *MachineInfo:
			res.MachineInfo = v
		case *TestResult:
			res.TestResults = append(res.TestResults, v)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			if IsRecoverable(err) {
				res.Warnings = append(res.Warnings, err)
				continue
			}
			res.Frames, res.Recovered = dec.frames, dec.recovered
			return res, err
		}
	}
	res.Frames, res.Recovered = dec.frames, dec.recovered
	log.WithFields(logrus.Fields{
		"frames":   res.Frames,
		"warnings": len(res.Warnings),
	}).Infof("parsed %d test results", len(res.TestResults))
	return res, nil
}

// DecodeBytes decodes an in-memory .sss capture.
func DecodeBytes(ctx context.Context, data []byte, opts DecodeOptions) (Result, error) {
	return Decode(ctx, bytes.NewReader(data), opts)
}

// DecodeFile decodes the .sss file at path.
func DecodeFile(ctx context.Context, path string, opts DecodeOptions) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(ctx, f, opts)
}

// DecodeHex decodes a hex dump of a .sss stream. Whitespace, '|' and '_'
// separators are ignored.
func DecodeHex(ctx context.Context, raw string, opts DecodeOptions) (Result, error) {
	data, err := decodeHex(raw)
	if err != nil {
		return Result{}, err
	}
	return DecodeBytes(ctx, data, opts)
}

func decodeHex(input string) ([]byte, error) {
	clean := stripWhitespace(input)
	if strings.HasPrefix(clean, "0x") || strings.HasPrefix(clean, "0X") {
		clean = clean[2:]
	}
	if len(clean)%2 != 0 {
		return nil, fmt.Errorf("hex stream must contain an even number of digits, got %d", len(clean))
	}
	decoded := make([]byte, len(clean)/2)
	if _, err := hex.Decode(decoded, []byte(clean)); err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return decoded, nil
}

func stripWhitespace(s string) string {
	builder := strings.Builder{}
	builder.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || r == '|' || r == '_' {
			continue
		}
		builder.WriteRune(r)
	}
	return builder.String()
}
