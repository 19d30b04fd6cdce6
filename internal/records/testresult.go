package records

import (
	"encoding/json"
	"fmt"
	"time"
)

// TagSeparator ends the fixed test result header.
const TagSeparator byte = 0xFE

// trailerLen bytes at the end of a test result payload are not interpreted.
const trailerLen = 2

// TestResult is the record of one appliance test: identity, schedule and the
// visual and physical sub-results in wire order.
type TestResult struct {
	Flags                    FlagSet            `json:"flags" yaml:"flags"`
	AssetID                  string             `json:"asset_id" yaml:"asset_id"`
	SiteName                 string             `json:"site_name" yaml:"site_name"`
	LocationName             string             `json:"location_name" yaml:"location_name"`
	TestTime                 time.Time          `json:"test_time" yaml:"test_time"`
	TestOperator             string             `json:"test_operator" yaml:"test_operator"`
	Comments                 string             `json:"comments" yaml:"comments"`
	NextFullTestDate         time.Time          `json:"next_full_test_date" yaml:"next_full_test_date"`
	Program                  string             `json:"program" yaml:"program"`
	NextFormalVisualTestDate time.Time          `json:"next_formal_visual_test_date" yaml:"next_formal_visual_test_date"`
	Visual                   []VisualTestResult `json:"visual_test_results" yaml:"visual_test_results"`
	Physical                 PhysicalResults    `json:"physical_test_results" yaml:"physical_test_results"`
	// Truncated is set when the sub-record list could not be read to its end.
	Truncated bool `json:"truncated,omitempty" yaml:"truncated,omitempty"`
}

// RecordType implements Record.
func (*TestResult) RecordType() byte { return TypeTestResult }

// Status returns the first flag of the record in decode order. Unlike the
// sub-results it does not apply the FAIL > PASS priority.
func (t *TestResult) Status() Flag {
	return t.Flags.First()
}

// Failed reports whether any sub-result failed.
func (t *TestResult) Failed() bool {
	for _, v := range t.Visual {
		if v.Status() == FlagFail {
			return true
		}
	}
	for _, p := range t.Physical {
		if p.Status() == FlagFail {
			return true
		}
	}
	return false
}

// DecodeTestResult decodes a test result payload (without its type tag).
//
// When the sub-record list holds an unknown tag, or a sub-record runs past
// the payload, decoding stops there: the returned record keeps the
// sub-results read so far, is marked Truncated, and the error wraps
// ErrTruncatedSubRecord. Any other error leaves the record nil.
func DecodeTestResult(payload []byte, opts ScanOptions) (*TestResult, error) {
	c := NewCursor(payload)
	t, err := decodeHeader(c)
	if err != nil {
		return nil, err
	}
	if err := seekSeparator(c, opts.MaxHeaderScan); err != nil {
		return nil, err
	}

	for c.Remaining() > trailerLen {
		tagOffset := c.Offset()
		tag, err := c.Uint8()
		if err != nil {
			return nil, err
		}
		if tag == TagVisual {
			body, err := c.Read(VisualLen)
			if err != nil {
				return t.truncate(tagOffset, tag, "visual sub-record runs past payload")
			}
			v, err := DecodeVisual(NewCursor(body))
			if err != nil {
				return nil, err
			}
			t.Visual = append(t.Visual, v)
			continue
		}
		kind := PhysicalKind(tag)
		n, ok := kind.Len()
		if !ok {
			return t.truncate(tagOffset, tag, "unrecognised sub-record tag")
		}
		body, err := c.Read(n)
		if err != nil {
			return t.truncate(tagOffset, tag, fmt.Sprintf("%s sub-record runs past payload", kind))
		}
		p, err := DecodePhysical(kind, NewCursor(body))
		if err != nil {
			return nil, err
		}
		t.Physical = append(t.Physical, p)
	}
	return t, nil
}

func (t *TestResult) truncate(offset int, tag byte, reason string) (*TestResult, error) {
	t.Truncated = true
	return t, &OffsetError{Offset: offset, Value: int(tag), Reason: reason, Err: ErrTruncatedSubRecord}
}

func decodeHeader(c *Cursor) (*TestResult, error) {
	t := &TestResult{}
	var err error
	if t.Flags, err = c.Flags(); err != nil {
		return nil, err
	}
	if t.AssetID, err = c.String(16); err != nil {
		return nil, err
	}
	if err = c.Skip(64); err != nil {
		return nil, err
	}
	if t.SiteName, err = c.String(16); err != nil {
		return nil, err
	}
	if t.LocationName, err = c.String(16); err != nil {
		return nil, err
	}
	if t.TestTime, err = readTimestamp(c); err != nil {
		return nil, err
	}
	if t.TestOperator, err = c.String(16); err != nil {
		return nil, err
	}
	if t.Comments, err = c.String(128); err != nil {
		return nil, err
	}
	if err = c.Skip(1); err != nil {
		return nil, err
	}
	months, err := c.Uint8()
	if err != nil {
		return nil, err
	}
	t.NextFullTestDate = AddMonths(t.TestTime, int(months))
	if t.Program, err = c.String(30); err != nil {
		return nil, err
	}
	if months, err = c.Uint8(); err != nil {
		return nil, err
	}
	t.NextFormalVisualTestDate = AddMonths(t.TestTime, int(months))
	if err = c.Skip(15); err != nil {
		return nil, err
	}
	return t, nil
}

// seekSeparator discards bytes up to and including the 0xFE separator. The
// instrument does not bound this gap, so limit caps how far the scan may go.
func seekSeparator(c *Cursor, limit int) error {
	start := c.Offset()
	for scanned := 0; limit <= 0 || scanned < limit; scanned++ {
		if c.Remaining() == 0 {
			return &OffsetError{Offset: c.Offset(), Value: scanned, Reason: "payload ended while scanning for separator", Err: ErrSentinelNotFound}
		}
		b, _ := c.Uint8()
		if b == TagSeparator {
			return nil
		}
	}
	return &OffsetError{Offset: start, Value: limit, Reason: "separator not within scan limit", Err: ErrSentinelNotFound}
}

// readTimestamp reads hour, minute, second, day, month as single bytes and
// then a little-endian year.
func readTimestamp(c *Cursor) (time.Time, error) {
	start := c.Offset()
	var parts [5]uint8
	for i := range parts {
		v, err := c.Uint8()
		if err != nil {
			return time.Time{}, err
		}
		parts[i] = v
	}
	year, err := c.Uint16()
	if err != nil {
		return time.Time{}, err
	}
	hour, minute, second, day, month := int(parts[0]), int(parts[1]), int(parts[2]), int(parts[3]), int(parts[4])
	if year == 0 || month < 1 || month > 12 || day < 1 || day > daysIn(time.Month(month), int(year)) ||
		hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, &OffsetError{
			Offset: start,
			Value:  int(year),
			Reason: fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d", year, month, day, hour, minute, second),
			Err:    ErrInvalidTimestamp,
		}
	}
	return time.Date(int(year), time.Month(month), day, hour, minute, second, 0, time.UTC), nil
}

// AddMonths adds calendar months, clamping the day to the end of the target
// month (Jan 31 + 1 month is the last day of February).
func AddMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	total := int(m) - 1 + months
	y += total / 12
	month := time.Month(total%12 + 1)
	if last := daysIn(month, y); d > last {
		d = last
	}
	return time.Date(y, month, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// PhysicalResults keeps physical sub-results in wire order and serialises
// each with its kind, since the variants share no common fields.
type PhysicalResults []PhysicalTestResult

type physicalEntry struct {
	Kind   string             `json:"kind" yaml:"kind"`
	Tag    string             `json:"tag" yaml:"tag"`
	Status Flag               `json:"status" yaml:"status"`
	Value  string             `json:"value" yaml:"value"`
	Detail PhysicalTestResult `json:"detail" yaml:"detail"`
}

func (p PhysicalResults) entries() []physicalEntry {
	out := make([]physicalEntry, 0, len(p))
	for _, r := range p {
		out = append(out, physicalEntry{
			Kind:   r.Kind().String(),
			Tag:    fmt.Sprintf("0x%02X", byte(r.Kind())),
			Status: r.Status(),
			Value:  r.Value(),
			Detail: r,
		})
	}
	return out
}

// MarshalJSON implements json.Marshaler.
func (p PhysicalResults) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.entries())
}

// MarshalYAML implements yaml.Marshaler.
func (p PhysicalResults) MarshalYAML() (any, error) {
	return p.entries(), nil
}
