package records

import (
	"fmt"
	"strconv"
	"strings"
)

// Flag is one status or modifier bit of a test result.
type Flag uint8

const (
	FlagUnknown Flag = iota
	FlagPass
	FlagFail
	FlagInfo
	FlagGreaterThan
	FlagLessThan
)

var flagNames = map[Flag]string{
	FlagUnknown:     "UNKNOWN",
	FlagPass:        "PASS",
	FlagFail:        "FAIL",
	FlagInfo:        "INFO",
	FlagGreaterThan: "RESULT_GREATER_THAN",
	FlagLessThan:    "RESULT_LESS_THAN",
}

func (f Flag) String() string {
	if name, ok := flagNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Flag(%d)", uint8(f))
}

// MarshalText implements encoding.TextMarshaler.
func (f Flag) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Flag) UnmarshalText(b []byte) error {
	for flag, name := range flagNames {
		if name == string(b) {
			*f = flag
			return nil
		}
	}
	return fmt.Errorf("unknown flag %q", string(b))
}

// Bit masks of the flag byte; the instrument software counts bit positions
// from the MSB, so PASS is slot 7 and RESULT_GREATER_THAN slot 2.
const (
	maskPass        = 0x01
	maskFail        = 0x02
	maskLessThan    = 0x10
	maskGreaterThan = 0x20
)

// FlagSet holds the active flags in decode order.
type FlagSet []Flag

// DecodeFlags expands a flag byte. INFO is set whenever neither PASS nor
// FAIL is, so modifiers may appear alongside it.
func DecodeFlags(b byte) FlagSet {
	flags := make(FlagSet, 0, 3)
	if b&maskGreaterThan != 0 {
		flags = append(flags, FlagGreaterThan)
	}
	if b&maskLessThan != 0 {
		flags = append(flags, FlagLessThan)
	}
	if b&maskFail != 0 {
		flags = append(flags, FlagFail)
	}
	if b&maskPass != 0 {
		flags = append(flags, FlagPass)
	}
	if b&(maskPass|maskFail) == 0 {
		flags = append(flags, FlagInfo)
	}
	if len(flags) == 0 {
		flags = append(flags, FlagUnknown)
	}
	return flags
}

// Has reports whether f is active.
func (fs FlagSet) Has(f Flag) bool {
	for _, v := range fs {
		if v == f {
			return true
		}
	}
	return false
}

// Status applies the FAIL > PASS > INFO > UNKNOWN priority.
func (fs FlagSet) Status() Flag {
	switch {
	case fs.Has(FlagFail):
		return FlagFail
	case fs.Has(FlagPass):
		return FlagPass
	case fs.Has(FlagInfo):
		return FlagInfo
	default:
		return FlagUnknown
	}
}

// First returns the first flag in decode order.
func (fs FlagSet) First() Flag {
	if len(fs) == 0 {
		return FlagUnknown
	}
	return fs[0]
}

// FormatValue renders v with the threshold prefix implied by the modifiers.
func (fs FlagSet) FormatValue(v float64) string {
	switch {
	case fs.Has(FlagGreaterThan):
		return "> " + FormatNumber(v)
	case fs.Has(FlagLessThan):
		return "< " + FormatNumber(v)
	default:
		return FormatNumber(v)
	}
}

func (fs FlagSet) String() string {
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.String()
	}
	return "[" + strings.Join(names, " ") + "]"
}

// FormatNumber prints the shortest decimal form of v with at least one
// fractional digit, the way the instrument's own reports show readings.
func FormatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}
