package records

import "fmt"

// PhysicalKind is the sub-record tag of an electrical test.
type PhysicalKind byte

const (
	KindEarthResistance       PhysicalKind = 0x11
	KindIECLeadContinuity     PhysicalKind = 0x16
	KindPointToPoint          PhysicalKind = 0x18
	KindInsulation            PhysicalKind = 0x20
	KindSubstituteLeakage     PhysicalKind = 0x83
	KindPolarity              PhysicalKind = 0x91
	KindMainVoltage           PhysicalKind = 0x92
	KindTouchOrLeakageCurrent PhysicalKind = 0x96
	KindRCD                   PhysicalKind = 0x9A
	KindStringComment         PhysicalKind = 0xFC
)

// Units of physical readings. They are implied by the sub-record kind and
// never stored on the wire.
const (
	UnitOhm      = "ohm"
	UnitVolt     = "v"
	UnitMilliAmp = "ma"
	UnitDegree   = "deg"
	UnitMilliSec = "ms"
	UnitMegaOhm  = "mohm"
)

// PolarityReversed is the value reported by a failed polarity test.
const PolarityReversed = "Live / Neutral Reversed"

// PhysicalKinds lists every known kind in tag order.
var PhysicalKinds = []PhysicalKind{
	KindEarthResistance,
	KindIECLeadContinuity,
	KindPointToPoint,
	KindInsulation,
	KindSubstituteLeakage,
	KindPolarity,
	KindMainVoltage,
	KindTouchOrLeakageCurrent,
	KindRCD,
	KindStringComment,
}

// Len returns the fixed body length of the kind, or false for unknown tags.
func (k PhysicalKind) Len() (int, bool) {
	switch k {
	case KindPolarity:
		return 1, true
	case KindEarthResistance, KindIECLeadContinuity, KindPointToPoint,
		KindSubstituteLeakage, KindMainVoltage:
		return 3, true
	case KindInsulation:
		return 5, true
	case KindTouchOrLeakageCurrent, KindRCD:
		return 7, true
	case KindStringComment:
		return 87, true
	default:
		return 0, false
	}
}

func (k PhysicalKind) String() string {
	switch k {
	case KindEarthResistance:
		return "Earth Continuity"
	case KindIECLeadContinuity:
		return "IEC Lead Continuity"
	case KindPointToPoint:
		return "Point To Point Resistance"
	case KindInsulation:
		return "Insulation"
	case KindSubstituteLeakage:
		return "Substitute Leakage Current"
	case KindPolarity:
		return "IEC Lead Polarity"
	case KindMainVoltage:
		return "Main Voltage"
	case KindTouchOrLeakageCurrent:
		return "Touch Or Leakage Current"
	case KindRCD:
		return "RCD"
	case KindStringComment:
		return "Comment"
	default:
		return fmt.Sprintf("PhysicalKind(0x%02X)", byte(k))
	}
}

// ValueWithUnit is a reading and its physical unit.
type ValueWithUnit struct {
	Value float64 `json:"value" yaml:"value"`
	Unit  string  `json:"unit" yaml:"unit"`
}

func (v ValueWithUnit) String() string {
	return FormatNumber(v.Value) + " " + v.Unit
}

// PhysicalTestResult is one of the ten electrical test variants. The set is
// closed: only types in this package implement it.
type PhysicalTestResult interface {
	Kind() PhysicalKind
	// Status applies the FAIL > PASS > INFO > UNKNOWN priority.
	Status() Flag
	// Value is the headline reading as shown in reports.
	Value() string
	FlagSet() FlagSet
	isPhysical()
}

// Flagged carries the flags shared by every physical variant.
type Flagged struct {
	Flags FlagSet `json:"flags" yaml:"flags"`
}

func (f Flagged) Status() Flag     { return f.Flags.Status() }
func (f Flagged) FlagSet() FlagSet { return f.Flags }
func (Flagged) isPhysical()        {}

type EarthResistance struct {
	Resistance ValueWithUnit `json:"resistance" yaml:"resistance"`
	Flagged    `yaml:",inline"`
}

func (EarthResistance) Kind() PhysicalKind { return KindEarthResistance }
func (r EarthResistance) Value() string    { return r.Flags.FormatValue(r.Resistance.Value) }

type IECLeadContinuity struct {
	Resistance ValueWithUnit `json:"resistance" yaml:"resistance"`
	Flagged    `yaml:",inline"`
}

func (IECLeadContinuity) Kind() PhysicalKind { return KindIECLeadContinuity }
func (r IECLeadContinuity) Value() string    { return r.Flags.FormatValue(r.Resistance.Value) }

type PointToPoint struct {
	Resistance ValueWithUnit `json:"resistance" yaml:"resistance"`
	Flagged    `yaml:",inline"`
}

func (PointToPoint) Kind() PhysicalKind { return KindPointToPoint }
func (r PointToPoint) Value() string    { return r.Flags.FormatValue(r.Resistance.Value) }

// Insulation reports resistance at a test voltage; the voltage is
// informational.
type Insulation struct {
	Voltage    ValueWithUnit `json:"voltage" yaml:"voltage"`
	Resistance ValueWithUnit `json:"resistance" yaml:"resistance"`
	Flagged    `yaml:",inline"`
}

func (Insulation) Kind() PhysicalKind { return KindInsulation }
func (r Insulation) Value() string    { return r.Flags.FormatValue(r.Resistance.Value) }

type SubstituteLeakage struct {
	Current ValueWithUnit `json:"current" yaml:"current"`
	Flagged `yaml:",inline"`
}

func (SubstituteLeakage) Kind() PhysicalKind { return KindSubstituteLeakage }
func (r SubstituteLeakage) Value() string    { return r.Flags.FormatValue(r.Current.Value) }

type Polarity struct {
	Flagged `yaml:",inline"`
}

func (Polarity) Kind() PhysicalKind { return KindPolarity }

func (r Polarity) Value() string {
	if r.Flags.Has(FlagFail) {
		return PolarityReversed
	}
	return ""
}

type MainVoltage struct {
	Voltage ValueWithUnit `json:"voltage" yaml:"voltage"`
	Flagged `yaml:",inline"`
}

func (MainVoltage) Kind() PhysicalKind { return KindMainVoltage }
func (r MainVoltage) Value() string    { return r.Flags.FormatValue(r.Voltage.Value) }

// TouchOrLeakageCurrent has no single headline value; both currents are
// reported on their own.
type TouchOrLeakageCurrent struct {
	LoadCurrent    ValueWithUnit `json:"load_current" yaml:"load_current"`
	LeakageCurrent ValueWithUnit `json:"leakage_current" yaml:"leakage_current"`
	Flagged        `yaml:",inline"`
}

func (TouchOrLeakageCurrent) Kind() PhysicalKind { return KindTouchOrLeakageCurrent }
func (TouchOrLeakageCurrent) Value() string      { return "" }

// RCD reports the trip time; test current and angle are informational.
type RCD struct {
	TestCurrent ValueWithUnit `json:"test_current" yaml:"test_current"`
	CircleAngle ValueWithUnit `json:"circle_angle" yaml:"circle_angle"`
	TripTime    ValueWithUnit `json:"trip_time" yaml:"trip_time"`
	Flagged     `yaml:",inline"`
}

func (RCD) Kind() PhysicalKind { return KindRCD }
func (r RCD) Value() string    { return r.Flags.FormatValue(r.TripTime.Value) }

// StringComment is free text entered on the instrument.
type StringComment struct {
	Text    string `json:"text" yaml:"text"`
	Flagged `yaml:",inline"`
}

func (StringComment) Kind() PhysicalKind { return KindStringComment }
func (StringComment) Value() string      { return "" }

// DecodePhysical decodes the body of a physical sub-record of the given kind.
// The cursor must hold at least kind.Len() bytes.
func DecodePhysical(kind PhysicalKind, c *Cursor) (PhysicalTestResult, error) {
	switch kind {
	case KindEarthResistance:
		v, f, err := readReading(c, UnitOhm)
		return EarthResistance{Resistance: v, Flagged: f}, err
	case KindIECLeadContinuity:
		v, f, err := readReading(c, UnitOhm)
		return IECLeadContinuity{Resistance: v, Flagged: f}, err
	case KindPointToPoint:
		v, f, err := readReading(c, UnitOhm)
		return PointToPoint{Resistance: v, Flagged: f}, err
	case KindInsulation:
		voltage, err := readValue(c, UnitVolt)
		if err != nil {
			return nil, err
		}
		v, f, err := readReading(c, UnitMegaOhm)
		return Insulation{Voltage: voltage, Resistance: v, Flagged: f}, err
	case KindSubstituteLeakage:
		v, f, err := readReading(c, UnitMilliAmp)
		return SubstituteLeakage{Current: v, Flagged: f}, err
	case KindPolarity:
		flags, err := c.Flags()
		return Polarity{Flagged: Flagged{Flags: flags}}, err
	case KindMainVoltage:
		v, f, err := readReading(c, UnitVolt)
		return MainVoltage{Voltage: v, Flagged: f}, err
	case KindTouchOrLeakageCurrent:
		load, err := readValue(c, UnitMilliAmp)
		if err != nil {
			return nil, err
		}
		if err := c.Skip(2); err != nil {
			return nil, err
		}
		v, f, err := readReading(c, UnitMilliAmp)
		return TouchOrLeakageCurrent{LoadCurrent: load, LeakageCurrent: v, Flagged: f}, err
	case KindRCD:
		current, err := readValue(c, UnitMilliAmp)
		if err != nil {
			return nil, err
		}
		angle, err := readValue(c, UnitDegree)
		if err != nil {
			return nil, err
		}
		v, f, err := readReading(c, UnitMilliSec)
		return RCD{TestCurrent: current, CircleAngle: angle, TripTime: v, Flagged: f}, err
	case KindStringComment:
		text, err := c.String(86)
		if err != nil {
			return nil, err
		}
		flags, err := c.Flags()
		return StringComment{Text: text, Flagged: Flagged{Flags: flags}}, err
	default:
		return nil, &OffsetError{Offset: c.Offset(), Value: int(kind), Reason: "unknown physical test kind", Err: ErrTruncatedSubRecord}
	}
}

func readValue(c *Cursor, unit string) (ValueWithUnit, error) {
	v, err := c.Float16()
	return ValueWithUnit{Value: v, Unit: unit}, err
}

// readReading reads the final float16 of a variant followed by its flag byte.
func readReading(c *Cursor, unit string) (ValueWithUnit, Flagged, error) {
	v, err := readValue(c, unit)
	if err != nil {
		return v, Flagged{}, err
	}
	flags, err := c.Flags()
	return v, Flagged{Flags: flags}, err
}
