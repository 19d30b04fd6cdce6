package records

// TagVisual marks a visual inspection sub-record.
const TagVisual byte = 0xFD

// VisualLen is the body length of a visual sub-record.
const VisualLen = 35

// VisualTestResult is a named visual inspection outcome.
type VisualTestResult struct {
	Name   string  `json:"name" yaml:"name"`
	Unit   string  `json:"unit" yaml:"unit"`
	Result float64 `json:"result" yaml:"result"`
	Flags  FlagSet `json:"flags" yaml:"flags"`
}

// DecodeVisual decodes a visual sub-record body.
func DecodeVisual(c *Cursor) (VisualTestResult, error) {
	var v VisualTestResult
	var err error
	if v.Name, err = c.String(16); err != nil {
		return v, err
	}
	if v.Unit, err = c.String(16); err != nil {
		return v, err
	}
	if v.Result, err = c.Float16(); err != nil {
		return v, err
	}
	if v.Flags, err = c.Flags(); err != nil {
		return v, err
	}
	return v, nil
}

// Status applies the sub-result status priority.
func (v VisualTestResult) Status() Flag { return v.Flags.Status() }

// Value returns the reported reading. Visual checks without a unit are
// plain yes/no inspections and report no value.
func (v VisualTestResult) Value() string {
	if v.Unit == "" {
		return ""
	}
	return FormatNumber(v.Result)
}
