package sss

import (
	"time"

	"github.com/XBigRiceH/SeawardSuperStringParser/internal/records"
)

// StatusInformation marks rows that carry a supporting reading rather than
// a judged result.
const StatusInformation = "INFORMATION"

// RowTimeFormat is used for the timestamp columns of a Row.
const RowTimeFormat = "2006-01-02 15:04:05"

// RowHeader names the columns of Row.Strings.
var RowHeader = []string{
	"Asset ID", "Site Name", "Location Name", "Test Time",
	"Test Operator", "Overall Result", "Program", "Comments",
	"Next Full Test Date", "Next Formal Visual Test Date",
	"Test Type", "Result", "Unit", "Status",
}

// Row is one line of a test report. The appliance columns are filled on the
// first row of each test result and left empty on the rows that follow.
type Row struct {
	AssetID                  string `json:"asset_id"`
	SiteName                 string `json:"site_name"`
	LocationName             string `json:"location_name"`
	TestTime                 string `json:"test_time"`
	TestOperator             string `json:"test_operator"`
	OverallStatus            string `json:"overall_status"`
	Program                  string `json:"program"`
	Comments                 string `json:"comments"`
	NextFullTestDate         string `json:"next_full_test_date"`
	NextFormalVisualTestDate string `json:"next_formal_visual_test_date"`
	TestType                 string `json:"test_type"`
	Result                   string `json:"result"`
	Unit                     string `json:"unit"`
	Status                   string `json:"status"`

	// First marks the first row of a test result; Failed marks a failed
	// judged reading.
	First  bool `json:"first"`
	Failed bool `json:"failed"`
}

// Strings returns the row in RowHeader order.
func (r Row) Strings() []string {
	return []string{
		r.AssetID, r.SiteName, r.LocationName, r.TestTime,
		r.TestOperator, r.OverallStatus, r.Program, r.Comments,
		r.NextFullTestDate, r.NextFormalVisualTestDate,
		r.TestType, r.Result, r.Unit, r.Status,
	}
}

// Rows flattens every test result of res into report rows: visual results
// first, then physical results in wire order.
func Rows(res Result) []Row {
	var rows []Row
	for _, tr := range res.TestResults {
		rows = append(rows, TestResultRows(tr)...)
	}
	return rows
}

// TestResultRows flattens one test result.
func TestResultRows(tr *TestResult) []Row {
	var rows []Row
	add := func(testType, result, unit, status string) {
		rows = append(rows, Row{
			TestType: testType,
			Result:   result,
			Unit:     unit,
			Status:   status,
			Failed:   status == records.FlagFail.String(),
		})
	}
	for _, v := range tr.Visual {
		add(v.Name, v.Value(), v.Unit, v.Status().String())
	}
	for _, p := range tr.Physical {
		status := p.Status().String()
		switch v := p.(type) {
		case records.EarthResistance:
			add(v.Kind().String(), v.Value(), v.Resistance.Unit, status)
		case records.IECLeadContinuity:
			add(v.Kind().String(), v.Value(), v.Resistance.Unit, status)
		case records.PointToPoint:
			add(v.Kind().String(), v.Value(), v.Resistance.Unit, status)
		case records.Insulation:
			add(v.Kind().String(), v.Value(), v.Resistance.Unit, status)
			add("Insulation Voltage", records.FormatNumber(v.Voltage.Value), v.Voltage.Unit, StatusInformation)
		case records.SubstituteLeakage:
			add(v.Kind().String(), v.Value(), v.Current.Unit, status)
		case records.Polarity:
			add(v.Kind().String(), v.Value(), "", status)
		case records.MainVoltage:
			add(v.Kind().String(), v.Value(), v.Voltage.Unit, status)
		case records.TouchOrLeakageCurrent:
			add("Touch Or Leakage Test Load Current", records.FormatNumber(v.LoadCurrent.Value), v.LoadCurrent.Unit, status)
			add("Touch Or Leakage Test Leakage Current", records.FormatNumber(v.LeakageCurrent.Value), v.LeakageCurrent.Unit, status)
		case records.RCD:
			add("RCD Test Current", records.FormatNumber(v.TestCurrent.Value), v.TestCurrent.Unit, StatusInformation)
			add("RCD Test Circle Angle", records.FormatNumber(v.CircleAngle.Value), v.CircleAngle.Unit, StatusInformation)
			add("RCD Test Trip time", v.Value(), v.TripTime.Unit, status)
		case records.StringComment:
			add(v.Text, "", "", status)
		}
	}
	if len(rows) == 0 {
		rows = append(rows, Row{})
	}
	first := &rows[0]
	first.First = true
	first.AssetID = tr.AssetID
	first.SiteName = tr.SiteName
	first.LocationName = tr.LocationName
	first.TestTime = formatTime(tr.TestTime)
	first.TestOperator = tr.TestOperator
	first.OverallStatus = tr.Status().String()
	first.Program = tr.Program
	first.Comments = tr.Comments
	first.NextFullTestDate = formatTime(tr.NextFullTestDate)
	first.NextFormalVisualTestDate = formatTime(tr.NextFormalVisualTestDate)
	return rows
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(RowTimeFormat)
}
