package sss

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/XBigRiceH/SeawardSuperStringParser/internal/records"
	wire "github.com/XBigRiceH/SeawardSuperStringParser/internal/testutil"
)

func TestRowsGolden(t *testing.T) {
	fixtures := []string{"basic"}
	for _, name := range fixtures {
		t.Run(name, func(t *testing.T) {
			stream := wire.LoadHexBytes(t, "streams/"+name+".hex")
			res, err := DecodeBytes(context.Background(), stream, DecodeOptions{})
			require.NoError(t, err)

			var expected []Row
			wire.LoadJSON(t, "streams/"+name+"_rows.json", &expected)
			require.Equal(t, expected, Rows(res))
		})
	}
}

func TestRowsHeaderColumnsOnFirstRowOnly(t *testing.T) {
	res, err := DecodeBytes(context.Background(), wire.LoadHexBytes(t, "streams/basic.hex"), DecodeOptions{})
	require.NoError(t, err)
	rows := Rows(res)
	var firsts int
	for _, r := range rows {
		if r.First {
			firsts++
			require.NotEmpty(t, r.AssetID)
			continue
		}
		require.Empty(t, r.AssetID)
		require.Empty(t, r.TestTime)
		require.Empty(t, r.OverallStatus)
	}
	require.Equal(t, len(res.TestResults), firsts)
}

func TestTestResultRowsWithoutSubResults(t *testing.T) {
	tr := &TestResult{AssetID: "TEC-0009", Flags: records.FlagSet{records.FlagInfo}}
	rows := TestResultRows(tr)
	require.Len(t, rows, 1)
	require.True(t, rows[0].First)
	require.Equal(t, "TEC-0009", rows[0].AssetID)
	require.Equal(t, "INFO", rows[0].OverallStatus)
	require.Empty(t, rows[0].TestTime)
	require.Empty(t, rows[0].TestType)
}

func TestTestResultRowsSubstituteLeakageAndVoltage(t *testing.T) {
	tr := &TestResult{
		Flags: records.FlagSet{records.FlagFail},
		Physical: records.PhysicalResults{
			records.SubstituteLeakage{
				Current: ValueWithUnit{Value: 0.15, Unit: records.UnitMilliAmp},
				Flagged: records.Flagged{Flags: records.DecodeFlags(0x11)},
			},
			records.MainVoltage{
				Voltage: ValueWithUnit{Value: 230.1, Unit: records.UnitVolt},
				Flagged: records.Flagged{Flags: records.DecodeFlags(0x02)},
			},
		},
	}
	rows := TestResultRows(tr)
	require.Len(t, rows, 2)
	require.Equal(t, []string{"Substitute Leakage Current", "< 0.15", "ma", "PASS"}, rows[0].Strings()[10:])
	require.Equal(t, []string{"Main Voltage", "230.1", "v", "FAIL"}, rows[1].Strings()[10:])
	require.True(t, rows[1].Failed)
	require.Len(t, rows[0].Strings(), len(RowHeader))
}

func TestRowJSONFieldNames(t *testing.T) {
	data, err := json.Marshal(Row{TestType: "Insulation", Status: StatusInformation})
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	require.Equal(t, "Insulation", m["test_type"])
	require.Equal(t, "INFORMATION", m["status"])
}
