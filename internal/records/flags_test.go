package records

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeFlags(t *testing.T) {
	cases := []struct {
		b    byte
		want FlagSet
	}{
		{0x00, FlagSet{FlagInfo}},
		{0x01, FlagSet{FlagPass}},
		{0x02, FlagSet{FlagFail}},
		{0x03, FlagSet{FlagFail, FlagPass}},
		{0x20, FlagSet{FlagGreaterThan, FlagInfo}},
		{0x10, FlagSet{FlagLessThan, FlagInfo}},
		{0x21, FlagSet{FlagGreaterThan, FlagPass}},
		{0x12, FlagSet{FlagLessThan, FlagFail}},
		{0x04, FlagSet{FlagInfo}},
		{0x80, FlagSet{FlagInfo}},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, DecodeFlags(tc.b), "byte 0x%02X", tc.b)
	}
}

func TestFlagSetStatusPriority(t *testing.T) {
	require.Equal(t, FlagFail, DecodeFlags(0x03).Status())
	require.Equal(t, FlagPass, DecodeFlags(0x21).Status())
	require.Equal(t, FlagInfo, DecodeFlags(0x20).Status())
	require.Equal(t, FlagUnknown, FlagSet{}.Status())
	require.Equal(t, FlagUnknown, FlagSet{FlagGreaterThan}.Status())
}

func TestFlagSetFirst(t *testing.T) {
	require.Equal(t, FlagGreaterThan, DecodeFlags(0x22).First())
	require.Equal(t, FlagFail, DecodeFlags(0x03).First())
	require.Equal(t, FlagUnknown, FlagSet(nil).First())
}

func TestFormatValue(t *testing.T) {
	require.Equal(t, "> 19.99", DecodeFlags(0x21).FormatValue(19.99))
	require.Equal(t, "< 0.01", DecodeFlags(0x11).FormatValue(0.01))
	require.Equal(t, "> 2.0", DecodeFlags(0x30).FormatValue(2))
	require.Equal(t, "0.5", DecodeFlags(0x01).FormatValue(0.5))
	require.Equal(t, "18.0", FormatNumber(18))
	require.Equal(t, "0.0", FormatNumber(0))
	require.Equal(t, "230.0", FormatNumber(230))
}

func TestFlagText(t *testing.T) {
	data, err := json.Marshal(DecodeFlags(0x22))
	require.NoError(t, err)
	require.JSONEq(t, `["RESULT_GREATER_THAN","FAIL"]`, string(data))

	var fs FlagSet
	require.NoError(t, json.Unmarshal([]byte(`["PASS","RESULT_LESS_THAN"]`), &fs))
	require.Equal(t, FlagSet{FlagPass, FlagLessThan}, fs)

	var f Flag
	require.Error(t, f.UnmarshalText([]byte("MAYBE")))
	require.Equal(t, "[FAIL PASS]", DecodeFlags(0x03).String())
}
