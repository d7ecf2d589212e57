package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/oews-cli/internal/bls"
	"github.com/sells-group/oews-cli/internal/model"
)

var testMeta = []model.SeriesMeta{
	{ID: "OEUS0600000000000011000004", AreaCode: "06", OccupationCode: "110000", DataTypeCode: "04"},
	{ID: "OEUS0600000000000011000013", AreaCode: "06", OccupationCode: "110000", DataTypeCode: "13"},
}

func TestRecords_UnavailableValue(t *testing.T) {
	raw := []bls.Series{{
		SeriesID: testMeta[0].ID,
		Data:     []bls.Observation{{Period: "A01", Year: "2023", Value: "-"}},
	}}

	recs, err := Records(NewIndex(testMeta), raw)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Nil(t, recs[0].Value)
	assert.False(t, recs[0].HasValue())
	assert.Equal(t, "2023", recs[0].Year)
	assert.Equal(t, "06", recs[0].AreaCode)
	assert.Equal(t, "110000", recs[0].OccupationCode)
	assert.Equal(t, "04", recs[0].DataTypeCode)
}

func TestRecords_NumericValue(t *testing.T) {
	raw := []bls.Series{{
		SeriesID: testMeta[1].ID,
		Data: []bls.Observation{
			{Period: "M13", Year: "2023", Value: "1"},
			{Period: "A01", Year: "2023", Value: "141,320"},
		},
	}}

	recs, err := Records(NewIndex(testMeta), raw)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.NotNil(t, recs[0].Value)
	assert.InDelta(t, 141320.0, *recs[0].Value, 0.001)
	assert.Equal(t, "13", recs[0].DataTypeCode)
}

func TestRecords_UnmatchedSeriesSkipped(t *testing.T) {
	raw := []bls.Series{{
		SeriesID: "OEUS9999999999999999999999",
		Data:     []bls.Observation{{Period: "A01", Year: "2023", Value: "100"}},
	}}

	recs, err := Records(NewIndex(testMeta), raw)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestRecords_NoAnnualSkipped(t *testing.T) {
	raw := []bls.Series{
		{SeriesID: testMeta[0].ID, Data: []bls.Observation{{Period: "M01", Year: "2023", Value: "5"}}},
		{SeriesID: testMeta[1].ID},
	}

	recs, err := Records(NewIndex(testMeta), raw)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestRecords_FirstAnnualWins(t *testing.T) {
	raw := []bls.Series{{
		SeriesID: testMeta[0].ID,
		Data: []bls.Observation{
			{Period: "A01", Year: "2024", Value: "200"},
			{Period: "A01", Year: "2023", Value: "100"},
		},
	}}

	recs, err := Records(NewIndex(testMeta), raw)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "2024", recs[0].Year)
	assert.InDelta(t, 200.0, *recs[0].Value, 0.001)
}

func TestRecords_ParseFailureIsFatal(t *testing.T) {
	raw := []bls.Series{
		{SeriesID: testMeta[0].ID, Data: []bls.Observation{{Period: "A01", Year: "2023", Value: "100"}}},
		{SeriesID: testMeta[1].ID, Data: []bls.Observation{{Period: "A01", Year: "2023", Value: "#"}}},
	}

	recs, err := Records(NewIndex(testMeta), raw)
	require.Error(t, err)
	assert.Nil(t, recs)
	assert.Contains(t, err.Error(), testMeta[1].ID)
}

func TestRecords_MalformedNumberIsFatal(t *testing.T) {
	for _, v := range []string{"12,,3,", "0x1p4"} {
		t.Run(v, func(t *testing.T) {
			raw := []bls.Series{
				{SeriesID: testMeta[0].ID, Data: []bls.Observation{{Period: "A01", Year: "2023", Value: v}}},
			}

			recs, err := Records(NewIndex(testMeta), raw)
			require.Error(t, err)
			assert.Nil(t, recs)
			assert.Contains(t, err.Error(), "reconcile: series "+testMeta[0].ID)
		})
	}
}

func TestRecords_PreservesOrder(t *testing.T) {
	raw := []bls.Series{
		{SeriesID: testMeta[1].ID, Data: []bls.Observation{{Period: "A01", Year: "2023", Value: "2"}}},
		{SeriesID: testMeta[0].ID, Data: []bls.Observation{{Period: "A01", Year: "2023", Value: "1"}}},
	}

	recs, err := Records(NewIndex(testMeta), raw)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, testMeta[1].ID, recs[0].SeriesID)
	assert.Equal(t, testMeta[0].ID, recs[1].SeriesID)
}

func TestNewIndex_FirstWins(t *testing.T) {
	idx := NewIndex([]model.SeriesMeta{
		{ID: "A", AreaCode: "first"},
		{ID: "A", AreaCode: "second"},
	})
	assert.Len(t, idx, 1)
	assert.Equal(t, "first", idx["A"].AreaCode)
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in      string
		want    *float64
		wantErr bool
	}{
		{"-", nil, false},
		{" - ", nil, false},
		{"12.5", ptr(12.5), false},
		{"1,234", ptr(1234), false},
		{"*", nil, true},
		{"", nil, true},
		{"abc", nil, true},
		{"1,234,567.25", ptr(1234567.25), false},
		{"-1,000", ptr(-1000), false},
		{"12,,3,", nil, true},
		{"1,23", nil, true},
		{"1234,567", nil, true},
		{",123", nil, true},
		{"0x1p4", nil, true},
		{"-0X10", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseValue(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 0.0001)
		})
	}
}

func ptr(f float64) *float64 { return &f }
