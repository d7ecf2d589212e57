package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/oews-cli/internal/model"
)

func TestWriteFlatCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteFlatCSV(&buf, []model.FlatRecord{
		rec("06", "110000", "04", ptr(78240.5)),
		rec("06", "110000", "13", nil),
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "series_id,state_code,occupation_code,datatype_code,year,value", lines[0])
	assert.Equal(t, "OEUS0600000011000004,06,110000,04,2023,78240.5", lines[1])
	assert.Equal(t, "OEUS0600000011000013,06,110000,13,2023,", lines[2])
}

func TestWriteFlatCSV_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFlatCSV(&buf, nil))
	assert.Equal(t, "series_id,state_code,occupation_code,datatype_code,year,value\n", buf.String())
}

func TestWriteFlatCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.csv")
	require.NoError(t, WriteFlatCSVFile(path, []model.FlatRecord{rec("06", "110000", "04", ptr(1))}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "OEUS0600000011000004")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should be cleaned up")
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "", FormatValue(nil))
	assert.Equal(t, "12", FormatValue(ptr(12)))
	assert.Equal(t, "12.25", FormatValue(ptr(12.25)))
}

func TestWriteWideXLSX(t *testing.T) {
	table := Pivot(Label([]model.FlatRecord{
		rec("06", "110000", "04", ptr(150000)),
		rec("36", "110000", "13", ptr(140000)),
	}, testLabels()))

	path := filepath.Join(t.TempDir(), "wide.xlsx")
	require.NoError(t, WriteWideXLSX(path, table))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)
	sheet := f.Sheets[0]
	assert.Equal(t, "OEWS", sheet.Name)
	require.Len(t, sheet.Rows, 3)

	header := sheet.Rows[0]
	require.Len(t, header.Cells, 4)
	assert.Equal(t, "state_name", header.Cells[0].String())
	assert.Equal(t, "Annual mean wage", header.Cells[2].String())
	assert.Equal(t, "Annual median wage", header.Cells[3].String())

	first := sheet.Rows[1]
	assert.Equal(t, "California", first.Cells[0].String())
	assert.Equal(t, "150000", first.Cells[2].Value)
}

func TestWritePreview(t *testing.T) {
	table := Pivot(Label([]model.FlatRecord{
		rec("06", "110000", "04", ptr(150000)),
		rec("06", "150000", "04", nil),
		rec("36", "110000", "04", ptr(1)),
	}, testLabels()))

	var buf bytes.Buffer
	WritePreview(&buf, table, 2)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "STATE")
	assert.Contains(t, lines[0], "Annual mean wage")
	assert.Contains(t, lines[1], "Computer")
	assert.Contains(t, lines[1], "-")
	assert.Contains(t, lines[2], "Management")
	assert.NotContains(t, buf.String(), "New York")
}

func TestWritePreview_Disabled(t *testing.T) {
	var buf bytes.Buffer
	WritePreview(&buf, &WideTable{Columns: []string{"x"}}, 0)
	assert.Empty(t, buf.String())
}
