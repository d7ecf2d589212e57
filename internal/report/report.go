// Package report labels flat OEWS records and reshapes them into a wide
// (geography, occupation) × measure table.
package report

import (
	"sort"

	"github.com/sells-group/oews-cli/internal/catalog"
	"github.com/sells-group/oews-cli/internal/model"
)

// Labels holds the code sets used to resolve names.
type Labels struct {
	Areas       *catalog.CodeSet
	Occupations *catalog.CodeSet
	DataTypes   *catalog.CodeSet
}

// LabeledRecord is a FlatRecord with resolved names. Unmapped codes have
// empty names.
type LabeledRecord struct {
	model.FlatRecord
	AreaName       string
	OccupationName string
	DataTypeName   string
}

// Label resolves the names of every record.
func Label(records []model.FlatRecord, l Labels) []LabeledRecord {
	out := make([]LabeledRecord, len(records))
	for i, r := range records {
		out[i] = LabeledRecord{
			FlatRecord:     r,
			AreaName:       l.Areas.Name(r.AreaCode),
			OccupationName: l.Occupations.Name(r.OccupationCode),
			DataTypeName:   l.DataTypes.Name(r.DataTypeCode),
		}
	}
	return out
}

// WideRow is one (geography, occupation) row. Values align with
// WideTable.Columns; a nil entry is an empty cell.
type WideRow struct {
	AreaName       string
	OccupationName string
	Values         []*float64
}

// WideTable is the pivoted report.
type WideTable struct {
	Columns []string
	Rows    []WideRow
}

// Cell returns the value of column in row i, or nil.
func (t *WideTable) Cell(i int, column string) *float64 {
	if i < 0 || i >= len(t.Rows) {
		return nil
	}
	for j, c := range t.Columns {
		if c == column {
			return t.Rows[i].Values[j]
		}
	}
	return nil
}

type rowKey struct {
	area       string
	occupation string
}

// Pivot reshapes records into one row per (area name, occupation name) and one
// column per distinct measure name. The first non-absent value wins a cell.
// Rows are sorted by area then occupation; columns by name.
func Pivot(records []LabeledRecord) *WideTable {
	colSet := make(map[string]struct{})
	for _, r := range records {
		colSet[r.DataTypeName] = struct{}{}
	}
	columns := make([]string, 0, len(colSet))
	for c := range colSet {
		columns = append(columns, c)
	}
	sort.Strings(columns)

	colIdx := make(map[string]int, len(columns))
	for i, c := range columns {
		colIdx[c] = i
	}

	rows := make(map[rowKey]*WideRow)
	for _, r := range records {
		k := rowKey{area: r.AreaName, occupation: r.OccupationName}
		row, ok := rows[k]
		if !ok {
			row = &WideRow{
				AreaName:       r.AreaName,
				OccupationName: r.OccupationName,
				Values:         make([]*float64, len(columns)),
			}
			rows[k] = row
		}
		j := colIdx[r.DataTypeName]
		if row.Values[j] == nil && r.Value != nil {
			v := *r.Value
			row.Values[j] = &v
		}
	}

	table := &WideTable{Columns: columns, Rows: make([]WideRow, 0, len(rows))}
	for _, row := range rows {
		table.Rows = append(table.Rows, *row)
	}
	sort.Slice(table.Rows, func(i, j int) bool {
		a, b := table.Rows[i], table.Rows[j]
		if a.AreaName != b.AreaName {
			return a.AreaName < b.AreaName
		}
		return a.OccupationName < b.OccupationName
	})
	return table
}
