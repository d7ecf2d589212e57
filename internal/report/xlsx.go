package report

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

const xlsxSheet = "OEWS"

// WriteWideXLSX saves the wide table as a single-sheet workbook.
func WriteWideXLSX(path string, t *WideTable) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(xlsxSheet)
	if err != nil {
		return eris.Wrap(err, "report: add xlsx sheet")
	}

	header := sheet.AddRow()
	header.AddCell().SetString("state_name")
	header.AddCell().SetString("occupation_name")
	for _, c := range t.Columns {
		header.AddCell().SetString(c)
	}

	for _, r := range t.Rows {
		row := sheet.AddRow()
		row.AddCell().SetString(r.AreaName)
		row.AddCell().SetString(r.OccupationName)
		for _, v := range r.Values {
			cell := row.AddCell()
			if v != nil {
				cell.SetFloat(*v)
			}
		}
	}

	if err := file.Save(path); err != nil {
		return eris.Wrapf(err, "report: save xlsx %s", path)
	}
	return nil
}
