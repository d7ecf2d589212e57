package report

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/sells-group/oews-cli/internal/model"
)

// flatRow is the CSV layout of a FlatRecord.
type flatRow struct {
	SeriesID       string `csv:"series_id"`
	AreaCode       string `csv:"state_code"`
	OccupationCode string `csv:"occupation_code"`
	DataTypeCode   string `csv:"datatype_code"`
	Year           string `csv:"year"`
	Value          string `csv:"value"`
}

// FormatValue renders a value for tabular output; nil is empty.
func FormatValue(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// WriteFlatCSV writes one row per record, header first.
func WriteFlatCSV(w io.Writer, records []model.FlatRecord) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)

	if err := enc.EncodeHeader(flatRow{}); err != nil {
		return eris.Wrap(err, "report: encode csv header")
	}
	for _, r := range records {
		if err := enc.Encode(flatRow{
			SeriesID:       r.SeriesID,
			AreaCode:       r.AreaCode,
			OccupationCode: r.OccupationCode,
			DataTypeCode:   r.DataTypeCode,
			Year:           r.Year,
			Value:          FormatValue(r.Value),
		}); err != nil {
			return eris.Wrapf(err, "report: encode csv row %s", r.SeriesID)
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "report: flush csv")
}

// WriteFlatCSVFile writes records to path. The file is replaced atomically so
// a failed write never leaves a partial report behind.
func WriteFlatCSVFile(path string, records []model.FlatRecord) error {
	return writeAtomic(path, func(w io.Writer) error {
		return WriteFlatCSV(w, records)
	})
}

func writeAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "report: create dir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return eris.Wrap(err, "report: create temp file")
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) //nolint:errcheck

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "report: close temp file")
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return eris.Wrapf(err, "report: rename to %s", path)
	}
	return nil
}
