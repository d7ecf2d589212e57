// Package series builds BLS OEWS series identifiers from code axes.
package series

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/oews-cli/internal/model"
)

// Default identifier parts.
const (
	DefaultPrefix   = "OEUS"
	DefaultIndustry = "000000" // all industries
)

// Axes are the ordered code sets combined into series identifiers.
type Axes struct {
	Prefix      string
	Industry    string
	Areas       []string
	Occupations []string
	DataTypes   []string
}

// Count returns the number of identifiers Generate will produce.
func (a Axes) Count() int {
	return len(a.Areas) * len(a.Occupations) * len(a.DataTypes)
}

// ID builds one identifier: prefix + area + industry + occupation + datatype.
func (a Axes) ID(area, occupation, dataType string) string {
	var b strings.Builder
	b.Grow(len(a.Prefix) + len(area) + len(a.Industry) + len(occupation) + len(dataType))
	b.WriteString(a.Prefix)
	b.WriteString(area)
	b.WriteString(a.Industry)
	b.WriteString(occupation)
	b.WriteString(dataType)
	return b.String()
}

// Generate returns one metadata record per element of
// Areas × Occupations × DataTypes, areas outermost and datatypes innermost.
// Codes are not validated; malformed codes yield malformed identifiers.
func Generate(a Axes) ([]model.SeriesMeta, error) {
	switch {
	case len(a.Areas) == 0:
		return nil, eris.New("series: no area codes")
	case len(a.Occupations) == 0:
		return nil, eris.New("series: no occupation codes")
	case len(a.DataTypes) == 0:
		return nil, eris.New("series: no datatype codes")
	}

	out := make([]model.SeriesMeta, 0, a.Count())
	for _, area := range a.Areas {
		for _, occ := range a.Occupations {
			for _, dt := range a.DataTypes {
				out = append(out, model.SeriesMeta{
					ID:             a.ID(area, occ, dt),
					AreaCode:       area,
					OccupationCode: occ,
					DataTypeCode:   dt,
				})
			}
		}
	}
	return out, nil
}

// IDs returns the identifier column of meta, in order.
func IDs(meta []model.SeriesMeta) []string {
	ids := make([]string, len(meta))
	for i, m := range meta {
		ids[i] = m.ID
	}
	return ids
}
