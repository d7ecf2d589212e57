// Package reconcile matches returned BLS series back to their generating
// metadata and flattens the annual observation of each.
package reconcile

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/oews-cli/internal/bls"
	"github.com/sells-group/oews-cli/internal/model"
)

const (
	// AnnualPeriod marks a full-calendar-year observation.
	AnnualPeriod = "A01"
	// Unavailable is the value token for an estimate that is not available.
	Unavailable = "-"
)

// Index maps series ID to its metadata.
type Index map[string]model.SeriesMeta

// NewIndex builds an Index. For duplicate IDs the first record wins.
func NewIndex(meta []model.SeriesMeta) Index {
	idx := make(Index, len(meta))
	for _, m := range meta {
		if _, ok := idx[m.ID]; !ok {
			idx[m.ID] = m
		}
	}
	return idx
}

// Records flattens raw into one FlatRecord per series that has metadata and
// an annual observation. Series without either are skipped. A value that is
// neither numeric nor the unavailable token aborts with an error.
func Records(idx Index, raw []bls.Series) ([]model.FlatRecord, error) {
	out := make([]model.FlatRecord, 0, len(raw))
	for _, s := range raw {
		meta, ok := idx[s.SeriesID]
		if !ok {
			continue
		}
		obs, ok := Annual(s.Data)
		if !ok {
			continue
		}
		value, err := ParseValue(obs.Value)
		if err != nil {
			return nil, eris.Wrapf(err, "reconcile: series %s year %s", s.SeriesID, obs.Year)
		}
		out = append(out, model.FlatRecord{
			SeriesID:       s.SeriesID,
			AreaCode:       meta.AreaCode,
			OccupationCode: meta.OccupationCode,
			DataTypeCode:   meta.DataTypeCode,
			Year:           obs.Year,
			Value:          value,
		})
	}
	return out, nil
}

// Annual returns the first observation with the annual period marker.
func Annual(data []bls.Observation) (bls.Observation, bool) {
	for _, d := range data {
		if d.Period == AnnualPeriod {
			return d, true
		}
	}
	return bls.Observation{}, false
}

// groupedThousands matches decimals written with thousands separators, e.g. 1,234,567.5.
var groupedThousands = regexp.MustCompile(`^[-+]?\d{1,3}(,\d{3})+(\.\d+)?$`)

// ParseValue parses an observation value. The unavailable token yields nil.
// Separators are only accepted in well-formed thousands groups, and hex
// floats are rejected.
func ParseValue(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == Unavailable {
		return nil, nil
	}
	num := s
	if groupedThousands.MatchString(num) {
		num = strings.ReplaceAll(num, ",", "")
	}
	if isHex(num) {
		return nil, eris.Errorf("parse value %q: hexadecimal not allowed", s)
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return nil, eris.Wrapf(err, "parse value %q", s)
	}
	return &v, nil
}

func isHex(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
