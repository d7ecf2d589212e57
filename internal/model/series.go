// Package model defines the shared record types of the OEWS pipeline.
package model

// SeriesMeta ties one generated series ID to the codes that produced it.
type SeriesMeta struct {
	ID             string `json:"series_id"`
	AreaCode       string `json:"state_code"`
	OccupationCode string `json:"occupation_code"`
	DataTypeCode   string `json:"datatype_code"`
}

// FlatRecord is one reconciled annual observation. A nil Value means the
// source marked the estimate as unavailable.
type FlatRecord struct {
	SeriesID       string   `json:"series_id"`
	AreaCode       string   `json:"state_code"`
	OccupationCode string   `json:"occupation_code"`
	DataTypeCode   string   `json:"datatype_code"`
	Year           string   `json:"year"`
	Value          *float64 `json:"value"`
}

// HasValue reports whether the record carries a value.
func (r FlatRecord) HasValue() bool { return r.Value != nil }
