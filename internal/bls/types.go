// Package bls is a client for the BLS public data API v2 timeseries endpoint.
package bls

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Response statuses returned by the API.
const (
	StatusSucceeded    = "REQUEST_SUCCEEDED"
	StatusNotProcessed = "REQUEST_NOT_PROCESSED"
	StatusFailed       = "REQUEST_FAILED"
)

// MaxSeriesPerRequest is the API limit for registered keys.
const MaxSeriesPerRequest = 50

// Request is the POST body of a timeseries query.
type Request struct {
	SeriesIDs       []string `json:"seriesid"`
	RegistrationKey string   `json:"registrationkey,omitempty"`
	StartYear       string   `json:"startyear,omitempty"`
	EndYear         string   `json:"endyear,omitempty"`
}

// Response is the API v2 envelope.
type Response struct {
	Status       string   `json:"status"`
	ResponseTime int      `json:"responseTime"`
	Message      []string `json:"message"`
	Results      Results  `json:"Results"`
}

// Results wraps the returned series.
type Results struct {
	Series []Series `json:"series"`
}

// Series is one returned timeseries.
type Series struct {
	SeriesID string        `json:"seriesID"`
	Data     []Observation `json:"data"`
}

// Observation is one data point of a series.
type Observation struct {
	Year       string     `json:"year"`
	Period     string     `json:"period"`
	PeriodName string     `json:"periodName,omitempty"`
	Latest     string     `json:"latest,omitempty"`
	Value      string     `json:"value"`
	Footnotes  []Footnote `json:"footnotes,omitempty"`
}

// Footnote annotates an observation.
type Footnote struct {
	Code string `json:"code,omitempty"`
	Text string `json:"text,omitempty"`
}

// Succeeded reports whether the API accepted the request.
func (r *Response) Succeeded() bool {
	return r != nil && r.Status == StatusSucceeded
}

// Err returns nil for an accepted request and an error carrying the API
// messages otherwise.
func (r *Response) Err() error {
	if r == nil {
		return eris.New("bls: empty response")
	}
	if r.Succeeded() {
		return nil
	}
	msg := strings.Join(r.Message, "; ")
	if msg == "" {
		msg = "Unknown"
	}
	status := r.Status
	if status == "" {
		status = "no status"
	}
	return eris.Errorf("bls: %s: %s", status, msg)
}
