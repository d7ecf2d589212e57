package bls

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/oews-cli/internal/fetcher"
)

const defaultBaseURL = "https://api.bls.gov/publicAPI/v2/timeseries/data/"

// Client retrieves timeseries from the BLS API.
type Client interface {
	// Fetch requests up to MaxSeriesPerRequest series in one call. A rejected
	// request is returned as a Response with a non-success status, not an error.
	Fetch(ctx context.Context, seriesIDs []string) (*Response, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API endpoint.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithYears restricts the query to a year range. Empty values are omitted.
func WithYears(start, end string) Option {
	return func(c *httpClient) {
		c.startYear = start
		c.endYear = end
	}
}

type httpClient struct {
	apiKey    string
	baseURL   string
	startYear string
	endYear   string
	fetcher   fetcher.Fetcher
}

// NewClient creates a BLS API client that posts through f.
func NewClient(apiKey string, f fetcher.Fetcher, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		fetcher: f,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Fetch(ctx context.Context, seriesIDs []string) (*Response, error) {
	if len(seriesIDs) == 0 {
		return nil, eris.New("bls: no series ids")
	}
	if len(seriesIDs) > MaxSeriesPerRequest {
		return nil, eris.Errorf("bls: %d series ids exceeds limit of %d", len(seriesIDs), MaxSeriesPerRequest)
	}

	body, err := c.fetcher.PostJSON(ctx, c.baseURL, Request{
		SeriesIDs:       seriesIDs,
		RegistrationKey: c.apiKey,
		StartYear:       c.startYear,
		EndYear:         c.endYear,
	})
	if err != nil {
		return nil, eris.Wrap(err, "bls: send request")
	}
	defer body.Close() //nolint:errcheck

	resp, err := fetcher.DecodeJSONObject[Response](body)
	if err != nil {
		return nil, eris.Wrap(err, "bls: decode response")
	}
	return resp, nil
}
