package bls

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/oews-cli/internal/fetcher"
)

func newTestClient(url string, opts ...Option) Client {
	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{UserAgent: "test-agent", Timeout: 5 * time.Second})
	return NewClient("test-key", f, append([]Option{WithBaseURL(url)}, opts...)...)
}

func TestFetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"OEUS060000000000000004"}, req.SeriesIDs)
		assert.Equal(t, "test-key", req.RegistrationKey)
		assert.Empty(t, req.StartYear)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "REQUEST_SUCCEEDED",
			"responseTime": 120,
			"message": [],
			"Results": {"series": [{
				"seriesID": "OEUS060000000000000004",
				"data": [{"year": "2023", "period": "A01", "periodName": "Annual", "latest": "true", "value": "78240", "footnotes": [{}]}]
			}]}
		}`))
	}))
	defer srv.Close()

	resp, err := newTestClient(srv.URL).Fetch(context.Background(), []string{"OEUS060000000000000004"})
	require.NoError(t, err)
	assert.True(t, resp.Succeeded())
	assert.NoError(t, resp.Err())
	require.Len(t, resp.Results.Series, 1)

	s := resp.Results.Series[0]
	assert.Equal(t, "OEUS060000000000000004", s.SeriesID)
	require.Len(t, s.Data, 1)
	assert.Equal(t, "2023", s.Data[0].Year)
	assert.Equal(t, "A01", s.Data[0].Period)
	assert.Equal(t, "78240", s.Data[0].Value)
}

func TestFetch_WithYears(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "2022", req.StartYear)
		assert.Equal(t, "2023", req.EndYear)
		_, _ = w.Write([]byte(`{"status":"REQUEST_SUCCEEDED","Results":{"series":[]}}`))
	}))
	defer srv.Close()

	resp, err := newTestClient(srv.URL, WithYears("2022", "2023")).Fetch(context.Background(), []string{"X"})
	require.NoError(t, err)
	assert.Empty(t, resp.Results.Series)
}

func TestFetch_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"REQUEST_NOT_PROCESSED","message":["daily threshold reached"],"Results":{}}`))
	}))
	defer srv.Close()

	resp, err := newTestClient(srv.URL).Fetch(context.Background(), []string{"X"})
	require.NoError(t, err)
	assert.False(t, resp.Succeeded())
	require.Error(t, resp.Err())
	assert.Contains(t, resp.Err().Error(), "REQUEST_NOT_PROCESSED")
	assert.Contains(t, resp.Err().Error(), "daily threshold reached")
}

func TestFetch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	resp, err := newTestClient(srv.URL).Fetch(context.Background(), []string{"X"})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "502")
}

func TestFetch_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Fetch(context.Background(), []string{"X"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bls: decode response")
}

func TestFetch_TooManyIDs(t *testing.T) {
	ids := make([]string, MaxSeriesPerRequest+1)
	for i := range ids {
		ids[i] = fmt.Sprintf("S%d", i)
	}

	_, err := newTestClient("http://127.0.0.1:0").Fetch(context.Background(), ids)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds limit of 50")

	_, err = newTestClient("http://127.0.0.1:0").Fetch(context.Background(), nil)
	assert.Error(t, err)
}

func TestResponse_Err(t *testing.T) {
	var nilResp *Response
	assert.Error(t, nilResp.Err())
	assert.False(t, nilResp.Succeeded())

	err := (&Response{}).Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no status: Unknown")

	assert.NoError(t, (&Response{Status: StatusSucceeded}).Err())
}
