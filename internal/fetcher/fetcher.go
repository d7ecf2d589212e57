// Package fetcher performs rate-limited HTTP calls against remote data APIs.
package fetcher

import (
	"context"
	"io"
)

// Fetcher defines the interface for calling remote data APIs.
type Fetcher interface {
	// PostJSON sends body as a JSON POST to url and returns the response body.
	// Exactly one attempt is made; callers decide what a failure means.
	PostJSON(ctx context.Context, url string, body any) (io.ReadCloser, error)
}
