// Package batch submits series identifiers to the BLS API in fixed-size,
// sequential batches.
package batch

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/oews-cli/internal/bls"
	"github.com/sells-group/oews-cli/internal/model"
)

// Defaults.
const (
	DefaultSize  = 50
	DefaultDelay = 250 * time.Millisecond
)

// Options configures a Fetcher.
type Options struct {
	Size  int
	Delay time.Duration
	// Sleep waits between batches. Defaults to a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
	// OnResult is called after each batch completes.
	OnResult func(Result)
}

// Result is the outcome of one batch submission.
type Result struct {
	Index  int // 1-based
	Total  int
	IDs    []string
	Series []bls.Series
	Err    error
}

// OK reports whether the batch was accepted.
func (r Result) OK() bool { return r.Err == nil }

// Outcome converts the result into its persisted form.
func (r Result) Outcome() model.BatchOutcome {
	o := model.BatchOutcome{
		Index:     r.Index,
		Size:      len(r.IDs),
		Retrieved: len(r.Series),
	}
	if r.Err != nil {
		o.Error = r.Err.Error()
	}
	return o
}

// Fetcher submits batches to a bls.Client one at a time.
type Fetcher struct {
	client bls.Client
	opts   Options
}

// New creates a Fetcher.
func New(client bls.Client, opts Options) *Fetcher {
	if opts.Size <= 0 {
		opts.Size = DefaultSize
	}
	if opts.Delay < 0 {
		opts.Delay = 0
	}
	if opts.Sleep == nil {
		opts.Sleep = sleep
	}
	return &Fetcher{client: client, opts: opts}
}

// Chunk splits ids into contiguous slices of at most size elements.
func Chunk(ids []string, size int) [][]string {
	if size <= 0 {
		size = DefaultSize
	}
	chunks := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

// Run submits every chunk of ids once, in order. Failed batches are recorded
// in their Result and passed to OnResult; they never stop the run. The only error returned
// is context cancellation, together with the results gathered so far.
func (f *Fetcher) Run(ctx context.Context, ids []string) ([]Result, error) {
	log := zap.L().With(zap.String("component", "batch"))
	chunks := Chunk(ids, f.opts.Size)
	results := make([]Result, 0, len(chunks))

	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return results, eris.Wrap(err, "batch: cancelled")
		}

		res := Result{Index: i + 1, Total: len(chunks), IDs: chunk}
		log.Debug("submitting batch",
			zap.Int("batch", res.Index),
			zap.Int("total", res.Total),
			zap.Int("series", len(chunk)),
		)

		resp, err := f.client.Fetch(ctx, chunk)
		switch {
		case err != nil:
			res.Err = eris.Wrapf(err, "batch %d: request failed", res.Index)
		case !resp.Succeeded():
			res.Err = eris.Wrapf(resp.Err(), "batch %d: api error", res.Index)
		default:
			res.Series = resp.Results.Series
		}

		if res.OK() {
			log.Debug("batch retrieved", zap.Int("batch", res.Index), zap.Int("series", len(res.Series)))
		} else {
			log.Debug("batch failed", zap.Int("batch", res.Index), zap.Error(res.Err))
		}

		results = append(results, res)
		if f.opts.OnResult != nil {
			f.opts.OnResult(res)
		}

		if i < len(chunks)-1 && f.opts.Delay > 0 {
			if err := f.opts.Sleep(ctx, f.opts.Delay); err != nil {
				return results, eris.Wrap(err, "batch: cancelled")
			}
		}
	}

	return results, nil
}

// Collect concatenates the series of successful results, in order.
func Collect(results []Result) []bls.Series {
	var out []bls.Series
	for _, r := range results {
		if r.OK() {
			out = append(out, r.Series...)
		}
	}
	return out
}

// Failed counts unsuccessful results.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.OK() {
			n++
		}
	}
	return n
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
