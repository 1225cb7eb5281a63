package worker

import (
	"context"

	"github.com/ppiankov/incidents/internal/model"
)

// Fetcher resolves a record id to a display record without failing
type Fetcher interface {
	Fetch(ctx context.Context, id int) model.Incident
}

// FetchJob fetches one record
type FetchJob struct {
	Pos     int // position in the caller's id list
	ID      int
	Fetcher Fetcher
}

// Execute fetches the record
func (j *FetchJob) Execute(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return &FetchResult{Pos: j.Pos, ID: j.ID, Error: err}
	}
	return &FetchResult{
		Pos:      j.Pos,
		ID:       j.ID,
		Incident: j.Fetcher.Fetch(ctx, j.ID),
	}
}

// FetchResult is the outcome of a FetchJob
type FetchResult struct {
	Pos      int
	ID       int
	Incident model.Incident
	Error    error // set only when the job was cancelled before fetching
}

// GetError returns the cancellation error, if any
func (r *FetchResult) GetError() error {
	return r.Error
}

// Prefetcher resolves many ids concurrently
type Prefetcher struct {
	fetcher     Fetcher
	concurrency int
}

// NewPrefetcher creates a prefetcher running concurrency fetches at once
func NewPrefetcher(fetcher Fetcher, concurrency int) *Prefetcher {
	return &Prefetcher{
		fetcher:     fetcher,
		concurrency: concurrency,
	}
}

// Prefetch fetches every id and returns results in the order of ids
func (p *Prefetcher) Prefetch(ctx context.Context, ids []int) []*FetchResult {
	out := make([]*FetchResult, len(ids))
	if len(ids) == 0 {
		return out
	}

	pool := NewPool(ctx, p.concurrency)
	pool.Start()

	go func() {
		for i, id := range ids {
			pool.Submit(&FetchJob{Pos: i, ID: id, Fetcher: p.fetcher})
		}
		pool.CloseQueue()
	}()

	for res := range pool.Results() {
		fr := res.(*FetchResult)
		out[fr.Pos] = fr
	}

	// Jobs dropped by cancellation never report back
	for i, id := range ids {
		if out[i] == nil {
			out[i] = &FetchResult{Pos: i, ID: id, Error: ctx.Err()}
		}
	}
	return out
}
