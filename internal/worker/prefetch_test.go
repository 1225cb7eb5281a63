package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/incidents/internal/model"
)

type slowFetcher struct {
	calls atomic.Int32
}

func (f *slowFetcher) Fetch(ctx context.Context, id int) model.Incident {
	f.calls.Add(1)
	// Later ids finish first so completion order differs from input order
	time.Sleep(time.Duration(10-id%10) * time.Millisecond)
	return model.Incident{ID: id}
}

func TestPrefetch_PreservesOrder(t *testing.T) {
	f := &slowFetcher{}
	ids := []int{1, 5, 9, 3, 7, 5}

	results := NewPrefetcher(f, 3).Prefetch(context.Background(), ids)

	if len(results) != len(ids) {
		t.Fatalf("expected %d results, got %d", len(ids), len(results))
	}
	for i, res := range results {
		if res.Error != nil {
			t.Errorf("result %d: unexpected error %v", i, res.Error)
		}
		if res.Pos != i || res.ID != ids[i] || res.Incident.ID != ids[i] {
			t.Errorf("result %d = %+v, want id %d", i, res, ids[i])
		}
	}
	if f.calls.Load() != int32(len(ids)) {
		t.Errorf("expected %d fetches, got %d", len(ids), f.calls.Load())
	}
}

func TestPrefetch_Empty(t *testing.T) {
	results := NewPrefetcher(&slowFetcher{}, 2).Prefetch(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestPrefetch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ids := []int{1, 2, 3}
	results := NewPrefetcher(&slowFetcher{}, 1).Prefetch(ctx, ids)

	for i, res := range results {
		if res == nil {
			t.Fatalf("result %d missing", i)
		}
		if !errors.Is(res.GetError(), context.Canceled) {
			t.Errorf("result %d: expected context.Canceled, got %v", i, res.GetError())
		}
	}
}
