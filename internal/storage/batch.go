package storage

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// ErrSkipped marks an item that was not attempted
var ErrSkipped = errors.New("skipped")

// Tally summarizes a best-effort batch
type Tally struct {
	Total     int
	Succeeded int
	Failed    int
	Skipped   int
}

// BatchResult holds one error slot per item; nil means the item succeeded
type BatchResult struct {
	Errs []error
}

func (r BatchResult) Tally() Tally {
	t := Tally{Total: len(r.Errs)}
	for _, err := range r.Errs {
		switch {
		case err == nil:
			t.Succeeded++
		case errors.Is(err, ErrSkipped):
			t.Skipped++
		default:
			t.Failed++
		}
	}
	return t
}

// RunBatch calls fn for every index in [0, n) with at most limit calls in
// flight. A failing item never stops the others. Items not yet started when
// ctx is cancelled record ctx.Err().
func RunBatch(ctx context.Context, n, limit int, fn func(ctx context.Context, i int) error) BatchResult {
	res := BatchResult{Errs: make([]error, n)}
	if n == 0 {
		return res
	}
	if limit < 1 {
		limit = 1
	}

	var g errgroup.Group
	g.SetLimit(limit)

	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				res.Errs[i] = err
				return nil
			}
			res.Errs[i] = fn(ctx, i)
			return nil
		})
	}
	_ = g.Wait()

	return res
}
