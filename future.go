package requex

import (
	"context"

	"github.com/kochabx/requex/response"
)

// Future is the pending result of Client.Go
type Future struct {
	done    chan struct{}
	verdict response.Verdict
	err     error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) resolve(v response.Verdict, err error) {
	f.verdict, f.err = v, err
	close(f.done)
}

// Done is closed once the result is available
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the request finishes or ctx ends. Ending ctx stops
// the wait only; the request keeps its own context.
func (f *Future) Wait(ctx context.Context) (response.Verdict, error) {
	select {
	case <-f.done:
		return f.verdict, f.err
	case <-ctx.Done():
		return response.Verdict{}, ctx.Err()
	}
}
