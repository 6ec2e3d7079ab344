// Package pending tracks in-flight requests by fingerprint so that issuing
// a request cancels any earlier, still-running request with the same
// fingerprint.
package pending

import (
	"context"
	"sync"

	"github.com/kochabx/requex/errors"
	"github.com/kochabx/requex/log"
	"github.com/kochabx/requex/request"
)

// ErrSuperseded is the cancellation cause of a request replaced by a newer duplicate
var ErrSuperseded = errors.ClientClosed("request superseded by a newer duplicate")

// Entry is one registered in-flight request
type Entry struct {
	Fingerprint request.Fingerprint
	cancel      context.CancelCauseFunc
}

// Registry holds at most one Entry per fingerprint
type Registry struct {
	mu      sync.Mutex
	entries map[request.Fingerprint]*Entry
	logger  *log.Logger
}

// Option configures a Registry
type Option func(*Registry)

// WithLogger sets the registry logger
func WithLogger(logger *log.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates an empty registry
func New(opts ...Option) *Registry {
	r := &Registry{
		entries: make(map[request.Fingerprint]*Entry),
		logger:  log.G(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add registers d, first cancelling and evicting any entry with the same
// fingerprint. The returned context must be used for the outgoing call.
func (r *Registry) Add(ctx context.Context, d request.Descriptor) (context.Context, *Entry) {
	fp := request.FingerprintOf(d)
	reqCtx, cancel := context.WithCancelCause(ctx)
	entry := &Entry{Fingerprint: fp, cancel: cancel}

	r.mu.Lock()
	prev, ok := r.entries[fp]
	r.entries[fp] = entry
	r.mu.Unlock()

	if ok {
		prev.cancel(ErrSuperseded)
		r.logger.Debug().
			Str("fingerprint", fp.String()).
			Str("method", d.Method).
			Str("url", d.URL).
			Msg("superseded pending request")
	}

	return reqCtx, entry
}

// Remove evicts e if it is still the registered entry for its fingerprint
// and releases its context. Removing an entry twice, or one that has
// already been superseded, only releases the context.
func (r *Registry) Remove(e *Entry) {
	if e == nil {
		return
	}

	r.mu.Lock()
	if cur, ok := r.entries[e.Fingerprint]; ok && cur == e {
		delete(r.entries, e.Fingerprint)
	}
	r.mu.Unlock()

	e.cancel(nil)
}

// Has reports whether a request with fingerprint fp is pending
func (r *Registry) Has(fp request.Fingerprint) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[fp]
	return ok
}

// Len returns the number of pending requests
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// CancelAll cancels and evicts every pending request with cause
func (r *Registry) CancelAll(cause error) {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[request.Fingerprint]*Entry)
	r.mu.Unlock()

	for _, e := range entries {
		e.cancel(cause)
	}
}
