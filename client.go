// Package requex orchestrates client-side HTTP requests: it shapes a
// request descriptor for the wire, cancels superseded duplicates, drives a
// shared loading indicator, classifies replies and reports outcomes to
// hooks before handing the caller a Verdict.
package requex

import (
	"context"
	"fmt"

	"github.com/panjf2000/ants/v2"

	"github.com/kochabx/requex/core/net/http"
	"github.com/kochabx/requex/core/rate"
	"github.com/kochabx/requex/errors"
	"github.com/kochabx/requex/log"
	"github.com/kochabx/requex/metrics"
	"github.com/kochabx/requex/pending"
	"github.com/kochabx/requex/progress"
	"github.com/kochabx/requex/request"
	"github.com/kochabx/requex/response"
	"github.com/kochabx/requex/transport"
)

// ErrPanic is returned by a Future whose request panicked
var ErrPanic = errors.Internal("request panicked")

// packageDefaults is the first merge layer of every request
var packageDefaults = request.Descriptor{
	Method:      http.MethodGet,
	ContentType: request.JSON,
}

// Client owns one pending registry, one progress queue and one worker pool
type Client struct {
	transport    transport.Transport
	defaults     request.Descriptor
	ignoreCancel bool
	hooks        Hooks
	indicator    progress.Indicator
	saver        response.FileSaver
	logger       *log.Logger
	metrics      *metrics.Metrics
	poolSize     int
	limiter      rate.Limiter

	registry *pending.Registry
	progress *progress.Coordinator
	pool     *ants.Pool
}

// New creates a Client sending through t; a nil t uses transport.NewHTTP
func New(t transport.Transport, opts ...Option) (*Client, error) {
	c := &Client{
		transport: t,
		defaults:  packageDefaults.Clone(),
		hooks:     NopHooks{},
		indicator: progress.NewLogIndicator(nil),
		logger:    log.G(),
		metrics:   metrics.Disabled(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.transport == nil {
		c.transport = transport.NewHTTP()
	}
	if c.limiter != nil {
		c.transport = transport.Limited(c.transport, c.limiter)
	}

	c.registry = pending.New(pending.WithLogger(c.logger))
	c.progress = progress.New(progress.WithIndicator(progress.Funcs{
		OnShow: func() {
			c.indicator.Show()
			c.metrics.Progress(true)
		},
		OnHide: func() {
			c.indicator.Hide()
			c.metrics.Progress(false)
		},
	}))

	size := c.poolSize
	if size <= 0 {
		size = -1
	}
	pool, err := ants.NewPool(size, ants.WithLogger(c.logger))
	if err != nil {
		return nil, errors.Internal("create worker pool").WithCause(err)
	}
	c.pool = pool

	return c, nil
}

// Request runs d to completion. Successful requests return a nil error.
// Unsuccessful ones return the Verdict together with a *FailureError,
// except for transport failures without any reply, which are returned
// unchanged with a zero Verdict.
func (c *Client) Request(ctx context.Context, d request.Descriptor, opts ...CallOption) (response.Verdict, error) {
	call := newCall(opts)
	hooks := call.resolveHooks(c.hooks)

	merged := request.Merge(c.defaults, d)
	if merged.Data == nil && call.extraData != nil {
		merged.Data = request.CloneMap(call.extraData)
	}
	if err := merged.Validate(); err != nil {
		return response.Verdict{}, err
	}

	shaped, err := request.Transform(merged)
	if err != nil {
		return response.Verdict{}, err
	}

	if shaped.ProgressVisible() {
		stop := c.progress.Start()
		defer stop()
	}

	outcome := metrics.OutcomeError
	done := c.metrics.Begin(shaped.Method)
	defer func() { done(outcome) }()

	sendCtx := ctx
	release := func() {}
	if !c.ignoreCancel && !shaped.CancelIgnored() {
		var entry *pending.Entry
		sendCtx, entry = c.registry.Add(ctx, shaped)
		release = func() { c.registry.Remove(entry) }
	}
	defer release()

	c.logger.Debug().
		Str("method", shaped.Method).
		Str("url", shaped.FullURL()).
		Str("body", shaped.Body.Kind.String()).
		Msg("request dispatched")

	raw, err := c.transport.Send(sendCtx, &shaped)
	canceled := errors.Is(sendCtx.Err(), context.Canceled)
	cause := context.Cause(sendCtx)
	release()

	if err != nil {
		return c.handleError(err, cause, canceled, shaped, hooks, &outcome)
	}

	v, err := response.Classify(raw, shaped, c.saver)
	if err != nil {
		outcome = metrics.OutcomeFailure
		c.logger.Error().Err(err).Str("url", shaped.URL).Msg("attachment not saved")
		hooks.OnFailure(v.Data, v.Status, shaped)
		return v, newFailure(v, ErrBusiness, err)
	}

	if v.Success {
		outcome = metrics.OutcomeSuccess
		c.logger.Debug().Str("url", shaped.URL).Stringer("status", v.Status).Msg("request succeeded")
		hooks.OnSuccess(v.Data, v.Status, shaped)
		return v, nil
	}

	outcome = metrics.OutcomeFailure
	c.logger.Warn().Str("url", shaped.URL).Stringer("status", v.Status).Msg("business request failed")
	hooks.OnFailure(v.Data, v.Status, shaped)
	return v, newFailure(v, ErrBusiness, nil)
}

// handleError maps a Send failure to a verdict. A reply always wins;
// otherwise canceled, which reports whether the send context was
// canceled, decides. Transports may surface only the cancel cause
// (ErrSuperseded, ErrClosed) rather than context.Canceled.
func (c *Client) handleError(err, cause error, canceled bool, d request.Descriptor, hooks Hooks, outcome *string) (response.Verdict, error) {
	if re, ok := transport.AsResponseError(err); ok {
		*outcome = metrics.OutcomeFailure
		v := response.Verdict{
			Data:   response.DecodeBody(re.Response.Body),
			Raw:    re.Response.Body,
			Status: response.Status(re.Response.Status),
			Header: re.Response.Header,
		}
		c.logger.Warn().Str("url", d.URL).Stringer("status", v.Status).Msg("request rejected")
		hooks.OnFailure(v.Data, v.Status, d)
		return v, newFailure(v, ErrRejected, err)
	}

	if canceled || transport.IsCanceled(err) {
		*outcome = metrics.OutcomeCanceled
		if errors.Is(cause, pending.ErrSuperseded) {
			c.metrics.Supersede()
		}
		if cause == nil {
			cause = err
		}
		c.logger.Debug().Err(cause).Str("url", d.URL).Msg("request canceled")

		v := response.Verdict{Status: response.StatusCanceled}
		hooks.OnFailure(map[string]any{}, response.StatusCanceled, d)
		return v, newFailure(v, ErrCanceled, cause)
	}

	c.logger.Error().Err(err).Str("method", d.Method).Str("url", d.URL).Msg("request failed without response")
	return response.Verdict{}, err
}

// Go runs Request on the client's worker pool
func (c *Client) Go(ctx context.Context, d request.Descriptor, opts ...CallOption) *Future {
	f := newFuture()
	err := c.pool.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				c.logger.Error().Str("panic", fmt.Sprint(r)).Msg("request panicked")
				f.resolve(response.Verdict{}, ErrPanic.WithMetadata(map[string]string{"panic": fmt.Sprint(r)}))
			}
		}()
		f.resolve(c.Request(ctx, d, opts...))
	})
	if err != nil {
		f.resolve(response.Verdict{}, ErrClosed.WithCause(err))
	}
	return f
}

// Pending returns the number of registered in-flight requests
func (c *Client) Pending() int {
	return c.registry.Len()
}

// Loading reports whether the progress indicator is shown
func (c *Client) Loading() bool {
	return c.progress.Active()
}

// Defaults returns a copy of the client-level descriptor layer
func (c *Client) Defaults() request.Descriptor {
	return c.defaults.Clone()
}

// Close cancels every registered request and stops the worker pool
func (c *Client) Close() {
	c.registry.CancelAll(ErrClosed)
	c.pool.Release()
}
