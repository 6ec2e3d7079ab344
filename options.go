package requex

import (
	"time"

	"github.com/kochabx/requex/core/rate"
	"github.com/kochabx/requex/log"
	"github.com/kochabx/requex/metrics"
	"github.com/kochabx/requex/progress"
	"github.com/kochabx/requex/request"
	"github.com/kochabx/requex/response"
	"github.com/kochabx/requex/transport"
)

// Option configures a Client
type Option func(*Client)

// WithBaseURL sets the base URL joined in front of relative request URLs
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.defaults.BaseURL = baseURL
	}
}

// WithHeaders adds default headers; call descriptors may override them
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for k, v := range headers {
			c.defaults.SetHeader(k, v)
		}
	}
}

// WithCredentials sets whether cookies travel with requests by default
func WithCredentials(on bool) Option {
	return func(c *Client) {
		c.defaults.WithCredentials = request.Bool(on)
	}
}

// WithProgress sets whether requests drive the progress indicator by default
func WithProgress(on bool) Option {
	return func(c *Client) {
		c.defaults.ShowProgress = request.Bool(on)
	}
}

// WithIgnoreCancel disables duplicate cancellation for every request of
// the client, whatever the call descriptor says
func WithIgnoreCancel(on bool) Option {
	return func(c *Client) {
		c.ignoreCancel = on
	}
}

// WithSuccessPredicate sets the default business success predicate
func WithSuccessPredicate(p request.Predicate) Option {
	return func(c *Client) {
		c.defaults.IsSuccess = p
	}
}

// WithTimeout sets the default per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.defaults.Timeout = d
	}
}

// WithContentType sets the default payload encoding
func WithContentType(ct request.ContentType) Option {
	return func(c *Client) {
		c.defaults.ContentType = ct
	}
}

// WithHooks sets the client hooks
func WithHooks(h Hooks) Option {
	return func(c *Client) {
		if h != nil {
			c.hooks = h
		}
	}
}

// WithTransport replaces the transport given to New
func WithTransport(t transport.Transport) Option {
	return func(c *Client) {
		if t != nil {
			c.transport = t
		}
	}
}

// WithRateLimit throttles every request of the client through l
func WithRateLimit(l rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithIndicator sets the global loading indicator
func WithIndicator(i progress.Indicator) Option {
	return func(c *Client) {
		if i != nil {
			c.indicator = i
		}
	}
}

// WithFileSaver sets where attachment replies are saved
func WithFileSaver(s response.FileSaver) Option {
	return func(c *Client) {
		c.saver = s
	}
}

// WithLogger sets the client logger
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records request metrics
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithPoolSize bounds the number of concurrent Go requests; <= 0 is unbounded
func WithPoolSize(size int) Option {
	return func(c *Client) {
		c.poolSize = size
	}
}

// CallOption configures a single Request or Go call
type CallOption func(*call)

type call struct {
	extraData map[string]any
	hooks     Hooks
	onSuccess func(data any, status response.Status, d request.Descriptor)
	onFailure func(data any, status response.Status, d request.Descriptor)
}

func newCall(opts []CallOption) *call {
	c := new(call)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithExtraData is used as Data when the descriptor has none
func WithExtraData(data map[string]any) CallOption {
	return func(c *call) {
		c.extraData = data
	}
}

// WithCallHooks replaces the client hooks for this call
func WithCallHooks(h Hooks) CallOption {
	return func(c *call) {
		c.hooks = h
	}
}

// WithOnSuccess replaces only the success hook for this call
func WithOnSuccess(fn func(data any, status response.Status, d request.Descriptor)) CallOption {
	return func(c *call) {
		c.onSuccess = fn
	}
}

// WithOnFailure replaces only the failure hook for this call
func WithOnFailure(fn func(data any, status response.Status, d request.Descriptor)) CallOption {
	return func(c *call) {
		c.onFailure = fn
	}
}

func (c *call) resolveHooks(base Hooks) Hooks {
	if c.hooks != nil {
		base = c.hooks
	}
	if c.onSuccess == nil && c.onFailure == nil {
		return base
	}
	return overrides{base: base, onSuccess: c.onSuccess, onFailure: c.onFailure}
}
