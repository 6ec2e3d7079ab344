// Package transport is the boundary to the HTTP stack. A Transport puts a
// transformed request.Descriptor on the wire and hands back the raw reply;
// it never classifies bodies or drives any UI.
package transport

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kochabx/requex/errors"
	"github.com/kochabx/requex/request"
)

// Transport sends one request. Non-2xx replies are reported as
// *ResponseError, failures without a reply as the underlying error, and
// cancellation as an error matching context.Canceled.
type Transport interface {
	Send(ctx context.Context, d *request.Descriptor) (*RawResponse, error)
}

// Func adapts a function to Transport
type Func func(ctx context.Context, d *request.Descriptor) (*RawResponse, error)

func (f Func) Send(ctx context.Context, d *request.Descriptor) (*RawResponse, error) {
	return f(ctx, d)
}

// RawResponse is a reply as received
type RawResponse struct {
	Status int
	Header http.Header
	Body   []byte
}

// OK reports whether the status code is 2xx
func (r *RawResponse) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// ResponseError is returned when the server replied with a non-2xx status
type ResponseError struct {
	Method   string
	URL      string
	Response *RawResponse
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.Response.Status)
}

// AsResponseError extracts the *ResponseError in err's chain
func AsResponseError(err error) (*ResponseError, bool) {
	var re *ResponseError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// IsCanceled reports whether err was caused by context cancellation
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

func check(d *request.Descriptor, raw *RawResponse) (*RawResponse, error) {
	if raw.OK() {
		return raw, nil
	}
	return nil, &ResponseError{Method: d.Method, URL: d.FullURL(), Response: raw}
}

func withTimeout(ctx context.Context, d *request.Descriptor) (context.Context, context.CancelFunc) {
	if d.Timeout > 0 {
		return context.WithTimeout(ctx, d.Timeout)
	}
	return ctx, func() {}
}
