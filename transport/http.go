package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"

	"golang.org/x/net/publicsuffix"

	"github.com/kochabx/requex/errors"
	"github.com/kochabx/requex/request"
)

// DefaultMaxBodySize caps how much of a reply body is read
const DefaultMaxBodySize int64 = 32 << 20

var ErrBodyTooLarge = errors.BadGateway("response body exceeds size limit")

// HTTP sends requests with net/http, reusing encode and read buffers.
// Requests that include credentials go through a client with a cookie
// jar; all others go through a jar-less copy so no cookies travel.
type HTTP struct {
	client      *http.Client
	credentials *http.Client
	anonymous   *http.Client
	customize   []func(*http.Client)
	maxBodySize int64
	buffers     *bufferPool
}

// HTTPOption configures an HTTP transport
type HTTPOption func(*HTTP)

// WithClient sets the base *http.Client
func WithClient(client *http.Client) HTTPOption {
	return func(h *HTTP) {
		if client != nil {
			h.client = client
		}
	}
}

// WithCustomize lets the caller adjust the base client before it is used
func WithCustomize(fn func(*http.Client)) HTTPOption {
	return func(h *HTTP) {
		if fn != nil {
			h.customize = append(h.customize, fn)
		}
	}
}

// WithMaxBodySize limits the number of reply bytes read
func WithMaxBodySize(n int64) HTTPOption {
	return func(h *HTTP) {
		if n > 0 {
			h.maxBodySize = n
		}
	}
}

// NewHTTP creates a net/http transport
func NewHTTP(opts ...HTTPOption) *HTTP {
	h := &HTTP{
		client:      &http.Client{},
		maxBodySize: DefaultMaxBodySize,
		buffers:     newBufferPool(),
	}

	for _, opt := range opts {
		opt(h)
	}
	for _, fn := range h.customize {
		fn(h.client)
	}

	credentials := *h.client
	if credentials.Jar == nil {
		// cookiejar.New never returns an error
		jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		credentials.Jar = jar
	}
	anonymous := *h.client
	anonymous.Jar = nil

	h.credentials = &credentials
	h.anonymous = &anonymous
	return h
}

// Jar returns the cookie jar used for credentialed requests
func (h *HTTP) Jar() http.CookieJar {
	return h.credentials.Jar
}

// Send implements Transport
func (h *HTTP) Send(ctx context.Context, d *request.Descriptor) (*RawResponse, error) {
	ctx, cancel := withTimeout(ctx, d)
	defer cancel()

	buf := h.buffers.get()
	defer h.buffers.put(buf)

	contentType, err := encodeBody(d, buf)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if contentType != "" {
		body = bytes.NewReader(buf.Bytes())
	}

	req, err := http.NewRequestWithContext(ctx, d.Method, d.FullURL(), body)
	if err != nil {
		return nil, err
	}
	for k, v := range headers(d, contentType) {
		req.Header.Set(k, v)
	}

	client := h.anonymous
	if d.CredentialsIncluded() {
		client = h.credentials
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := h.read(resp)
	if err != nil {
		return nil, err
	}
	return check(d, raw)
}

func (h *HTTP) read(resp *http.Response) (*RawResponse, error) {
	buf := h.buffers.get()
	defer h.buffers.put(buf)

	n, err := buf.ReadFrom(io.LimitReader(resp.Body, h.maxBodySize+1))
	if err != nil {
		return nil, err
	}
	if n > h.maxBodySize {
		return nil, ErrBodyTooLarge.WithMetadata(map[string]string{"status": resp.Status})
	}

	var body []byte
	if n > 0 {
		body = bytes.Clone(buf.Bytes())
	}
	return &RawResponse{
		Status: resp.StatusCode,
		Header: resp.Header.Clone(),
		Body:   body,
	}, nil
}
