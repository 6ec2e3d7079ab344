// Package request describes an outgoing request before and after it is
// shaped for the transport: URL template substitution, payload encoding
// by content type, layered option merging and request fingerprints.
package request

import (
	"io"
	"maps"
	"strings"
	"time"

	"github.com/kochabx/requex/core/net/http"
	"github.com/kochabx/requex/core/qs"
	"github.com/kochabx/requex/errors"
)

// ContentType selects how Data is encoded for non-GET requests
type ContentType string

const (
	JSON           ContentType = "JSON"
	FormData       ContentType = "FORM_DATA"
	FormURLEncoded ContentType = "FORM_URLENCODED"
)

// MediaType returns the media type sent on the wire for c
func (c ContentType) MediaType() string {
	switch c {
	case FormData:
		return http.ContentTypeMultipart
	case FormURLEncoded:
		return http.ContentTypeForm
	default:
		return http.ContentTypeJSON
	}
}

var ErrInvalidDescriptor = errors.BadRequest("invalid request descriptor")

// Predicate decides whether a decoded response body is a business success
type Predicate func(body any) bool

// Descriptor is the logical representation of one request. The flag
// fields are tri-state so that a later layer in Merge can switch them off.
type Descriptor struct {
	Method          string
	URL             string
	BaseURL         string
	Data            map[string]any
	Params          map[string]any
	Headers         map[string]string
	ContentType     ContentType
	ShowProgress    *bool
	IgnoreCancel    *bool
	WithCredentials *bool
	IsSuccess       Predicate
	Timeout         time.Duration

	// Body is set by TransformData
	Body Payload
}

// Bool returns a pointer to v, for the tri-state flag fields
func Bool(v bool) *bool {
	return &v
}

// ProgressVisible reports whether the request drives the progress indicator
func (d Descriptor) ProgressVisible() bool {
	return d.ShowProgress != nil && *d.ShowProgress
}

// CancelIgnored reports whether the request opts out of deduplication
func (d Descriptor) CancelIgnored() bool {
	return d.IgnoreCancel != nil && *d.IgnoreCancel
}

// CredentialsIncluded reports whether cookies travel with the request
func (d Descriptor) CredentialsIncluded() bool {
	return d.WithCredentials != nil && *d.WithCredentials
}

// Header looks up a header case-insensitively
func (d Descriptor) Header(name string) (string, bool) {
	for k, v := range d.Headers {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

// SetHeader sets a header, replacing any existing spelling of the same name.
// It mutates d's header map, so call it on a clone.
func (d *Descriptor) SetHeader(name, value string) {
	if d.Headers == nil {
		d.Headers = make(map[string]string)
	}
	for k := range d.Headers {
		if strings.EqualFold(k, name) {
			delete(d.Headers, k)
		}
	}
	d.Headers[name] = value
}

// FullURL joins BaseURL and URL and appends the bracket-encoded Params
func (d Descriptor) FullURL() string {
	return http.AppendQuery(http.Join(d.BaseURL, d.URL), qs.Encode(d.Params))
}

// Validate checks the invariants that must hold after merging
func (d Descriptor) Validate() error {
	if strings.TrimSpace(d.Method) == "" {
		return ErrInvalidDescriptor.WithMetadata(map[string]string{"field": "method"})
	}
	if strings.TrimSpace(d.URL) == "" {
		return ErrInvalidDescriptor.WithMetadata(map[string]string{"field": "url"})
	}
	return nil
}

// Clone returns a deep copy of d. Nested maps and slices inside Data and
// Params are copied; readers and other opaque values are shared.
func (d Descriptor) Clone() Descriptor {
	c := d
	c.Data = CloneMap(d.Data)
	c.Params = CloneMap(d.Params)
	c.Headers = maps.Clone(d.Headers)
	c.ShowProgress = cloneBool(d.ShowProgress)
	c.IgnoreCancel = cloneBool(d.IgnoreCancel)
	c.WithCredentials = cloneBool(d.WithCredentials)
	c.Body = d.Body.clone()
	return c
}

// CloneMap deep-copies a map of decoded JSON-like values
func CloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return CloneMap(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		return append([]string(nil), x...)
	default:
		return v
	}
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

// File is a multipart file part
type File struct {
	Name        string
	ContentType string
	Reader      io.Reader
}
