package transport

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/kochabx/requex/request"
)

// Resty sends requests through go-resty. Form and multipart bodies go
// through resty's form API; JSON bodies are encoded the same way as the
// net/http transport. Resty also contributes its client configuration
// (transport, proxies, TLS, middleware) and its cookie jar for
// credentialed requests.
type Resty struct {
	client    *resty.Client
	anonymous *resty.Client
	buffers   *bufferPool
}

// RestyOption configures a Resty transport
type RestyOption func(*resty.Client)

// NewResty creates a resty-backed transport. Options are applied to the
// shared client before the jar-less copy for anonymous requests is made.
func NewResty(client *resty.Client, opts ...RestyOption) *Resty {
	if client == nil {
		client = resty.New()
	}
	for _, opt := range opts {
		opt(client)
	}

	base := client.GetClient()
	anonymous := resty.NewWithClient(&http.Client{
		Transport:     base.Transport,
		CheckRedirect: base.CheckRedirect,
		Timeout:       base.Timeout,
	})
	anonymous.SetCookieJar(nil)
	anonymous.Header = client.Header.Clone()

	return &Resty{
		client:    client,
		anonymous: anonymous,
		buffers:   newBufferPool(),
	}
}

// Client returns the underlying resty client
func (r *Resty) Client() *resty.Client {
	return r.client
}

// Send implements Transport
func (r *Resty) Send(ctx context.Context, d *request.Descriptor) (*RawResponse, error) {
	ctx, cancel := withTimeout(ctx, d)
	defer cancel()

	client := r.anonymous
	if d.CredentialsIncluded() {
		client = r.client
	}

	buf := r.buffers.get()
	defer r.buffers.put(buf)

	req := client.R().SetContext(ctx)
	contentType, err := setBody(req, d, buf)
	if err != nil {
		return nil, err
	}
	req.SetHeaders(headers(d, contentType))

	resp, err := req.Execute(d.Method, d.FullURL())
	if err != nil {
		return nil, err
	}

	return check(d, &RawResponse{
		Status: resp.StatusCode(),
		Header: resp.Header().Clone(),
		Body:   resp.Body(),
	})
}

// setBody attaches the payload of d to req and returns the content type
// to send. Multipart returns "" since resty writes the boundary header.
func setBody(req *resty.Request, d *request.Descriptor, buf *bytes.Buffer) (string, error) {
	switch d.Body.Kind {
	case request.PayloadURLEncoded:
		req.SetFormDataFromValues(d.Body.Values)
		return request.FormURLEncoded.MediaType(), nil
	case request.PayloadMultipart:
		// plain values go through MultipartField too: resty reads "@key"
		// form data as a local file path
		fields := make([]*resty.MultipartField, 0, len(d.Body.Form))
		for _, f := range d.Body.Form {
			file, ok := fieldFile(f.Key, f.Value)
			if !ok {
				fields = append(fields, &resty.MultipartField{
					Param:  f.Key,
					Reader: strings.NewReader(fieldString(f.Value)),
				})
				continue
			}
			reader := file.Reader
			if reader == nil {
				reader = bytes.NewReader(nil)
			}
			fields = append(fields, &resty.MultipartField{
				Param:       f.Key,
				FileName:    file.Name,
				ContentType: fileContentType(file),
				Reader:      reader,
			})
		}
		req.SetMultipartFields(fields...)
		return "", nil
	default:
		contentType, err := encodeBody(d, buf)
		if err != nil {
			return "", err
		}
		if contentType != "" {
			req.SetBody(buf.Bytes())
		}
		return contentType, nil
	}
}
