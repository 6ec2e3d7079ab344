package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
	"sync"

	"github.com/kochabx/requex/core/net/http"
	"github.com/kochabx/requex/errors"
	"github.com/kochabx/requex/request"
)

const (
	defaultBufferSize = 4096
	maxBufferSize     = 1024 * 1024 // 1MB
)

var ErrEncodeBody = errors.BadRequest("failed to encode request body")

type bufferPool struct {
	pool sync.Pool
}

func newBufferPool() *bufferPool {
	return &bufferPool{
		pool: sync.Pool{
			New: func() any {
				return bytes.NewBuffer(make([]byte, 0, defaultBufferSize))
			},
		},
	}
}

func (p *bufferPool) get() *bytes.Buffer {
	buf := p.pool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// put returns buf to the pool unless it grew too large to keep around
func (p *bufferPool) put(buf *bytes.Buffer) {
	if buf.Cap() <= maxBufferSize {
		p.pool.Put(buf)
	}
}

// encodeBody writes the payload of d into buf and returns the content type
// it must be sent with. An empty payload returns "".
func encodeBody(d *request.Descriptor, buf *bytes.Buffer) (string, error) {
	switch d.Body.Kind {
	case request.PayloadJSON:
		if err := json.NewEncoder(buf).Encode(d.Body.JSON); err != nil {
			return "", ErrEncodeBody.WithCause(err)
		}
		return http.ContentTypeJSON, nil
	case request.PayloadURLEncoded:
		buf.WriteString(d.Body.Encoded)
		return http.ContentTypeForm, nil
	case request.PayloadMultipart:
		w := multipart.NewWriter(buf)
		for _, f := range d.Body.Form {
			if err := writeField(w, f); err != nil {
				return "", ErrEncodeBody.WithMetadata(map[string]string{"field": f.Key}).WithCause(err)
			}
		}
		if err := w.Close(); err != nil {
			return "", ErrEncodeBody.WithCause(err)
		}
		return w.FormDataContentType(), nil
	default:
		return "", nil
	}
}

func writeField(w *multipart.Writer, f request.FormField) error {
	if file, ok := fieldFile(f.Key, f.Value); ok {
		return writeFile(w, f.Key, file)
	}
	return w.WriteField(f.Key, fieldString(f.Value))
}

// fieldFile reports whether a form value is sent as a file part
func fieldFile(key string, v any) (request.File, bool) {
	switch v := v.(type) {
	case request.File:
		return v, true
	case *request.File:
		if v != nil {
			return *v, true
		}
	case []byte:
		return request.File{Name: key, Reader: bytes.NewReader(v)}, true
	}
	return request.File{}, false
}

func fieldString(v any) string {
	switch v := v.(type) {
	case nil, *request.File:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func writeFile(w *multipart.Writer, key string, file request.File) error {
	ct := fileContentType(file)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, quoteEscaper.Replace(key), quoteEscaper.Replace(file.Name)))
	h.Set(http.HeaderContentType, ct)
	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	if file.Reader == nil {
		return nil
	}
	_, err = io.Copy(part, file.Reader)
	return err
}

func fileContentType(file request.File) string {
	if file.ContentType == "" {
		return http.ContentTypeOctet
	}
	return file.ContentType
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// headers returns the header set to send for d. The multipart boundary
// always wins over a configured content type; a request without a body
// carries no content type at all.
func headers(d *request.Descriptor, contentType string) map[string]string {
	out := make(map[string]string, len(d.Headers)+1)
	for k, v := range d.Headers {
		if strings.EqualFold(k, http.HeaderContentType) {
			continue
		}
		out[k] = v
	}

	switch {
	case contentType == "":
	case d.Body.Kind == request.PayloadMultipart:
		out[http.HeaderContentType] = contentType
	default:
		if ct, ok := d.Header(http.HeaderContentType); ok && ct != "" {
			out[http.HeaderContentType] = ct
		} else {
			out[http.HeaderContentType] = contentType
		}
	}
	return out
}
