// Package response turns a raw transport reply into a Verdict: empty
// bodies, file downloads and html pages are successes on their own, every
// other body is judged by the request's success predicate.
package response

import (
	"mime"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/kochabx/requex/core/net/http"
	"github.com/kochabx/requex/errors"
	"github.com/kochabx/requex/request"
	"github.com/kochabx/requex/transport"
)

var ErrSaveFailed = errors.Internal("failed to save attachment")

// FileSaver persists an attachment reply
type FileSaver interface {
	Save(body []byte, filename, mime string) error
}

// SaverFunc adapts a function to FileSaver
type SaverFunc func(body []byte, filename, mime string) error

func (f SaverFunc) Save(body []byte, filename, mime string) error {
	return f(body, filename, mime)
}

// Classify maps raw to a Verdict. The first matching rule wins:
//
//	empty body                      success, no data
//	Content-Disposition: attachment  saved through saver, success, no data
//	Content-Type: text/html          success, no data
//	anything else                   decoded, judged by d.IsSuccess
//
// Without a predicate a decoded body is a failure. The returned error is
// non-nil only when saving an attachment failed, in which case the verdict
// is unsuccessful.
func Classify(raw *transport.RawResponse, d request.Descriptor, saver FileSaver) (Verdict, error) {
	v := Verdict{
		Status: Status(raw.Status),
		Header: raw.Header,
		Raw:    raw.Body,
	}

	if len(raw.Body) == 0 {
		v.Success = true
		return v, nil
	}

	if disposition := raw.Header.Get(http.HeaderContentDisposition); strings.Contains(disposition, "attachment") {
		if saver == nil {
			v.Success = true
			return v, nil
		}
		filename := Filename(disposition)
		if err := saver.Save(raw.Body, filename, contentType(raw)); err != nil {
			return v, ErrSaveFailed.WithMetadata(map[string]string{"filename": filename}).WithCause(err)
		}
		v.Success = true
		return v, nil
	}

	if strings.Contains(raw.Header.Get(http.HeaderContentType), http.ContentTypeHTML) {
		v.Success = true
		return v, nil
	}

	v.Data = DecodeBody(raw.Body)
	if d.IsSuccess != nil {
		v.Success = d.IsSuccess(v.Data)
	}
	return v, nil
}

// Filename extracts the file name of a Content-Disposition header value.
// Quotes are stripped and percent escapes decoded; RFC 5987 filename*
// values are honoured when present.
func Filename(disposition string) string {
	if _, params, err := mime.ParseMediaType(disposition); err == nil {
		if name, ok := params["filename"]; ok && name != "" {
			return unescape(name)
		}
	}

	_, after, found := strings.Cut(disposition, "filename=")
	if !found {
		return ""
	}
	name, _, _ := strings.Cut(after, ";")
	return unescape(strings.Trim(strings.TrimSpace(name), `"'`))
}

func unescape(name string) string {
	if s, err := url.PathUnescape(name); err == nil {
		return s
	}
	return name
}

func contentType(raw *transport.RawResponse) string {
	if ct := raw.Header.Get(http.HeaderContentType); ct != "" {
		return ct
	}
	return mimetype.Detect(raw.Body).String()
}
