package response

import (
	"encoding/json"
	"net/http"

	"github.com/kochabx/requex/errors"
)

var ErrNoBody = errors.UnprocessableEntity("response has no body to decode")

// Verdict is the classified outcome of one request. Data holds the decoded
// body: map[string]any or []any for JSON, a string for anything else, nil
// for empty, html and attachment replies.
type Verdict struct {
	Success bool
	Data    any
	Raw     []byte
	Status  Status
	Header  http.Header
}

// Decode unmarshals the raw JSON body into dst
func (v Verdict) Decode(dst any) error {
	if len(v.Raw) == 0 {
		return ErrNoBody
	}
	if err := json.Unmarshal(v.Raw, dst); err != nil {
		return errors.UnprocessableEntity("decode response body").WithCause(err)
	}
	return nil
}

// Field returns a top-level field of a JSON object body
func (v Verdict) Field(name string) (any, bool) {
	m, ok := v.Data.(map[string]any)
	if !ok {
		return nil, false
	}
	f, ok := m[name]
	return f, ok
}

// DecodeBody parses body as JSON, falling back to the raw text when it is
// not valid JSON. An empty body decodes to nil.
func DecodeBody(body []byte) any {
	if len(body) == 0 {
		return nil
	}
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return string(body)
	}
	return data
}
