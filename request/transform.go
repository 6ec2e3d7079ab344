package request

import (
	"reflect"
	"strings"

	"github.com/kochabx/requex/core/net/http"
	"github.com/kochabx/requex/core/qs"
	"github.com/kochabx/requex/core/template"
	"github.com/kochabx/requex/errors"
)

var ErrUnresolvedPlaceholder = errors.BadRequest("unresolved url placeholder")

// TransformURL substitutes ":name" placeholders in the path part of d.URL
// with values from d.Data. An absolute origin prefix is kept verbatim.
// When the template has placeholders, the consumed keys are removed from
// the returned Data so they are not sent a second time.
func TransformURL(d Descriptor) (Descriptor, error) {
	out := d.Clone()

	origin, path := http.SplitOrigin(out.URL)
	tpl, err := template.Parse(path)
	if err != nil {
		return d, ErrUnresolvedPlaceholder.WithMetadata(map[string]string{"url": d.URL}).WithCause(err)
	}

	if !tpl.HasParams() {
		return out, nil
	}

	rendered, err := tpl.Render(out.Data)
	if err != nil {
		return d, ErrUnresolvedPlaceholder.WithMetadata(map[string]string{"url": d.URL}).WithCause(err)
	}

	for _, name := range tpl.Names() {
		delete(out.Data, name)
	}
	out.URL = origin + rendered

	return out, nil
}

// TransformData encodes d.Data into d.Body according to ContentType and
// method:
//
//   - FORM_DATA, non-GET: multipart fields, sequences repeat their key; method becomes POST
//   - FORM_URLENCODED, non-GET: bracket-encoded string (empty without Data) and a form content-type header
//   - GET: Data moves into Params, no body
//   - otherwise: Data is the JSON body
func TransformData(d Descriptor) (Descriptor, error) {
	out := d.Clone()
	method := strings.ToUpper(out.Method)
	isGet := method == http.MethodGet

	switch {
	case out.ContentType == FormData && !isGet:
		out.Body = Payload{Kind: PayloadMultipart, Form: formFields(out.Data)}
		out.Method = http.MethodPost

	case out.ContentType == FormURLEncoded && !isGet:
		out.Body = Payload{Kind: PayloadURLEncoded, Encoded: qs.Encode(out.Data), Values: qs.Values(out.Data)}
		out.SetHeader("content-type", http.ContentTypeForm)

	case isGet && out.Data != nil:
		if out.Params == nil {
			out.Params = make(map[string]any, len(out.Data))
		}
		for k, v := range out.Data {
			out.Params[k] = v
		}
		out.Data = nil
		out.Body = Payload{}

	case out.Data != nil:
		out.Body = Payload{Kind: PayloadJSON, JSON: out.Data}
	}

	return out, nil
}

// Transform applies TransformURL then TransformData
func Transform(d Descriptor) (Descriptor, error) {
	out, err := TransformURL(d)
	if err != nil {
		return d, err
	}
	return TransformData(out)
}

func formFields(data map[string]any) []FormField {
	fields := make([]FormField, 0, len(data))
	for _, k := range sortedKeys(data) {
		v := data[k]
		rv := reflect.ValueOf(v)
		if rv.IsValid() && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Type().Elem().Kind() != reflect.Uint8 {
			for i := 0; i < rv.Len(); i++ {
				fields = append(fields, FormField{Key: k, Value: rv.Index(i).Interface()})
			}
			continue
		}
		fields = append(fields, FormField{Key: k, Value: v})
	}
	return fields
}
