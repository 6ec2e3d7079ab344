package request

import "net/url"

// PayloadKind identifies how a Payload is put on the wire
type PayloadKind int

const (
	PayloadNone PayloadKind = iota
	PayloadJSON
	PayloadMultipart
	PayloadURLEncoded
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadJSON:
		return "json"
	case PayloadMultipart:
		return "multipart"
	case PayloadURLEncoded:
		return "urlencoded"
	default:
		return "none"
	}
}

// FormField is one multipart part. Repeated keys are allowed and kept in order.
type FormField struct {
	Key   string
	Value any
}

// Payload is the transport-ready body produced by TransformData
type Payload struct {
	Kind    PayloadKind
	JSON    map[string]any
	Form    []FormField
	Encoded string
	Values  url.Values // the pairs behind Encoded
}

// Empty reports whether there is nothing to send
func (p Payload) Empty() bool {
	return p.Kind == PayloadNone
}

func (p Payload) clone() Payload {
	c := p
	c.JSON = CloneMap(p.JSON)
	if p.Form != nil {
		c.Form = append([]FormField(nil), p.Form...)
	}
	if p.Values != nil {
		c.Values = make(url.Values, len(p.Values))
		for k, v := range p.Values {
			c.Values[k] = append([]string(nil), v...)
		}
	}
	return c
}
