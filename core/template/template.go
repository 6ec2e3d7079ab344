// Package template parses and renders path templates with named ":name"
// placeholders, e.g. "/users/:id/posts/:post?".
//
// A placeholder name is a run of letters, digits and underscores following a
// colon. A trailing "?" marks it optional: when the value is missing the
// placeholder and the "/" in front of it are dropped. A colon that is not
// followed by a name character, or one escaped as "\:", is literal.
package template

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/kochabx/requex/errors"
)

var (
	ErrMissingParam  = errors.BadRequest("missing template parameter")
	ErrInvalidParam  = errors.BadRequest("invalid template parameter value")
	ErrDuplicateName = errors.BadRequest("duplicate template parameter name")
)

// Token is either a literal segment or a named placeholder
type Token struct {
	Literal  string
	Name     string
	Prefix   string
	Optional bool
}

// IsParam reports whether the token is a placeholder
func (t Token) IsParam() bool {
	return t.Name != ""
}

// Template is a parsed path template
type Template struct {
	raw    string
	tokens []Token
}

// Parse parses raw into a Template
func Parse(raw string) (*Template, error) {
	var (
		tokens  []Token
		literal strings.Builder
		seen    = make(map[string]struct{})
	)

	flush := func() {
		if literal.Len() > 0 {
			tokens = append(tokens, Token{Literal: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(raw); i++ {
		c := raw[i]

		if c == '\\' && i+1 < len(raw) {
			literal.WriteByte(raw[i+1])
			i++
			continue
		}

		if c != ':' || i+1 >= len(raw) || !isNameChar(raw[i+1]) {
			literal.WriteByte(c)
			continue
		}

		j := i + 1
		for j < len(raw) && isNameChar(raw[j]) {
			j++
		}
		name := raw[i+1 : j]
		if _, dup := seen[name]; dup {
			return nil, ErrDuplicateName.WithMetadata(map[string]string{"name": name, "template": raw})
		}
		seen[name] = struct{}{}

		tok := Token{Name: name}
		if j < len(raw) && raw[j] == '?' {
			tok.Optional = true
			j++
		}

		// the slash in front of a placeholder belongs to it, so an omitted
		// optional placeholder takes its separator along
		if s := literal.String(); strings.HasSuffix(s, "/") {
			literal.Reset()
			literal.WriteString(s[:len(s)-1])
			tok.Prefix = "/"
		}

		flush()
		tokens = append(tokens, tok)
		i = j - 1
	}
	flush()

	return &Template{raw: raw, tokens: tokens}, nil
}

// MustParse is like Parse but panics on error
func MustParse(raw string) *Template {
	t, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return t
}

// Tokens returns the parsed tokens
func (t *Template) Tokens() []Token {
	return t.tokens
}

// Names returns the placeholder names in template order
func (t *Template) Names() []string {
	var names []string
	for _, tok := range t.tokens {
		if tok.IsParam() {
			names = append(names, tok.Name)
		}
	}
	return names
}

// HasParams reports whether the template contains at least one placeholder
func (t *Template) HasParams() bool {
	for _, tok := range t.tokens {
		if tok.IsParam() {
			return true
		}
	}
	return false
}

// String returns the raw template
func (t *Template) String() string {
	return t.raw
}

// Render substitutes placeholders with values from data. Values are
// formatted with fmt and path-escaped. A required placeholder with no
// value yields ErrMissingParam.
func (t *Template) Render(data map[string]any) (string, error) {
	var b strings.Builder
	b.Grow(len(t.raw))

	for _, tok := range t.tokens {
		if !tok.IsParam() {
			b.WriteString(tok.Literal)
			continue
		}

		v, ok := data[tok.Name]
		if !ok || v == nil {
			if tok.Optional {
				continue
			}
			return "", ErrMissingParam.WithMetadata(map[string]string{"name": tok.Name, "template": t.raw})
		}

		s, err := format(v)
		if err != nil {
			return "", ErrInvalidParam.WithMetadata(map[string]string{"name": tok.Name}).WithCause(err)
		}
		if s == "" && !tok.Optional {
			return "", ErrMissingParam.WithMetadata(map[string]string{"name": tok.Name, "template": t.raw})
		}
		if s == "" {
			continue
		}

		b.WriteString(tok.Prefix)
		b.WriteString(url.PathEscape(s))
	}

	return b.String(), nil
}

func format(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case fmt.Stringer:
		return x.String(), nil
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprint(x), nil
	case interface{ MarshalText() ([]byte, error) }:
		b, err := x.MarshalText()
		return string(b), err
	default:
		return "", fmt.Errorf("unsupported type %T", v)
	}
}

func isNameChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
