// Package qs serializes nested maps into query strings using bracket
// notation for sequences and nested objects:
//
//	{"tags": ["a", "b"], "user": {"name": "x"}} -> tags[]=a&tags[]=b&user[name]=x
//
// Keys are emitted in sorted order. Key segments and values are percent
// encoded per RFC 3986 while the brackets themselves stay literal.
package qs

import (
	"fmt"
	"maps"
	"net/url"
	"reflect"
	"slices"
	"strings"
	"time"
)

// Pair is a single encoded key/value before joining
type Pair struct {
	Key   string
	Value string
}

// Encode serializes data into a query string
func Encode(data map[string]any) string {
	pairs := Flatten(data)
	if len(pairs) == 0 {
		return ""
	}

	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(encodeKey(p.Key))
		b.WriteByte('=')
		b.WriteString(Escape(p.Value))
	}
	return b.String()
}

// Values flattens data into url.Values keyed by bracketed names, preserving
// repeated keys for sequences
func Values(data map[string]any) url.Values {
	values := make(url.Values)
	for _, p := range Flatten(data) {
		values.Add(p.Key, p.Value)
	}
	return values
}

// Flatten walks data and returns the unescaped key/value pairs in output order
func Flatten(data map[string]any) []Pair {
	var pairs []Pair
	for _, k := range slices.Sorted(maps.Keys(data)) {
		pairs = flatten(pairs, k, reflect.ValueOf(data[k]))
	}
	return pairs
}

func flatten(pairs []Pair, prefix string, v reflect.Value) []Pair {
	if !v.IsValid() {
		return append(pairs, Pair{Key: prefix})
	}

	if s, ok := scalar(v); ok {
		return append(pairs, Pair{Key: prefix, Value: s})
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return append(pairs, Pair{Key: prefix})
		}
		return flatten(pairs, prefix, v.Elem())

	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8 {
			return append(pairs, Pair{Key: prefix, Value: string(v.Bytes())})
		}
		for i := 0; i < v.Len(); i++ {
			pairs = flatten(pairs, prefix+"[]", v.Index(i))
		}
		return pairs

	case reflect.Map:
		keys := make([]string, 0, v.Len())
		index := make(map[string]reflect.Value, v.Len())
		for _, mk := range v.MapKeys() {
			name := fmt.Sprint(mk.Interface())
			keys = append(keys, name)
			index[name] = v.MapIndex(mk)
		}
		slices.Sort(keys)
		for _, k := range keys {
			pairs = flatten(pairs, prefix+"["+k+"]", index[k])
		}
		return pairs

	default:
		return append(pairs, Pair{Key: prefix, Value: fmt.Sprint(v.Interface())})
	}
}

func scalar(v reflect.Value) (string, bool) {
	if v.CanInterface() {
		switch x := v.Interface().(type) {
		case time.Time:
			return x.Format(time.RFC3339Nano), true
		case fmt.Stringer:
			if v.Kind() != reflect.Pointer || !v.IsNil() {
				return x.String(), true
			}
		}
	}

	switch v.Kind() {
	case reflect.String:
		return v.String(), true
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return fmt.Sprint(v.Interface()), true
	}
	return "", false
}

// Escape percent-encodes s per RFC 3986 (space as %20, not "+")
func Escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// encodeKey escapes every key segment but keeps the brackets literal
func encodeKey(key string) string {
	var b strings.Builder
	start := 0
	for i := 0; i < len(key); i++ {
		if key[i] == '[' || key[i] == ']' {
			b.WriteString(Escape(key[start:i]))
			b.WriteByte(key[i])
			start = i + 1
		}
	}
	b.WriteString(Escape(key[start:]))
	return b.String()
}
