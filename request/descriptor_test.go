package request

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/requex/errors"
)

func TestMerge(t *testing.T) {
	isOK := func(any) bool { return true }

	defaults := Descriptor{Method: "GET", ContentType: JSON, Timeout: time.Second}
	instance := Descriptor{
		BaseURL:      "http://api.test",
		Headers:      map[string]string{"Accept": "application/json", "content-type": "application/json"},
		ShowProgress: Bool(true),
		IsSuccess:    isOK,
	}
	call := Descriptor{
		Method:       "POST",
		URL:          "/users",
		Headers:      map[string]string{"Content-Type": "text/plain", "X-Trace": "1"},
		ShowProgress: Bool(false),
		Data:         map[string]any{"name": "x"},
	}

	got := Merge(defaults, instance, call)

	assert.Equal(t, "POST", got.Method)
	assert.Equal(t, "/users", got.URL)
	assert.Equal(t, "http://api.test", got.BaseURL)
	assert.Equal(t, JSON, got.ContentType)
	assert.Equal(t, time.Second, got.Timeout)
	assert.False(t, got.ProgressVisible())
	assert.NotNil(t, got.IsSuccess)
	assert.Equal(t, map[string]string{"Accept": "application/json", "Content-Type": "text/plain", "X-Trace": "1"}, got.Headers)

	got.Data["name"] = "changed"
	got.Headers["Accept"] = "*/*"
	assert.Equal(t, "x", call.Data["name"])
	assert.Equal(t, "application/json", instance.Headers["Accept"])
}

func TestMergeFlagsUnsetKeepEarlier(t *testing.T) {
	got := Merge(Descriptor{IgnoreCancel: Bool(true), WithCredentials: Bool(true)}, Descriptor{})
	assert.True(t, got.CancelIgnored())
	assert.True(t, got.CredentialsIncluded())
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Descriptor{Method: "GET", URL: "/x"}.Validate())

	err := Descriptor{URL: "/x"}.Validate()
	assert.True(t, errors.Is(err, ErrInvalidDescriptor))

	err = Descriptor{Method: "GET"}.Validate()
	require.Error(t, err)
	var e *errors.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "url", e.GetMetadata()["field"])

	err = Descriptor{Method: "GET", BaseURL: "https://api.example.com"}.Validate()
	assert.True(t, errors.Is(err, ErrInvalidDescriptor), "a base url alone is not a request url")
}

func TestCloneIsDeep(t *testing.T) {
	d := Descriptor{Data: map[string]any{"nested": map[string]any{"k": "v"}, "list": []any{"a"}}}
	c := d.Clone()

	c.Data["nested"].(map[string]any)["k"] = "changed"
	c.Data["list"].([]any)[0] = "b"

	assert.Equal(t, "v", d.Data["nested"].(map[string]any)["k"])
	assert.Equal(t, "a", d.Data["list"].([]any)[0])
}

func TestHeaderCaseInsensitive(t *testing.T) {
	d := Descriptor{Headers: map[string]string{"content-type": "a"}}
	v, ok := d.Header("Content-Type")
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	d.SetHeader("CONTENT-TYPE", "b")
	assert.Equal(t, map[string]string{"CONTENT-TYPE": "b"}, d.Headers)
}

func TestContentTypeMediaType(t *testing.T) {
	assert.Equal(t, "application/json", JSON.MediaType())
	assert.Equal(t, "multipart/form-data", FormData.MediaType())
	assert.Equal(t, "application/x-www-form-urlencoded", FormURLEncoded.MediaType())
}

func TestFingerprint(t *testing.T) {
	a := Descriptor{Method: "post", URL: "/users", Body: Payload{Kind: PayloadJSON, JSON: map[string]any{"a": 1, "b": 2}}}
	b := Descriptor{Method: "POST", URL: "/users", Body: Payload{Kind: PayloadJSON, JSON: map[string]any{"b": 2, "a": 1}}}
	assert.Equal(t, FingerprintOf(a), FingerprintOf(b))

	c := b.Clone()
	c.Body.JSON["a"] = 3
	assert.NotEqual(t, FingerprintOf(a), FingerprintOf(c))

	get1 := Descriptor{Method: "GET", URL: "/users", Params: map[string]any{"page": 1}}
	get2 := Descriptor{Method: "GET", URL: "/users", Params: map[string]any{"page": 2}}
	assert.NotEqual(t, FingerprintOf(get1), FingerprintOf(get2))

	other := Descriptor{Method: "DELETE", URL: "/users"}
	assert.NotEqual(t, FingerprintOf(Descriptor{Method: "GET", URL: "/users"}), FingerprintOf(other))
	assert.NotEmpty(t, FingerprintOf(other).String())
}
