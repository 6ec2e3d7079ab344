package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/requex/request"
)

type echo struct {
	Method      string              `json:"method"`
	ContentType string              `json:"contentType"`
	Query       string              `json:"query"`
	Body        string              `json:"body"`
	Form        map[string][]string `json:"form"`
	Files       map[string]string   `json:"files"`
	Cookie      string              `json:"cookie"`
	Requested   string              `json:"requestedWith"`
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Any("/echo", func(c *gin.Context) {
		out := echo{
			Method:    c.Request.Method,
			Query:     c.Request.URL.RawQuery,
			Cookie:    c.GetHeader("Cookie"),
			Requested: c.GetHeader("X-Requested-With"),
		}
		out.ContentType = c.GetHeader("Content-Type")
		if strings.HasPrefix(out.ContentType, "multipart/form-data") {
			form, err := c.MultipartForm()
			if err != nil {
				c.String(http.StatusBadRequest, err.Error())
				return
			}
			out.Form = form.Value
			out.Files = make(map[string]string)
			for key, headers := range form.File {
				f, _ := headers[0].Open()
				b, _ := io.ReadAll(f)
				f.Close()
				out.Files[key] = headers[0].Filename + ":" + string(b)
			}
		} else {
			b, _ := io.ReadAll(c.Request.Body)
			out.Body = string(b)
		}
		c.JSON(http.StatusOK, out)
	})
	r.GET("/login", func(c *gin.Context) {
		c.SetCookie("sid", "abc", 3600, "/", "", false, true)
		c.Status(http.StatusNoContent)
	})
	r.GET("/fail", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"errorMsg": "boom"})
	})
	r.GET("/slow", func(c *gin.Context) {
		select {
		case <-c.Request.Context().Done():
		case <-time.After(2 * time.Second):
		}
		c.Status(http.StatusOK)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func transports() map[string]func() Transport {
	return map[string]func() Transport{
		"http":  func() Transport { return NewHTTP() },
		"resty": func() Transport { return NewResty(nil) },
	}
}

func send(t *testing.T, tr Transport, d request.Descriptor) echo {
	t.Helper()
	shaped, err := request.Transform(d)
	require.NoError(t, err)

	raw, err := tr.Send(context.Background(), &shaped)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, raw.Status)

	var out echo
	require.NoError(t, json.Unmarshal(raw.Body, &out))
	return out
}

func TestSend(t *testing.T) {
	srv := newServer(t)

	for name, newTransport := range transports() {
		t.Run(name, func(t *testing.T) {
			tr := newTransport()

			t.Run("json", func(t *testing.T) {
				out := send(t, tr, request.Descriptor{
					Method:  "POST",
					BaseURL: srv.URL,
					URL:     "/echo",
					Data:    map[string]any{"name": "alice"},
					Headers: map[string]string{"X-Requested-With": "XMLHttpRequest"},
				})
				assert.Equal(t, "POST", out.Method)
				assert.Equal(t, "application/json", out.ContentType)
				assert.JSONEq(t, `{"name":"alice"}`, out.Body)
				assert.Equal(t, "XMLHttpRequest", out.Requested)
			})

			t.Run("urlencoded", func(t *testing.T) {
				out := send(t, tr, request.Descriptor{
					Method:      "PUT",
					BaseURL:     srv.URL,
					URL:         "/echo",
					ContentType: request.FormURLEncoded,
					Data:        map[string]any{"tags": []string{"a", "b"}},
				})
				assert.Equal(t, "application/x-www-form-urlencoded", out.ContentType)
				values, err := url.ParseQuery(out.Body)
				require.NoError(t, err)
				assert.Equal(t, url.Values{"tags[]": {"a", "b"}}, values)
				if name == "http" {
					assert.Equal(t, "tags[]=a&tags[]=b", out.Body)
				}
			})

			t.Run("urlencoded without data", func(t *testing.T) {
				out := send(t, tr, request.Descriptor{
					Method:      "POST",
					BaseURL:     srv.URL,
					URL:         "/echo",
					ContentType: request.FormURLEncoded,
					Headers:     map[string]string{"content-type": "application/json"},
				})
				assert.Equal(t, "application/x-www-form-urlencoded", out.ContentType)
				assert.Empty(t, out.Body)
			})

			t.Run("multipart", func(t *testing.T) {
				out := send(t, tr, request.Descriptor{
					Method:      "PUT",
					BaseURL:     srv.URL,
					URL:         "/echo",
					ContentType: request.FormData,
					Data: map[string]any{
						"ids":  []int{1, 2},
						"file": request.File{Name: "a.txt", Reader: strings.NewReader("hello")},
					},
					Headers: map[string]string{"content-type": "application/json"},
				})
				assert.Equal(t, "POST", out.Method)
				assert.True(t, strings.HasPrefix(out.ContentType, "multipart/form-data; boundary="))
				assert.Equal(t, []string{"1", "2"}, out.Form["ids"])
				assert.Equal(t, "a.txt:hello", out.Files["file"])
			})

			t.Run("multipart values stay values", func(t *testing.T) {
				out := send(t, tr, request.Descriptor{
					Method:      "POST",
					BaseURL:     srv.URL,
					URL:         "/echo",
					ContentType: request.FormData,
					Data: map[string]any{
						"@avatar": "/etc/hostname",
						"note":    nil,
						"empty":   request.File{Name: "e.bin"},
						"raw":     []byte("xyz"),
					},
				})
				assert.Equal(t, []string{"/etc/hostname"}, out.Form["@avatar"])
				assert.Equal(t, []string{""}, out.Form["note"])
				assert.Equal(t, "e.bin:", out.Files["empty"])
				assert.Equal(t, "raw:xyz", out.Files["raw"])
				assert.NotContains(t, out.Files, "avatar")
			})

			t.Run("get", func(t *testing.T) {
				out := send(t, tr, request.Descriptor{
					Method:  "GET",
					BaseURL: srv.URL,
					URL:     "/echo",
					Data:    map[string]any{"q": "x y"},
					Headers: map[string]string{"content-type": "application/json"},
				})
				assert.Equal(t, "GET", out.Method)
				assert.Equal(t, "q=x%20y", out.Query)
				assert.Empty(t, out.ContentType)
				assert.Empty(t, out.Body)
			})
		})
	}
}

func TestSendNon2xx(t *testing.T) {
	srv := newServer(t)

	for name, newTransport := range transports() {
		t.Run(name, func(t *testing.T) {
			d := request.Descriptor{Method: "GET", BaseURL: srv.URL, URL: "/fail"}
			raw, err := newTransport().Send(context.Background(), &d)
			assert.Nil(t, raw)

			re, ok := AsResponseError(err)
			require.True(t, ok)
			assert.Equal(t, http.StatusInternalServerError, re.Response.Status)
			assert.JSONEq(t, `{"errorMsg":"boom"}`, string(re.Response.Body))
			assert.Contains(t, err.Error(), "status 500")
		})
	}
}

func TestSendCanceled(t *testing.T) {
	srv := newServer(t)

	for name, newTransport := range transports() {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			time.AfterFunc(50*time.Millisecond, cancel)

			d := request.Descriptor{Method: "GET", BaseURL: srv.URL, URL: "/slow"}
			_, err := newTransport().Send(ctx, &d)
			require.Error(t, err)
			assert.True(t, IsCanceled(err))
			_, ok := AsResponseError(err)
			assert.False(t, ok)
		})
	}
}

func TestSendTimeout(t *testing.T) {
	srv := newServer(t)

	for name, newTransport := range transports() {
		t.Run(name, func(t *testing.T) {
			d := request.Descriptor{Method: "GET", BaseURL: srv.URL, URL: "/slow", Timeout: 50 * time.Millisecond}
			_, err := newTransport().Send(context.Background(), &d)
			require.Error(t, err)
			assert.ErrorIs(t, err, context.DeadlineExceeded)
			assert.False(t, IsCanceled(err))
		})
	}
}

func TestSendNoResponse(t *testing.T) {
	for name, newTransport := range transports() {
		t.Run(name, func(t *testing.T) {
			d := request.Descriptor{Method: "GET", URL: "http://127.0.0.1:1/unreachable"}
			_, err := newTransport().Send(context.Background(), &d)
			require.Error(t, err)
			_, ok := AsResponseError(err)
			assert.False(t, ok)
		})
	}
}

func TestCredentialsPolicy(t *testing.T) {
	srv := newServer(t)

	for name, newTransport := range transports() {
		t.Run(name, func(t *testing.T) {
			tr := newTransport()

			login := request.Descriptor{Method: "GET", BaseURL: srv.URL, URL: "/login", WithCredentials: request.Bool(true)}
			_, err := tr.Send(context.Background(), &login)
			require.NoError(t, err)

			with := send(t, tr, request.Descriptor{Method: "GET", BaseURL: srv.URL, URL: "/echo", WithCredentials: request.Bool(true)})
			assert.Equal(t, "sid=abc", with.Cookie)

			without := send(t, tr, request.Descriptor{Method: "GET", BaseURL: srv.URL, URL: "/echo"})
			assert.Empty(t, without.Cookie)
		})
	}
}

func TestHTTPMaxBodySize(t *testing.T) {
	srv := newServer(t)

	d := request.Descriptor{Method: "POST", BaseURL: srv.URL, URL: "/echo", Data: map[string]any{"k": strings.Repeat("x", 64)}}
	shaped, err := request.Transform(d)
	require.NoError(t, err)

	_, err = NewHTTP(WithMaxBodySize(16)).Send(context.Background(), &shaped)
	assert.ErrorIs(t, err, ErrBodyTooLarge)
}

func TestHTTPCustomize(t *testing.T) {
	var called bool
	h := NewHTTP(WithCustomize(func(c *http.Client) {
		called = true
		c.Timeout = time.Second
	}))
	assert.True(t, called)
	assert.Equal(t, time.Second, h.anonymous.Timeout)
	assert.NotNil(t, h.Jar())
	assert.Nil(t, h.anonymous.Jar)
}

func TestFunc(t *testing.T) {
	tr := Func(func(ctx context.Context, d *request.Descriptor) (*RawResponse, error) {
		return check(d, &RawResponse{Status: http.StatusNotFound})
	})
	d := request.Descriptor{Method: "GET", URL: "/x"}
	_, err := tr.Send(context.Background(), &d)
	re, ok := AsResponseError(err)
	require.True(t, ok)
	assert.Equal(t, "/x", re.URL)
}
