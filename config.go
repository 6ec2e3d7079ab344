package requex

import (
	"maps"
	"time"

	"github.com/kochabx/requex/config"
	"github.com/kochabx/requex/core/net/http"
	"github.com/kochabx/requex/errors"
	"github.com/kochabx/requex/request"
	"github.com/kochabx/requex/transport"
)

// DefaultHeaders are sent by clients built with NewDefault
var DefaultHeaders = map[string]string{
	http.HeaderAccept:        http.ContentTypeJSON,
	http.HeaderRequestedWith: "XMLHttpRequest",
	http.HeaderContentType:   http.ContentTypeJSON,
}

// Config is the file form of the client-level options
type Config struct {
	BaseURL         string            `mapstructure:"base_url" validate:"required"`
	LoginBase       string            `mapstructure:"login_base"`
	Headers         map[string]string `mapstructure:"headers"`
	ContentType     string            `mapstructure:"content_type" validate:"omitempty,oneof=JSON FORM_DATA FORM_URLENCODED"`
	WithCredentials bool              `mapstructure:"with_credentials"`
	ShowProgress    bool              `mapstructure:"show_progress"`
	IgnoreCancel    bool              `mapstructure:"ignore_cancel"`
	Timeout         time.Duration     `mapstructure:"timeout" validate:"gte=0"`
	PoolSize        int               `mapstructure:"pool_size" validate:"gte=0"`
}

// Defaults implements config.Defaulter
func (c *Config) Defaults() map[string]any {
	return map[string]any{
		"base_url":         "/",
		"content_type":     string(request.JSON),
		"with_credentials": true,
		"show_progress":    true,
		"timeout":          "0s",
		"pool_size":        0,
	}
}

// Options converts c into client options
func (c Config) Options() []Option {
	opts := []Option{
		WithBaseURL(c.BaseURL),
		WithHeaders(c.Headers),
		WithCredentials(c.WithCredentials),
		WithProgress(c.ShowProgress),
		WithIgnoreCancel(c.IgnoreCancel),
		WithTimeout(c.Timeout),
		WithPoolSize(c.PoolSize),
	}
	if c.ContentType != "" {
		opts = append(opts, WithContentType(request.ContentType(c.ContentType)))
	}
	return opts
}

// LoadConfig reads a Config from name in the given search paths
func LoadConfig(name string, paths ...string) (*Config, error) {
	cfg := new(Config)
	if err := config.New(cfg, config.WithFile(name, paths...)).Load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WatchConfig loads a Config like LoadConfig, then calls onChange with a
// copy of the Config after every successful reload of the file. A nil
// onChange only loads.
func WatchConfig(name string, onChange func(Config), paths ...string) (*Config, error) {
	target := new(Config)

	var c *config.Config
	c = config.New(target, config.WithFile(name, paths...), config.WithOnChange(func() {
		onChange(snapshot(c))
	}))
	if err := c.Load(); err != nil {
		return nil, err
	}
	if onChange != nil {
		if err := c.Watch(); err != nil {
			return nil, err
		}
	}

	cfg := snapshot(c)
	return &cfg, nil
}

// snapshot copies the loaded Config so reloads never race with readers
func snapshot(c *config.Config) Config {
	var out Config
	c.Read(func(target any) {
		out = *target.(*Config)
		out.Headers = maps.Clone(out.Headers)
	})
	return out
}

// NewFromConfig validates cfg and creates a Client with the default UI
// policy and success predicate. opts are applied after the configured
// ones.
func NewFromConfig(cfg Config, t transport.Transport, opts ...Option) (*Client, error) {
	if err := config.DefaultValidator().Struct(&cfg); err != nil {
		return nil, config.ErrInvalid.WithMetadata(config.FieldErrors(err)).WithCause(err)
	}

	loginBase := cfg.LoginBase
	if loginBase == "" {
		loginBase = cfg.BaseURL
	}

	base := []Option{
		WithSuccessPredicate(EnvelopeSuccess),
		WithHooks(NewDefaultHooks(loginBase)),
	}
	return New(t, append(append(base, cfg.Options()...), opts...)...)
}

// NewDefault creates the stock client: JSON headers, credentials on,
// progress on, envelope success predicate and the default UI policy
// logging through the global logger
func NewDefault(t transport.Transport, baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = "/"
	}
	cfg := Config{
		BaseURL:         baseURL,
		Headers:         DefaultHeaders,
		ContentType:     string(request.JSON),
		WithCredentials: true,
		ShowProgress:    true,
	}
	client, err := NewFromConfig(cfg, t, opts...)
	if err != nil {
		return nil, errors.Internal("create default client").WithCause(err)
	}
	return client, nil
}
