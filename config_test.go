package requex

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/requex/config"
	"github.com/kochabx/requex/log"
	"github.com/kochabx/requex/request"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "requex.yaml"), []byte(`
base_url: https://api.example.com
timeout: 3s
pool_size: 4
ignore_cancel: true
headers:
  X-Requested-With: XMLHttpRequest
`), 0o644))

	cfg, err := LoadConfig("requex.yaml", dir)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, 4, cfg.PoolSize)
	assert.True(t, cfg.IgnoreCancel)
	assert.True(t, cfg.WithCredentials)
	assert.True(t, cfg.ShowProgress)
	assert.Equal(t, "JSON", cfg.ContentType)

	c, err := NewFromConfig(*cfg, nil, WithLogger(log.Nop()))
	require.NoError(t, err)
	defer c.Close()

	d := c.Defaults()
	assert.Equal(t, "https://api.example.com", d.BaseURL)
	assert.Equal(t, 3*time.Second, d.Timeout)
	assert.Equal(t, request.JSON, d.ContentType)
	v, ok := d.Header("X-Requested-With")
	assert.True(t, ok)
	assert.Equal(t, "XMLHttpRequest", v)
	assert.True(t, c.ignoreCancel)
}

func TestNewFromConfigInvalid(t *testing.T) {
	_, err := NewFromConfig(Config{BaseURL: "/", ContentType: "XML"}, nil)
	require.ErrorIs(t, err, config.ErrInvalid)
	assert.Contains(t, config.FieldErrors(err), "Config.ContentType")

	_, err = NewFromConfig(Config{}, nil)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestLoadConfigMissing(t *testing.T) {
	_, err := LoadConfig("absent.yaml", t.TempDir())
	assert.ErrorIs(t, err, config.ErrNotFound)
}

func TestWatchConfig(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "requex.yaml")
	require.NoError(t, os.WriteFile(file, []byte("base_url: https://a.example.com\n"), 0o644))

	changes := make(chan Config, 16)
	cfg, err := WatchConfig("requex.yaml", func(c Config) { changes <- c }, dir)
	require.NoError(t, err)
	assert.Equal(t, "https://a.example.com", cfg.BaseURL)

	require.NoError(t, os.WriteFile(file, []byte("base_url: https://b.example.com\ntimeout: 2s\n"), 0o644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-changes:
			// an editor save may surface as a truncated file first
			if c.BaseURL != "https://b.example.com" {
				continue
			}
			assert.Equal(t, 2*time.Second, c.Timeout)
			assert.Equal(t, "https://a.example.com", cfg.BaseURL, "the returned copy is not rewritten")
			return
		case <-deadline:
			t.Fatal("config change not delivered")
		}
	}
}
