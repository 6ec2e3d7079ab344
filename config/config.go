// Package config loads a configuration struct from a file through viper,
// with environment overrides, defaults, validation and live reload.
package config

import (
	"sync"

	"github.com/spf13/viper"

	"github.com/kochabx/requex/log"
)

// Config manages one configuration target
type Config struct {
	mu       sync.RWMutex // protects concurrent access to target
	viper    *viper.Viper
	validate Validator
	target   any
	loader   Loader
	logger   *log.Logger
	onChange []func()
}

// New creates a new Config instance with the given options.
// If no loader is provided, a FileLoader reading "config.yaml" from the
// working directory is used.
func New(target any, opts ...Option) *Config {
	c := &Config{
		viper:    viper.New(),
		validate: DefaultValidator(),
		target:   target,
		logger:   log.G(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.loader == nil {
		c.loader = NewFileLoader("config.yaml", []string{"."}, c.viper, c.validate)
	}

	return c
}

// Load reads the configuration using the configured loader
func (c *Config) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.loader.Load(c.target)
}

// Reload re-reads the configuration into the target
func (c *Config) Reload() error {
	return c.Load()
}

// Read runs fn while holding the read lock, so fn never observes a
// half-applied reload
func (c *Config) Read(fn func(target any)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn(c.target)
}

// Watch reloads the target whenever the underlying source changes and
// then runs the WithOnChange callbacks
func (c *Config) Watch() error {
	return c.loader.Watch(func() {
		c.logger.Info().Msg("config change detected")

		if err := c.Reload(); err != nil {
			c.logger.Error().Err(err).Msg("failed to reload config after change")
			return
		}

		c.logger.Info().Msg("config reloaded successfully")
		for _, fn := range c.onChange {
			fn()
		}
	})
}

// Viper returns the underlying viper instance
func (c *Config) Viper() *viper.Viper {
	return c.viper
}
