package config

import (
	"github.com/spf13/viper"

	"github.com/kochabx/requex/log"
)

// Option is a function that configures a Config
type Option func(*Config)

// WithViper sets a custom viper instance
func WithViper(v *viper.Viper) Option {
	return func(c *Config) {
		c.viper = v
	}
}

// WithValidator sets a custom validator; nil disables validation
func WithValidator(v Validator) Option {
	return func(c *Config) {
		c.validate = v
	}
}

// WithLoader sets a custom loader
func WithLoader(l Loader) Option {
	return func(c *Config) {
		c.loader = l
	}
}

// WithFile reads name from the given search paths. It captures the viper
// instance and validator set so far, so put it after WithViper and
// WithValidator.
func WithFile(name string, paths ...string) Option {
	return func(c *Config) {
		if len(paths) == 0 {
			paths = []string{"."}
		}
		c.loader = NewFileLoader(name, paths, c.viper, c.validate)
	}
}

// WithLogger sets the logger used while watching
func WithLogger(logger *log.Logger) Option {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithOnChange registers a callback run after every successful reload
func WithOnChange(fn func()) Option {
	return func(c *Config) {
		if fn != nil {
			c.onChange = append(c.onChange, fn)
		}
	}
}
