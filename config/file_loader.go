package config

import (
	"path"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/kochabx/requex/errors"
)

var (
	ErrNotFound = errors.NotFound("config file not found")
	ErrParse    = errors.Internal("config parse error")
	ErrInvalid  = errors.BadRequest("config validation failed")
)

// FileLoader loads configuration from file
type FileLoader struct {
	viper    *viper.Viper
	validate Validator
	name     string
	paths    []string
}

// NewFileLoader creates a new file loader. Environment variables override
// file values, with "." in keys replaced by "_" (server.port -> SERVER_PORT).
func NewFileLoader(name string, paths []string, v *viper.Viper, validate Validator) *FileLoader {
	configType := strings.TrimPrefix(path.Ext(name), ".")

	for _, configPath := range paths {
		v.AddConfigPath(configPath)
	}

	v.SetConfigName(name)
	v.SetConfigType(configType)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &FileLoader{
		viper:    v,
		paths:    paths,
		name:     name,
		validate: validate,
	}
}

// Load implements Loader interface
func (l *FileLoader) Load(target any) error {
	if d, ok := target.(Defaulter); ok {
		for key, value := range d.Defaults() {
			l.viper.SetDefault(key, value)
		}
	}

	if err := l.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return ErrNotFound.WithMetadata(map[string]string{"name": l.name}).WithCause(err)
		}
		return ErrParse.WithMetadata(map[string]string{"name": l.name}).WithCause(err)
	}

	if err := l.viper.Unmarshal(target); err != nil {
		return ErrParse.WithCause(err)
	}

	if l.validate != nil {
		if err := l.validate.Struct(target); err != nil {
			return ErrInvalid.WithMetadata(FieldErrors(err)).WithCause(err)
		}
	}

	return nil
}

// Watch implements Loader interface
func (l *FileLoader) Watch(callback func()) error {
	l.viper.OnConfigChange(func(e fsnotify.Event) {
		if callback != nil {
			callback()
		}
	})

	l.viper.WatchConfig()
	return nil
}
