package config

// Loader defines the interface for configuration loaders
type Loader interface {
	// Load loads the configuration into the target
	Load(target any) error

	// Watch starts watching for configuration changes
	// The callback is invoked when configuration changes are detected
	Watch(callback func()) error
}

// Defaulter is implemented by targets that provide default values, keyed
// by the same dotted paths used in the configuration file
type Defaulter interface {
	Defaults() map[string]any
}
