// Package pluginconfig persists the connection settings a vtsclient.Builder
// needs (plugin identity, reconnect target, retry policy) across process
// restarts, so an embedder doesn't have to hard-code them or re-derive them
// from flags every run.
//
// This is embedder-level configuration, not part of the core pipeline: the
// pipeline itself never persists state across restarts, and this package
// lives entirely outside it, loaded once before a Builder is constructed.
package pluginconfig

import "errors"

// ErrInvalidURL is returned when a loaded or updated config has an empty URL.
var ErrInvalidURL = errors.New("pluginconfig: url must not be empty")

// PluginIdentity is the template a Config uses to build the AuthenticationTokenRequest/
// AuthenticationRequest payloads (mirrors auth.PluginInfo without importing
// the auth package, so pluginconfig has no dependency on the core pipeline).
type PluginIdentity struct {
	Name      string  `yaml:"name"`
	Developer string  `yaml:"developer"`
	Icon      *string `yaml:"icon,omitempty"`
}

// Config is the on-disk shape of a plugin's connection settings.
type Config struct {
	URL               string         `yaml:"url"`
	Plugin            PluginIdentity `yaml:"plugin"`
	RetryOnDisconnect bool           `yaml:"retryOnDisconnect"`
	RetryOnAuthError  bool           `yaml:"retryOnAuthError"`
	RequestBuffer     int            `yaml:"requestBuffer,omitempty"`
	EventBuffer       int            `yaml:"eventBuffer,omitempty"`
}

// Validate reports whether c is usable as a Builder input.
func (c Config) Validate() error {
	if c.URL == "" {
		return ErrInvalidURL
	}
	return nil
}

// Default returns the configuration a fresh install should start from:
// the default host endpoint, both retries enabled, no plugin identity set
// (the embedder must fill that in before first use).
func Default() Config {
	return Config{
		URL:               "ws://localhost:8001",
		RetryOnDisconnect: true,
		RetryOnAuthError:  true,
	}
}
