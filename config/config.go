// Package config loads serializer settings from a YAML or JSON file.
//
//	defaultNameSpace: App/Serializers/
//	concurrency: 8
//
// Every key may be overridden from the environment with the GRANOLA_
// prefix, e.g. GRANOLA_DEFAULTNAMESPACE.
package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
	"github.com/zoobzio/granola"
)

const (
	envPrefix = "granola"

	keyNamespace   = "defaultNameSpace"
	keyConcurrency = "concurrency"
)

// ErrInvalidConfig indicates a setting with an unusable value.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds process-wide serializer settings.
type Config struct {
	// DefaultNamespace is prepended to serializer ids before lookup.
	DefaultNamespace string `mapstructure:"defaultNameSpace"`

	// Concurrency bounds each fan-out. Zero means unbounded.
	Concurrency int `mapstructure:"concurrency"`
}

// Default returns the settings used when no file is loaded.
func Default() *Config {
	return &Config{}
}

// Load reads path and overlays GRANOLA_* environment variables.
// The file type is taken from the extension (.yaml, .yml or .json).
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		v.SetConfigType("yaml")
	case ".json":
		v.SetConfigType("json")
	}

	v.SetEnvPrefix(envPrefix)
	for _, key := range []string{keyNamespace, keyConcurrency} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings that cannot be applied.
func (c *Config) Validate() error {
	if c.Concurrency < 0 {
		return fmt.Errorf("%w: %s must not be negative, got %d", ErrInvalidConfig, keyConcurrency, c.Concurrency)
	}
	return nil
}

// Registry returns an empty registry using the configured namespace.
func (c *Config) Registry() *granola.Registry {
	return granola.NewRegistry(granola.WithNamespace(c.DefaultNamespace))
}

// Options returns the serializer options implied by the settings.
func (c *Config) Options() []granola.Option {
	return []granola.Option{granola.WithConcurrency(c.Concurrency)}
}
