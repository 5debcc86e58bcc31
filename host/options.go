package host

import (
	"log/slog"

	"github.com/strandmedia/pluginhost/hostfuncs"
)

// loaderConfig holds configuration for the Loader.
type loaderConfig struct {
	registry *Registry
	handlers *hostfuncs.HandlerRegistry
	logger   *slog.Logger
	ns       string
}

func defaultLoaderConfig() loaderConfig {
	return loaderConfig{
		logger: slog.Default(),
		ns:     DefaultNamespace,
	}
}

// Option configures the Loader.
type Option func(*loaderConfig)

// WithRegistry sets the plugin registry the loader records contexts in.
// Defaults to a fresh registry private to this loader.
func WithRegistry(reg *Registry) Option {
	return func(c *loaderConfig) {
		c.registry = reg
	}
}

// WithHostFunctions sets the native function tables bound into every
// plugin's interpreter.
func WithHostFunctions(handlers *hostfuncs.HandlerRegistry) Option {
	return func(c *loaderConfig) {
		c.handlers = handlers
	}
}

// WithLogger sets the loader's logger. Defaults to slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(c *loaderConfig) {
		c.logger = l
	}
}

// WithNamespace sets the global object name the native tables are bound
// under inside each interpreter.
func WithNamespace(ns string) Option {
	return func(c *loaderConfig) {
		c.ns = ns
	}
}
