package host

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/strandmedia/pluginhost/hostfuncs"
	"github.com/strandmedia/pluginhost/script"
)

// DefaultNamespace is the global object the native function tables are
// bound under inside each plugin interpreter.
const DefaultNamespace = "host"

// Loader creates a script context per plugin, evaluates the plugin's entry
// point inside it and records the context in the plugin registry. Unload
// reverses the process.
type Loader struct {
	registry *Registry
	handlers *hostfuncs.HandlerRegistry
	logger   *slog.Logger
	ns       string
}

// NewLoader creates a Loader with the given options.
func NewLoader(opts ...Option) (*Loader, error) {
	cfg := defaultLoaderConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.registry == nil {
		cfg.registry = NewRegistry()
	}
	if cfg.handlers == nil {
		handlers, err := hostfuncs.NewRegistry()
		if err != nil {
			return nil, fmt.Errorf("default handler registry: %w", err)
		}
		cfg.handlers = handlers
	}

	return &Loader{
		registry: cfg.registry,
		handlers: cfg.handlers,
		logger:   cfg.logger,
		ns:       cfg.ns,
	}, nil
}

// Registry returns the plugin registry the loader records contexts in.
func (l *Loader) Registry() *Registry { return l.registry }

// Load creates a context for the plugin, binds the native tables and
// evaluates the entry point at fullpath. On any failure the context is
// fully torn down before returning; a failed load is never visible to
// lookup. The interpreter backend is picked by file extension: .js runs on
// goja, .wasm on wazero.
func (l *Loader) Load(ctx context.Context, id, fullpath string) error {
	if l.registry.Has(id) {
		return fmt.Errorf("plugin %q already loaded", id)
	}

	src, err := os.ReadFile(fullpath)
	if err != nil {
		return fmt.Errorf("plugin %s: %w", id, err)
	}

	interp, err := l.newInterp(ctx, fullpath)
	if err != nil {
		return fmt.Errorf("plugin %s: %w", id, err)
	}

	ec := script.New(id, interp, script.WithLogger(l.logger))
	if err := interp.Bind(l.ns, l.bindings(ec)); err != nil {
		ec.Release()
		return fmt.Errorf("plugin %s: bind native tables: %w", id, err)
	}

	if err := ec.Eval(ctx, fullpath, src); err != nil {
		ec.ReleaseAllHandles()
		ec.Release()
		return fmt.Errorf("plugin %s: %w", id, err)
	}

	if err := l.registry.add(id, ec); err != nil {
		ec.ReleaseAllHandles()
		ec.Release()
		return err
	}

	l.logger.Info("plugin loaded", "plugin", id, "path", fullpath)
	return nil
}

// Unload removes the plugin from the registry, drains every script-held
// resource and drops the loader's reference on the context. Destruction is
// deferred while other holders (host threads, retained resources) remain.
func (l *Loader) Unload(id string) {
	ec := l.registry.remove(id)
	if ec == nil {
		l.logger.Warn("unload of unknown plugin", "plugin", id)
		return
	}
	ec.ReleaseAllHandles()
	ec.Release()
	l.logger.Info("plugin unloaded", "plugin", id)
}

// Shutdown unloads every registered plugin.
func (l *Loader) Shutdown() {
	for _, id := range l.registry.IDs() {
		l.Unload(id)
	}
}

func (l *Loader) newInterp(ctx context.Context, fullpath string) (script.Interp, error) {
	switch strings.ToLower(filepath.Ext(fullpath)) {
	case ".js":
		return script.NewGojaInterp(), nil
	case ".wasm":
		return NewWasmInterp(ctx)
	default:
		return nil, fmt.Errorf("unsupported plugin type %q", filepath.Ext(fullpath))
	}
}

// bindings adapts the handler registry into the interpreter's native table.
// Every call is attributed to the owning context and counted as an
// in-flight holder for its duration.
func (l *Loader) bindings(ec *script.Context) []script.BoundFunc {
	names := l.handlers.Names()
	fns := make([]script.BoundFunc, 0, len(names))
	for _, name := range names {
		name := name
		fns = append(fns, script.BoundFunc{
			Name:  name,
			Arity: 1,
			Fn: func(ctx context.Context, payload []byte) ([]byte, error) {
				ec.Retain()
				defer ec.Release()
				return l.handlers.Invoke(hostfuncs.WithOwner(ctx, ec), name, payload)
			},
		})
	}
	return fns
}
