package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
)

// Context is a bound execution environment pairing one interpreter instance
// with the set of native Resources created on its behalf.
//
// The refcount is held by the creator, by every live Resource, and by every
// in-flight native call. The interpreter handle is valid exactly while the
// refcount is above zero; the final Release closes it.
type Context struct {
	id   string
	refs atomic.Int32

	// mu serializes interpreter entry and guards the owned-resource set and
	// the handle table. It is reentrant: native functions invoked from
	// inside an interpreter call may take it again on the same goroutine.
	mu reentrantMutex

	interp     Interp
	resources  map[*Resource]struct{}
	handles    map[int64]*Resource
	nextHandle int64
	lastErr    *ScriptError

	logger *slog.Logger
}

// Option configures a Context.
type Option func(*Context)

// WithLogger sets the logger used for diagnostic dumps. Defaults to
// slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(ec *Context) {
		ec.logger = l
	}
}

// New creates a Context with a refcount of 1, an empty resource set and the
// given interpreter instance, which the Context owns exclusively from this
// point on.
func New(id string, interp Interp, opts ...Option) *Context {
	ec := &Context{
		id:        id,
		interp:    interp,
		resources: make(map[*Resource]struct{}),
		handles:   make(map[int64]*Resource),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(ec)
	}
	ec.logger = ec.logger.With("plugin", id)
	ec.refs.Store(1)
	return ec
}

// ID returns the plugin identifier the Context was created for.
func (ec *Context) ID() string { return ec.id }

// Retain registers an additional holder and returns the same Context. It is
// lock-free and callable from any goroutine.
func (ec *Context) Retain() *Context {
	if ec.refs.Add(1) <= 1 {
		panic("script: retain of released context")
	}
	return ec
}

// Release drops one holder. The last release closes the interpreter; at
// that point the owned-resource set must already be empty, since every live
// Resource holds a reference. A non-empty set here is a destruction-order
// defect in some class destructor and aborts.
func (ec *Context) Release() {
	n := ec.refs.Add(-1)
	if n > 0 {
		return
	}
	if n < 0 {
		panic("script: release of freed context")
	}

	ec.mu.lock()
	if len(ec.resources) != 0 {
		ec.mu.unlock()
		panic(fmt.Sprintf("script: context %q released with %d live resources", ec.id, len(ec.resources)))
	}
	interp := ec.interp
	ec.interp = nil
	ec.mu.unlock()

	if interp != nil {
		if err := interp.Close(context.Background()); err != nil {
			ec.logger.Error("interpreter close failed", "err", err)
		}
	}
}

// Begin acquires the Context mutex, blocking until no other goroutine is
// executing inside the interpreter. Acquisition is reentrant; every Begin
// must be paired with an End on the same goroutine.
func (ec *Context) Begin() { ec.mu.lock() }

// End releases the Context mutex acquired by Begin.
func (ec *Context) End() { ec.mu.unlock() }

// Eval runs plugin source inside the Context, bracketed by Begin/End.
// Script-level failures are captured, dumped through the logger and
// returned as a *ScriptError; they never escape as host-level panics.
func (ec *Context) Eval(ctx context.Context, name string, src []byte) error {
	ec.Begin()
	defer ec.End()

	if ec.interp == nil {
		return fmt.Errorf("script: context %q has no interpreter", ec.id)
	}
	err := ec.interp.Eval(ctx, name, src)
	if err == nil {
		return nil
	}
	var serr *ScriptError
	if errors.As(err, &serr) {
		ec.lastErr = serr
		ec.DumpLastError()
	}
	return err
}

// NumResources returns the current size of the owned-resource set.
func (ec *Context) NumResources() int {
	ec.mu.lock()
	n := len(ec.resources)
	ec.mu.unlock()
	return n
}

// LastError returns the most recent script-level failure, or nil.
func (ec *Context) LastError() *ScriptError {
	ec.mu.lock()
	e := ec.lastErr
	ec.mu.unlock()
	return e
}

// DumpLastError writes a human-readable dump of the most recent script
// failure, including the engine stack if one was captured.
func (ec *Context) DumpLastError() {
	ec.mu.lock()
	e := ec.lastErr
	ec.mu.unlock()
	if e == nil {
		return
	}
	if e.Stack != "" {
		ec.logger.Error("script error", "chunk", e.Chunk, "err", e.Message, "stack", e.Stack)
		return
	}
	ec.logger.Error("script error", "chunk", e.Chunk, "err", e.Message)
}
