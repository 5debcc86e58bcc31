package script

import (
	"context"
	"fmt"
)

// RawFunc is the engine-neutral form of a native host function: JSON request
// bytes in, JSON response bytes out. A returned error is signaled to the
// script through the interpreter's own error mechanism (an exception or a
// structured error payload), never as a host-level failure.
type RawFunc func(ctx context.Context, payload []byte) ([]byte, error)

// BoundFunc names one native function for installation into an
// interpreter's global namespace.
type BoundFunc struct {
	Name  string
	Arity int
	Fn    RawFunc
}

// Interp is the narrow surface a Context needs from an embedded
// interpreter. The goja backend lives in this package; package host
// provides a wazero-backed implementation for wasm plugins.
type Interp interface {
	// Bind installs a native function table under the given namespace.
	// Must be called before Eval.
	Bind(ns string, fns []BoundFunc) error

	// Eval runs plugin source. Script-level failures are returned as a
	// *ScriptError and must leave the interpreter usable.
	Eval(ctx context.Context, name string, src []byte) error

	// Close discards the interpreter instance.
	Close(ctx context.Context) error
}

// ScriptError reports a failure raised inside the interpreter: a syntax
// error, an uncaught exception, or a failed plugin entry point. It is
// terminal only for the call in progress.
type ScriptError struct {
	Chunk   string // source name of the failing script
	Message string
	Stack   string // engine stack dump, may be empty
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("script error in %s: %s", e.Chunk, e.Message)
}
