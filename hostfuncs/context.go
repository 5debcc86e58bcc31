package hostfuncs

import (
	"context"
	"fmt"

	"github.com/strandmedia/pluginhost/script"
)

// HostContext wraps a context.Context with call-scoped state for native
// function handlers: the invoked function name and the script context the
// call originated from.
type HostContext interface {
	context.Context

	// FunctionName returns the name of the native function being invoked.
	FunctionName() string

	// Owner returns the script context the call originated from, or nil
	// when the call was made outside any plugin (tests, tooling).
	Owner() *script.Context
}

type hostContext struct {
	context.Context
	funcName string
	owner    *script.Context
}

func (c *hostContext) FunctionName() string   { return c.funcName }
func (c *hostContext) Owner() *script.Context { return c.owner }

type ownerKey struct{}

// WithOwner marks ctx as originating from the given script context. The
// loader applies this to every native call before dispatch.
func WithOwner(ctx context.Context, ec *script.Context) context.Context {
	return context.WithValue(ctx, ownerKey{}, ec)
}

// HostContextFrom wraps ctx for dispatch to a handler, picking up the owner
// installed by WithOwner. If ctx is already a HostContext it is reused with
// the new function name.
func HostContextFrom(ctx context.Context, funcName string) HostContext {
	if hc, ok := ctx.(*hostContext); ok {
		return &hostContext{Context: hc.Context, funcName: funcName, owner: hc.owner}
	}
	owner, _ := ctx.Value(ownerKey{}).(*script.Context)
	return &hostContext{Context: ctx, funcName: funcName, owner: owner}
}

// Owner extracts the originating script context from a handler's ctx.
// Returns an error for calls made outside any plugin; handlers that manage
// resources require one.
func Owner(ctx context.Context) (*script.Context, error) {
	if hc, ok := ctx.(HostContext); ok {
		if ec := hc.Owner(); ec != nil {
			return ec, nil
		}
	}
	if ec, ok := ctx.Value(ownerKey{}).(*script.Context); ok && ec != nil {
		return ec, nil
	}
	return nil, fmt.Errorf("no owning plugin context")
}
