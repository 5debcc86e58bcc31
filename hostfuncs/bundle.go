package hostfuncs

import (
	"context"
	"fmt"

	"github.com/strandmedia/pluginhost/script"
)

// HostFuncBundle is a pre-configured set of related native functions, one
// per category of the host surface (service, page, prop, io, string, msg,
// metadata).
type HostFuncBundle interface {
	// Handlers returns a map of handler names to ByteHandler functions.
	Handlers() map[string]ByteHandler
}

// staticBundle implements HostFuncBundle with a fixed set of handlers.
type staticBundle struct {
	handlers map[string]ByteHandler
}

func (b *staticBundle) Handlers() map[string]ByteHandler {
	return b.handlers
}

// WithBundle registers every handler of a bundle.
func WithBundle(bundle HostFuncBundle) RegistryOption {
	return func(b *registryBuilder) {
		for name, handler := range bundle.Handlers() {
			if err := b.addHandler(name, handler); err != nil {
				b.errors = append(b.errors, err)
			}
		}
	}
}

// WithHandler registers a typed handler with automatic JSON handling.
func WithHandler[Req any, Resp any](name string, fn HostFunc[Req, Resp]) RegistryOption {
	return WithByteHandler(name, NewJSONHandler(fn))
}

// Backends collects the host application collaborators the standard
// bundles delegate to. Nil fields skip the corresponding bundle.
type Backends struct {
	Service  ServiceBackend
	Page     PageBackend
	Prop     PropBackend
	IO       IOBackend
	Metadata MetadataBackend
}

// WithBackends registers the standard bundles for every non-nil backend,
// plus the self-contained string and structured-message helpers.
func WithBackends(b Backends) RegistryOption {
	return func(rb *registryBuilder) {
		bundles := []HostFuncBundle{StringBundle(), MessageBundle()}
		if b.Service != nil {
			bundles = append(bundles, ServiceBundle(b.Service))
		}
		if b.Page != nil {
			bundles = append(bundles, PageBundle(b.Page))
		}
		if b.Prop != nil {
			bundles = append(bundles, PropBundle(b.Prop))
		}
		if b.IO != nil {
			bundles = append(bundles, IOBundle(b.IO))
		}
		if b.Metadata != nil {
			bundles = append(bundles, MetadataBundle(b.Metadata))
		}
		for _, bundle := range bundles {
			WithBundle(bundle)(rb)
		}
	}
}

// HandleRequest addresses a script-held resource by its handle id.
type HandleRequest struct {
	Handle int64 `json:"handle"`
}

// HandleResponse reports a resource handed to script by its handle id.
type HandleResponse struct {
	Handle int64 `json:"handle"`
}

// OKResponse acknowledges a call with no result value.
type OKResponse struct {
	OK bool `json:"ok"`
}

// ReleasedResponse acknowledges a release-style call.
type ReleasedResponse struct {
	Released bool `json:"released"`
}

// lookupHandle resolves a handle id on the owning context and checks the
// resource kind.
func lookupHandle(ctx context.Context, handle int64, class *script.Class) (*script.Context, *script.Resource, error) {
	ec, err := Owner(ctx)
	if err != nil {
		return nil, nil, err
	}
	r, ok := ec.LookupHandle(handle)
	if !ok {
		return nil, nil, fmt.Errorf("unknown handle %d", handle)
	}
	if r.Class() != class {
		return nil, nil, fmt.Errorf("handle %d is a %s, not a %s", handle, r.Class().Name, class.Name)
	}
	return ec, r, nil
}

// releaseByHandle builds the destroy-style handler shared by every resource
// kind: drop the script's reference, which unlinks and destroys unless the
// host still holds the resource.
func releaseByHandle(class *script.Class) ByteHandler {
	return NewJSONHandler(func(ctx context.Context, req HandleRequest) (ReleasedResponse, error) {
		ec, _, err := lookupHandle(ctx, req.Handle, class)
		if err != nil {
			return ReleasedResponse{}, err
		}
		ec.ReleaseHandle(req.Handle)
		return ReleasedResponse{Released: true}, nil
	})
}
