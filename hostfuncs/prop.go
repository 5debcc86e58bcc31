package hostfuncs

import (
	"context"
	"fmt"

	"github.com/strandmedia/pluginhost/script"
)

// Subscription is the host application's side of one property-tree
// subscription.
type Subscription interface {
	Unsubscribe()
}

// PropBackend is the property-tree surface of the host application.
type PropBackend interface {
	SetValue(ctx context.Context, path string, value any) error
	GetValue(ctx context.Context, path string) (any, error)

	// Subscribe watches a property path on behalf of a plugin. When
	// immediate is set the current value is delivered right away.
	Subscribe(ctx context.Context, plugin, path string, immediate bool) (Subscription, error)
}

// SubscriptionClass is the resource kind backing one subscription.
var SubscriptionClass = &script.Class{
	Name: "subscription",
	Destroy: func(r *script.Resource) {
		r.Unlink()
		if s, ok := r.Data.(Subscription); ok && s != nil {
			s.Unsubscribe()
		}
	},
}

// PropSetRequest writes one property value.
type PropSetRequest struct {
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// PropGetRequest reads one property value.
type PropGetRequest struct {
	Path string `json:"path"`
}

// PropGetResponse carries a property value back to script.
type PropGetResponse struct {
	Value any `json:"value"`
}

// PropBundle returns the property-tree native function table:
// prop_set, prop_get, prop_subscribe, prop_unsubscribe.
func PropBundle(backend PropBackend) HostFuncBundle {
	return &staticBundle{
		handlers: map[string]ByteHandler{
			"prop_set": NewJSONHandler(func(ctx context.Context, req PropSetRequest) (OKResponse, error) {
				if req.Path == "" {
					return OKResponse{}, fmt.Errorf("prop_set: missing path")
				}
				if err := backend.SetValue(ctx, req.Path, req.Value); err != nil {
					return OKResponse{}, err
				}
				return OKResponse{OK: true}, nil
			}),

			"prop_get": NewJSONHandler(func(ctx context.Context, req PropGetRequest) (PropGetResponse, error) {
				if req.Path == "" {
					return PropGetResponse{}, fmt.Errorf("prop_get: missing path")
				}
				v, err := backend.GetValue(ctx, req.Path)
				if err != nil {
					return PropGetResponse{}, err
				}
				return PropGetResponse{Value: v}, nil
			}),

			"prop_subscribe": NewJSONHandler(func(ctx context.Context, args map[string]any) (HandleResponse, error) {
				ec, err := Owner(ctx)
				if err != nil {
					return HandleResponse{}, err
				}
				path := PropString(args, "path", "")
				if path == "" {
					return HandleResponse{}, fmt.Errorf("prop_subscribe: missing path")
				}
				sub, err := backend.Subscribe(ctx, ec.ID(), path, PropBool(args, "immediate", false))
				if err != nil {
					return HandleResponse{}, err
				}
				r := script.NewResource(ec, SubscriptionClass)
				r.Data = sub
				return HandleResponse{Handle: ec.ExportHandle(r)}, nil
			}),

			"prop_unsubscribe": releaseByHandle(SubscriptionClass),
		},
	}
}
