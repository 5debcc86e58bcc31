package hostfuncs

import (
	"context"
	"fmt"

	"github.com/strandmedia/pluginhost/script"
)

// RouteHandle is the host application's side of one registered page route.
type RouteHandle interface {
	Destroy()
}

// PageBackend is the navigation surface of the host application.
type PageBackend interface {
	// AddRoute registers a URL pattern the plugin wants to handle.
	AddRoute(ctx context.Context, plugin, pattern string) (RouteHandle, error)

	// OpenURL navigates the current page stack to url.
	OpenURL(ctx context.Context, url string) error
}

// RouteClass is the resource kind backing one registered route.
var RouteClass = &script.Class{
	Name: "route",
	Destroy: func(r *script.Resource) {
		r.Unlink()
		if h, ok := r.Data.(RouteHandle); ok && h != nil {
			h.Destroy()
		}
	},
}

// PageOpenRequest navigates to a URL.
type PageOpenRequest struct {
	URL string `json:"url"`
}

// PageBundle returns the page/navigation native function table:
// page_route, page_unroute, page_open.
func PageBundle(backend PageBackend) HostFuncBundle {
	return &staticBundle{
		handlers: map[string]ByteHandler{
			"page_route": NewJSONHandler(func(ctx context.Context, args map[string]any) (HandleResponse, error) {
				ec, err := Owner(ctx)
				if err != nil {
					return HandleResponse{}, err
				}
				pattern := PropString(args, "pattern", "")
				if pattern == "" {
					return HandleResponse{}, fmt.Errorf("page_route: missing pattern")
				}
				h, err := backend.AddRoute(ctx, ec.ID(), pattern)
				if err != nil {
					return HandleResponse{}, err
				}
				r := script.NewResource(ec, RouteClass)
				r.Data = h
				return HandleResponse{Handle: ec.ExportHandle(r)}, nil
			}),

			"page_unroute": releaseByHandle(RouteClass),

			"page_open": NewJSONHandler(func(ctx context.Context, req PageOpenRequest) (OKResponse, error) {
				if req.URL == "" {
					return OKResponse{}, fmt.Errorf("page_open: missing url")
				}
				if err := backend.OpenURL(ctx, req.URL); err != nil {
					return OKResponse{}, err
				}
				return OKResponse{OK: true}, nil
			}),
		},
	}
}
