package hostfuncs

import (
	"context"
	"fmt"

	"github.com/strandmedia/pluginhost/script"
)

// ServiceInfo describes a service entry a plugin publishes on the home
// screen.
type ServiceInfo struct {
	ID      string
	Title   string
	URL     string
	Kind    string
	Enabled bool
}

// ServiceHandle is the host application's side of one published service.
type ServiceHandle interface {
	SetEnabled(enabled bool)
	Destroy()
}

// ServiceBackend publishes service entries. Implemented by the host
// application's service directory.
type ServiceBackend interface {
	Publish(ctx context.Context, info ServiceInfo) (ServiceHandle, error)
}

// ServiceClass is the resource kind backing one published service. The
// destructor withdraws the service from the directory.
var ServiceClass = &script.Class{
	Name: "service",
	Destroy: func(r *script.Resource) {
		r.Unlink()
		if h, ok := r.Data.(ServiceHandle); ok && h != nil {
			h.Destroy()
		}
	},
}

// ServiceEnableRequest toggles a published service.
type ServiceEnableRequest struct {
	Handle  int64 `json:"handle"`
	Enabled bool  `json:"enabled"`
}

// ServiceBundle returns the service native function table:
// service_create, service_enable, service_destroy.
func ServiceBundle(backend ServiceBackend) HostFuncBundle {
	return &staticBundle{
		handlers: map[string]ByteHandler{
			"service_create": NewJSONHandler(func(ctx context.Context, args map[string]any) (HandleResponse, error) {
				ec, err := Owner(ctx)
				if err != nil {
					return HandleResponse{}, err
				}
				info := ServiceInfo{
					ID:      PropString(args, "id", ec.ID()),
					Title:   PropString(args, "title", ""),
					URL:     PropString(args, "url", ""),
					Kind:    PropString(args, "type", "other"),
					Enabled: PropBool(args, "enabled", true),
				}
				if info.Title == "" {
					return HandleResponse{}, fmt.Errorf("service_create: missing title")
				}
				if info.URL == "" {
					return HandleResponse{}, fmt.Errorf("service_create: missing url")
				}
				h, err := backend.Publish(ctx, info)
				if err != nil {
					return HandleResponse{}, err
				}
				r := script.NewResource(ec, ServiceClass)
				r.Data = h
				return HandleResponse{Handle: ec.ExportHandle(r)}, nil
			}),

			"service_enable": NewJSONHandler(func(ctx context.Context, req ServiceEnableRequest) (OKResponse, error) {
				_, r, err := lookupHandle(ctx, req.Handle, ServiceClass)
				if err != nil {
					return OKResponse{}, err
				}
				r.Data.(ServiceHandle).SetEnabled(req.Enabled)
				return OKResponse{OK: true}, nil
			}),

			"service_destroy": releaseByHandle(ServiceClass),
		},
	}
}
