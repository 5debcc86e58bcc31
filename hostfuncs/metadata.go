package hostfuncs

import (
	"context"
	"fmt"
)

// MetadataBackend records metadata a plugin binds to a content URL, for the
// host application's metadata database.
type MetadataBackend interface {
	Bind(ctx context.Context, plugin, kind, url string, fields map[string]any) error
}

// MetadataBundle returns the metadata helper table: metadata_bind.
func MetadataBundle(backend MetadataBackend) HostFuncBundle {
	return &staticBundle{
		handlers: map[string]ByteHandler{
			"metadata_bind": NewJSONHandler(func(ctx context.Context, args map[string]any) (OKResponse, error) {
				ec, err := Owner(ctx)
				if err != nil {
					return OKResponse{}, err
				}
				url := PropString(args, "url", "")
				if url == "" {
					return OKResponse{}, fmt.Errorf("metadata_bind: missing url")
				}
				kind := PropString(args, "type", "video")

				fields := make(map[string]any, len(args))
				for k, v := range args {
					if k == "url" || k == "type" {
						continue
					}
					fields[k] = v
				}
				if err := backend.Bind(ctx, ec.ID(), kind, url, fields); err != nil {
					return OKResponse{}, err
				}
				return OKResponse{OK: true}, nil
			}),
		},
	}
}
