package hostfuncs

import (
	"context"
	"fmt"

	"github.com/strandmedia/pluginhost/pixmap"
	"github.com/strandmedia/pluginhost/script"
)

// IOBackend fetches remote resources for plugins. The transport and its
// policy (caching, allowed schemes) belong to the host application.
type IOBackend interface {
	// Fetch retrieves the resource at url. For image resources the backend
	// reports the coded bitstream format; CodecNone means the payload is
	// not an image.
	Fetch(ctx context.Context, url string) (data []byte, codec pixmap.Codec, err error)
}

// ImageClass is the resource kind wrapping a coded pixmap handed to script.
// The destructor drops the resource's hold on the underlying buffer; other
// holders (a decoder still reading it) keep the payload alive.
var ImageClass = &script.Class{
	Name: "image",
	Destroy: func(r *script.Resource) {
		r.Unlink()
		if pm, ok := r.Data.(*pixmap.Pixmap); ok && pm != nil {
			pm.Release()
		}
	},
}

// HTTPGetRequest fetches a remote resource.
type HTTPGetRequest struct {
	URL string `json:"url"`
}

// HTTPGetResponse carries the fetched payload (base64 across the JSON
// boundary).
type HTTPGetResponse struct {
	Body []byte `json:"body"`
}

// ImageLoadResponse describes a loaded image resource.
type ImageLoadResponse struct {
	Handle int64  `json:"handle"`
	Size   int    `json:"size"`
	Codec  string `json:"codec"`
}

// IOBundle returns the I/O native function table:
// http_get, image_load, image_release.
func IOBundle(backend IOBackend) HostFuncBundle {
	return &staticBundle{
		handlers: map[string]ByteHandler{
			"http_get": NewJSONHandler(func(ctx context.Context, req HTTPGetRequest) (HTTPGetResponse, error) {
				if req.URL == "" {
					return HTTPGetResponse{}, fmt.Errorf("http_get: missing url")
				}
				data, _, err := backend.Fetch(ctx, req.URL)
				if err != nil {
					return HTTPGetResponse{}, err
				}
				return HTTPGetResponse{Body: data}, nil
			}),

			"image_load": NewJSONHandler(func(ctx context.Context, args map[string]any) (ImageLoadResponse, error) {
				ec, err := Owner(ctx)
				if err != nil {
					return ImageLoadResponse{}, err
				}
				url := PropString(args, "url", "")
				if url == "" {
					return ImageLoadResponse{}, fmt.Errorf("image_load: missing url")
				}
				data, codec, err := backend.Fetch(ctx, url)
				if err != nil {
					return ImageLoadResponse{}, err
				}
				if codec == pixmap.CodecNone {
					return ImageLoadResponse{}, fmt.Errorf("image_load: %s is not a coded image", url)
				}
				pm := pixmap.NewCoded(data, len(data), codec)
				r := script.NewResource(ec, ImageClass)
				r.Data = pm
				return ImageLoadResponse{
					Handle: ec.ExportHandle(r),
					Size:   pm.Size(),
					Codec:  codec.String(),
				}, nil
			}),

			"image_release": releaseByHandle(ImageClass),
		},
	}
}
