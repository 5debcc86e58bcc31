package hostfuncs

import (
	"context"
	"encoding/json"
	"fmt"
)

// HostFunc is the typed signature of a native function implementation. An
// error return is signaled to the calling script through the interpreter's
// own error mechanism; it is never a host-level failure.
type HostFunc[Req any, Resp any] func(context.Context, Req) (Resp, error)

// ByteHandler is the engine-neutral form of a native function: JSON request
// bytes in, JSON response bytes out.
type ByteHandler func(context.Context, []byte) ([]byte, error)

// NewJSONHandler wraps a typed HostFunc into a ByteHandler, handling the
// JSON decode of the request and encode of the response.
func NewJSONHandler[Req any, Resp any](fn HostFunc[Req, Resp]) ByteHandler {
	return func(ctx context.Context, payload []byte) ([]byte, error) {
		var req Req
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &req); err != nil {
				return nil, fmt.Errorf("bad argument: %w", err)
			}
		}

		resp, err := fn(ctx, req)
		if err != nil {
			return nil, err
		}

		respBytes, err := json.Marshal(resp)
		if err != nil {
			return nil, fmt.Errorf("unserializable response: %w", err)
		}
		return respBytes, nil
	}
}
