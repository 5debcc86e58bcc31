package hostfuncs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Middleware wraps a ByteHandler to add cross-cutting behavior. Middleware
// executes in FIFO order (first registered wraps outermost).
type Middleware func(next ByteHandler) ByteHandler

// RegistryOption is a functional option for configuring a HandlerRegistry.
type RegistryOption func(*registryBuilder)

// RecoverMiddleware converts a panicking handler into a native-call error.
// Lifecycle-defect panics raised by the script package (double release,
// refcount underflow) are deliberately re-raised: masking a corrupted
// resource set is worse than aborting.
func RecoverMiddleware() Middleware {
	return func(next ByteHandler) ByteHandler {
		return func(ctx context.Context, payload []byte) (resp []byte, err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if s, ok := r.(string); ok &&
					(strings.HasPrefix(s, "script:") || strings.HasPrefix(s, "pixmap:")) {
					panic(r)
				}
				resp = nil
				err = fmt.Errorf("native function panic: %v", r)
			}()
			return next(ctx, payload)
		}
	}
}

// LoggingMiddleware logs every native function invocation and its outcome.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ByteHandler) ByteHandler {
		return func(ctx context.Context, payload []byte) ([]byte, error) {
			name := "unknown"
			plugin := ""
			if hc, ok := ctx.(HostContext); ok {
				name = hc.FunctionName()
				if ec := hc.Owner(); ec != nil {
					plugin = ec.ID()
				}
			}
			resp, err := next(ctx, payload)
			if err != nil {
				logger.Debug("native call failed", "fn", name, "plugin", plugin, "err", err)
			} else {
				logger.Debug("native call", "fn", name, "plugin", plugin)
			}
			return resp, err
		}
	}
}
