package script

import (
	"context"
	"testing"
)

// testContext returns a context canceled when the test ends. It stands in
// for t.Context(), which requires Go 1.24.
func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
