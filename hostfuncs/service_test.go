package hostfuncs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceBundle_CreateEnableDestroy(t *testing.T) {
	backend := &fakeServiceBackend{}
	reg, err := NewRegistry(WithBundle(ServiceBundle(backend)))
	require.NoError(t, err)

	ec, ctx := newTestContext(t, "plugin-a")

	created := invoke[HandleResponse](t, reg, ctx, "service_create", map[string]any{
		"title": "News",
		"url":   "news:start",
	})
	require.Len(t, backend.published, 1)
	h := backend.published[0]
	assert.Equal(t, "plugin-a", h.info.ID, "id defaults to the plugin id")
	assert.Equal(t, "other", h.info.Kind, "type defaults")
	assert.True(t, h.enabled, "enabled defaults to true")
	assert.Equal(t, 1, ec.NumResources())

	invoke[OKResponse](t, reg, ctx, "service_enable", ServiceEnableRequest{Handle: created.Handle, Enabled: false})
	assert.False(t, h.enabled)

	resp := invoke[ReleasedResponse](t, reg, ctx, "service_destroy", HandleRequest{Handle: created.Handle})
	assert.True(t, resp.Released)
	assert.True(t, h.destroyed)
	assert.Equal(t, 0, ec.NumResources())
}

func TestServiceBundle_MissingFields(t *testing.T) {
	reg, err := NewRegistry(WithBundle(ServiceBundle(&fakeServiceBackend{})))
	require.NoError(t, err)
	_, ctx := newTestContext(t, "plugin-a")

	err = invokeErr(t, reg, ctx, "service_create", map[string]any{"url": "x:y"})
	assert.Contains(t, err.Error(), "missing title")

	err = invokeErr(t, reg, ctx, "service_create", map[string]any{"title": "x"})
	assert.Contains(t, err.Error(), "missing url")
}

func TestServiceBundle_BackendFailureCreatesNoResource(t *testing.T) {
	backend := &fakeServiceBackend{fail: errors.New("directory full")}
	reg, err := NewRegistry(WithBundle(ServiceBundle(backend)))
	require.NoError(t, err)
	ec, ctx := newTestContext(t, "plugin-a")

	err = invokeErr(t, reg, ctx, "service_create", map[string]any{"title": "t", "url": "u"})
	assert.Contains(t, err.Error(), "directory full")
	assert.Equal(t, 0, ec.NumResources())
}

func TestServiceBundle_NoOwner(t *testing.T) {
	reg, err := NewRegistry(WithBundle(ServiceBundle(&fakeServiceBackend{})))
	require.NoError(t, err)

	err = invokeErr(t, reg, testContext(t), "service_create", map[string]any{"title": "t", "url": "u"})
	assert.Contains(t, err.Error(), "no owning plugin context")
}

func TestServiceBundle_WrongKindHandle(t *testing.T) {
	backend := &fakePageBackend{}
	reg, err := NewRegistry(
		WithBundle(ServiceBundle(&fakeServiceBackend{})),
		WithBundle(PageBundle(backend)),
	)
	require.NoError(t, err)
	_, ctx := newTestContext(t, "plugin-a")

	route := invoke[HandleResponse](t, reg, ctx, "page_route", map[string]any{"pattern": "^news:"})
	err = invokeErr(t, reg, ctx, "service_destroy", HandleRequest{Handle: route.Handle})
	assert.Contains(t, err.Error(), "is a route, not a service")
}
