package hostfuncs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageBundle_FromXML(t *testing.T) {
	reg, err := NewRegistry(WithBundle(MessageBundle()))
	require.NoError(t, err)
	_, ctx := newTestContext(t, "plugin-a")

	doc := `<rss version="2.0"><channel><title>Feed</title><item id="1">first</item><item id="2">second</item></channel></rss>`
	resp := invoke[XMLResponse](t, reg, ctx, "msg_from_xml", XMLRequest{XML: doc})

	root := resp.Root
	require.NotNil(t, root)
	assert.Equal(t, "rss", root.Name)
	assert.Equal(t, "2.0", root.Attrs["version"])

	require.Len(t, root.Children, 1)
	channel := root.Children[0]
	require.Len(t, channel.Children, 3)
	assert.Equal(t, "Feed", channel.Children[0].Text)
	assert.Equal(t, "1", channel.Children[1].Attrs["id"])
	assert.Equal(t, "second", channel.Children[2].Text)
}

func TestMessageBundle_BadXML(t *testing.T) {
	reg, err := NewRegistry(WithBundle(MessageBundle()))
	require.NoError(t, err)
	_, ctx := newTestContext(t, "plugin-a")

	err = invokeErr(t, reg, ctx, "msg_from_xml", XMLRequest{XML: "<open>"})
	assert.Contains(t, err.Error(), "msg_from_xml")

	err = invokeErr(t, reg, ctx, "msg_from_xml", XMLRequest{XML: "   "})
	assert.Contains(t, err.Error(), "empty document")
}

func TestMetadataBundle_Bind(t *testing.T) {
	backend := &fakeMetadataBackend{}
	reg, err := NewRegistry(WithBundle(MetadataBundle(backend)))
	require.NoError(t, err)
	_, ctx := newTestContext(t, "plugin-a")

	invoke[OKResponse](t, reg, ctx, "metadata_bind", map[string]any{
		"url":   "video:1234",
		"title": "A Film",
		"year":  float64(2009),
	})
	require.Len(t, backend.bindings, 1)
	b := backend.bindings[0]
	assert.Equal(t, "plugin-a", b.plugin)
	assert.Equal(t, "video", b.kind, "type defaults to video")
	assert.Equal(t, "video:1234", b.url)
	assert.Equal(t, map[string]any{"title": "A Film", "year": float64(2009)}, b.fields)

	err = invokeErr(t, reg, ctx, "metadata_bind", map[string]any{"title": "x"})
	assert.Contains(t, err.Error(), "missing url")
}

func TestWithBackends_RegistersSelectedBundles(t *testing.T) {
	reg, err := NewRegistry(WithBackends(Backends{
		Service: &fakeServiceBackend{},
		IO:      &fakeIOBackend{},
	}))
	require.NoError(t, err)

	assert.True(t, reg.Has("service_create"))
	assert.True(t, reg.Has("image_load"))
	assert.True(t, reg.Has("string_entity_decode"), "string helpers always present")
	assert.True(t, reg.Has("msg_from_xml"))
	assert.False(t, reg.Has("page_route"), "nil backend skips its bundle")
	assert.False(t, reg.Has("prop_set"))
	assert.False(t, reg.Has("metadata_bind"))
}
