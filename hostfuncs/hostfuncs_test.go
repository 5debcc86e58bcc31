package hostfuncs

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/strandmedia/pluginhost/pixmap"
	"github.com/strandmedia/pluginhost/script"
)

// nullInterp satisfies script.Interp for tests that never evaluate source.
type nullInterp struct{}

func (nullInterp) Bind(ns string, fns []script.BoundFunc) error            { return nil }
func (nullInterp) Eval(ctx context.Context, name string, src []byte) error { return nil }
func (nullInterp) Close(ctx context.Context) error                         { return nil }

// newTestContext builds a plugin context and a call context attributed to
// it, the way the loader does for real native calls.
func newTestContext(t *testing.T, id string) (*script.Context, context.Context) {
	t.Helper()
	ec := script.New(id, nullInterp{})
	t.Cleanup(func() {
		ec.ReleaseAllHandles()
		ec.Release()
	})
	return ec, WithOwner(testContext(t), ec)
}

// invoke dispatches one native call and decodes the JSON response.
func invoke[Resp any](t *testing.T, reg *HandlerRegistry, ctx context.Context, name string, req any) Resp {
	t.Helper()
	payload, err := json.Marshal(req)
	require.NoError(t, err)
	respBytes, err := reg.Invoke(ctx, name, payload)
	require.NoError(t, err)
	var resp Resp
	require.NoError(t, json.Unmarshal(respBytes, &resp))
	return resp
}

// invokeErr dispatches one native call expecting a handler error.
func invokeErr(t *testing.T, reg *HandlerRegistry, ctx context.Context, name string, req any) error {
	t.Helper()
	payload, err := json.Marshal(req)
	require.NoError(t, err)
	_, err = reg.Invoke(ctx, name, payload)
	require.Error(t, err)
	return err
}

// fakeServiceBackend records published services.
type fakeServiceBackend struct {
	published []*fakeServiceHandle
	fail      error
}

type fakeServiceHandle struct {
	info      ServiceInfo
	enabled   bool
	destroyed bool
}

func (h *fakeServiceHandle) SetEnabled(enabled bool) { h.enabled = enabled }
func (h *fakeServiceHandle) Destroy()                { h.destroyed = true }

func (b *fakeServiceBackend) Publish(ctx context.Context, info ServiceInfo) (ServiceHandle, error) {
	if b.fail != nil {
		return nil, b.fail
	}
	h := &fakeServiceHandle{info: info, enabled: info.Enabled}
	b.published = append(b.published, h)
	return h, nil
}

// fakePageBackend records routes and navigations.
type fakePageBackend struct {
	routes []*fakeRouteHandle
	opened []string
}

type fakeRouteHandle struct {
	plugin    string
	pattern   string
	destroyed bool
}

func (h *fakeRouteHandle) Destroy() { h.destroyed = true }

func (b *fakePageBackend) AddRoute(ctx context.Context, plugin, pattern string) (RouteHandle, error) {
	h := &fakeRouteHandle{plugin: plugin, pattern: pattern}
	b.routes = append(b.routes, h)
	return h, nil
}

func (b *fakePageBackend) OpenURL(ctx context.Context, url string) error {
	b.opened = append(b.opened, url)
	return nil
}

// fakePropBackend is an in-memory property tree.
type fakePropBackend struct {
	values map[string]any
	subs   []*fakeSubscription
}

type fakeSubscription struct {
	plugin    string
	path      string
	immediate bool
	active    bool
}

func (s *fakeSubscription) Unsubscribe() { s.active = false }

func (b *fakePropBackend) SetValue(ctx context.Context, path string, value any) error {
	if b.values == nil {
		b.values = make(map[string]any)
	}
	b.values[path] = value
	return nil
}

func (b *fakePropBackend) GetValue(ctx context.Context, path string) (any, error) {
	return b.values[path], nil
}

func (b *fakePropBackend) Subscribe(ctx context.Context, plugin, path string, immediate bool) (Subscription, error) {
	s := &fakeSubscription{plugin: plugin, path: path, immediate: immediate, active: true}
	b.subs = append(b.subs, s)
	return s, nil
}

// fakeIOBackend serves canned payloads by URL.
type fakeIOBackend struct {
	payloads map[string][]byte
	codecs   map[string]pixmap.Codec
}

func (b *fakeIOBackend) Fetch(ctx context.Context, url string) ([]byte, pixmap.Codec, error) {
	data, ok := b.payloads[url]
	if !ok {
		return nil, pixmap.CodecNone, fmt.Errorf("fetch %s: no such resource", url)
	}
	return data, b.codecs[url], nil
}

// fakeMetadataBackend records bindings.
type fakeMetadataBackend struct {
	bindings []metadataBinding
}

type metadataBinding struct {
	plugin, kind, url string
	fields            map[string]any
}

func (b *fakeMetadataBackend) Bind(ctx context.Context, plugin, kind, url string, fields map[string]any) error {
	b.bindings = append(b.bindings, metadataBinding{plugin: plugin, kind: kind, url: url, fields: fields})
	return nil
}
