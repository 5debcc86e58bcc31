package host

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/strandmedia/pluginhost/script"
)

// wasmInterp runs a wasm plugin on a private wazero runtime. Native
// functions cross the boundary through a packed ptr/len ABI: the guest
// passes its request in linear memory, the host writes the response into
// guest memory obtained from the guest's exported allocate function.
type wasmInterp struct {
	runtime wazero.Runtime
	ns      string
	fns     []script.BoundFunc
	module  api.Module
}

// NewWasmInterp returns a script.Interp backed by a fresh wazero runtime
// with WASI available to the guest.
func NewWasmInterp(ctx context.Context) (script.Interp, error) {
	rt := wazero.NewRuntime(ctx)
	wasi_snapshot_preview1.MustInstantiate(ctx, rt)
	return &wasmInterp{runtime: rt}, nil
}

// Bind records the native table; the host module is instantiated on Eval,
// before the guest, so its imports resolve.
func (w *wasmInterp) Bind(ns string, fns []script.BoundFunc) error {
	w.ns = ns
	w.fns = fns
	return nil
}

func (w *wasmInterp) Eval(ctx context.Context, name string, src []byte) error {
	if w.module != nil {
		return fmt.Errorf("wasm plugin already instantiated")
	}

	if len(w.fns) > 0 {
		builder := w.runtime.NewHostModuleBuilder(w.ns)
		for _, bf := range w.fns {
			fn := bf.Fn
			builder.NewFunctionBuilder().
				WithFunc(func(ctx context.Context, m api.Module, packed uint64) uint64 {
					ptr := uint32(packed >> 32)
					length := uint32(packed)
					payload, ok := m.Memory().Read(ptr, length)
					if !ok {
						return 0
					}
					resp, err := fn(ctx, payload)
					if err != nil {
						// Wasm guests have no exception channel; hand the
						// error back as a structured payload.
						resp = []byte(fmt.Sprintf(`{"error":%q}`, err.Error()))
					}
					return writeGuest(ctx, m, resp)
				}).
				Export(bf.Name)
		}
		if _, err := builder.Instantiate(ctx); err != nil {
			return fmt.Errorf("instantiate host module: %w", err)
		}
	}

	mod, err := w.runtime.Instantiate(ctx, src)
	if err != nil {
		return &script.ScriptError{Chunk: name, Message: err.Error()}
	}
	w.module = mod

	if init := mod.ExportedFunction("_initialize"); init != nil {
		if _, err := init.Call(ctx); err != nil {
			return &script.ScriptError{Chunk: name, Message: err.Error()}
		}
	}
	return nil
}

func (w *wasmInterp) Close(ctx context.Context) error {
	return w.runtime.Close(ctx)
}

// writeGuest places resp in guest memory via the guest's allocate export
// and returns the packed ptr/len, 0 on failure.
func writeGuest(ctx context.Context, m api.Module, resp []byte) uint64 {
	if len(resp) == 0 {
		return 0
	}
	allocate := m.ExportedFunction("allocate")
	if allocate == nil {
		return 0
	}
	results, err := allocate.Call(ctx, uint64(len(resp)))
	if err != nil || len(results) == 0 {
		return 0
	}
	ptr := uint32(results[0])
	if !m.Memory().Write(ptr, resp) {
		return 0
	}
	return (uint64(ptr) << 32) | uint64(len(resp))
}
