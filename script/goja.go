package script

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/dop251/goja"
)

// gojaInterp is the ECMAScript backend. The runtime is owned exclusively by
// one Context; serialization is provided by the Context's Begin/End, so no
// locking happens here.
type gojaInterp struct {
	rt *goja.Runtime
}

// NewGojaInterp returns an Interp backed by a fresh goja ECMAScript engine.
func NewGojaInterp() Interp {
	return &gojaInterp{rt: goja.New()}
}

// Bind installs the native table as methods of a single namespace object.
// Each function takes one object argument, crosses the boundary as JSON and
// returns the decoded response value. Native errors surface as thrown
// exceptions.
func (g *gojaInterp) Bind(ns string, fns []BoundFunc) error {
	obj := g.rt.NewObject()
	for _, bf := range fns {
		fn := bf.Fn
		wrapper := func(call goja.FunctionCall) goja.Value {
			var arg any
			if len(call.Arguments) > 0 {
				arg = call.Argument(0).Export()
			}
			payload, err := json.Marshal(arg)
			if err != nil {
				panic(g.rt.NewTypeError("argument is not serializable: %s", err.Error()))
			}
			resp, err := fn(context.Background(), payload)
			if err != nil {
				panic(g.rt.NewGoError(err))
			}
			if len(resp) == 0 {
				return goja.Undefined()
			}
			var out any
			if err := json.Unmarshal(resp, &out); err != nil {
				panic(g.rt.NewGoError(err))
			}
			return g.rt.ToValue(out)
		}
		if err := obj.Set(bf.Name, wrapper); err != nil {
			return err
		}
	}
	return g.rt.Set(ns, obj)
}

func (g *gojaInterp) Eval(ctx context.Context, name string, src []byte) error {
	_, err := g.rt.RunScript(name, string(src))
	if err == nil {
		return nil
	}
	var exc *goja.Exception
	if errors.As(err, &exc) {
		return &ScriptError{
			Chunk:   name,
			Message: exc.Value().String(),
			Stack:   exc.String(),
		}
	}
	return &ScriptError{Chunk: name, Message: err.Error()}
}

func (g *gojaInterp) Close(ctx context.Context) error {
	g.rt.Interrupt("context released")
	return nil
}
