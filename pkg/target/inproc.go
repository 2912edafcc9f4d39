package target

import (
	"context"
	"errors"
	"fmt"

	"github.com/joeydtaylor/steeze-extension/pkg/extension"
)

// Inproc runs functions of a module registered in-process.
type Inproc struct {
	Module  string
	Modules *extension.Modules
}

type result struct {
	v        any
	err      error
	panicked bool
}

// Invoke runs the function on its own goroutine so a caller deadline is
// honoured even when the function ignores ctx.
func (t Inproc) Invoke(ctx context.Context, call extension.Call) (extension.Reply, error) {
	fn, ok := t.Modules.Lookup(t.Module, call.Function)
	if !ok {
		return nil, &extension.FunctionError{Message: fmt.Sprintf("Function %s not found in %s.", call.Function, t.Module)}
	}

	done := make(chan result, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- result{err: &extension.PanicError{Function: call.Function, Value: p}, panicked: true}
			}
		}()
		v, err := fn(ctx, call)
		done <- result{v: v, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		if r.panicked {
			return nil, r.err
		}
		if r.err != nil {
			var fe *extension.FunctionError
			if errors.As(r.err, &fe) {
				return nil, fe
			}
			if errors.Is(r.err, context.DeadlineExceeded) || errors.Is(r.err, context.Canceled) {
				return nil, r.err
			}
			return nil, &extension.FunctionError{Message: r.err.Error()}
		}
		return extension.ValueReply{Value: r.v}, nil
	}
}
