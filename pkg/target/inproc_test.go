package target

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/joeydtaylor/steeze-extension/pkg/extension"
	"github.com/joeydtaylor/steeze-extension/pkg/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testModules() *extension.Modules {
	m := extension.NewModules()
	m.RegisterModule("diy", extension.Module{
		"echo": func(_ context.Context, c extension.Call) (any, error) { return c.Payload, nil },
		"fail": func(context.Context, extension.Call) (any, error) { return nil, errors.New("went wrong") },
		"coded": func(context.Context, extension.Call) (any, error) {
			return nil, &extension.FunctionError{Code: "E_CODED", Message: "coded"}
		},
		"panics": func(context.Context, extension.Call) (any, error) { panic("boom") },
		"stuck": func(context.Context, extension.Call) (any, error) {
			time.Sleep(time.Second)
			return nil, nil
		},
	})
	return m
}

func TestInprocEcho(t *testing.T) {
	reply, err := Inproc{Module: "diy", Modules: testModules()}.Invoke(context.Background(), call("echo"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"function":"echo","bearerToken":"bt"}`, readReply(t, reply))
}

func TestInprocFailures(t *testing.T) {
	tgt := Inproc{Module: "diy", Modules: testModules()}
	ctx := context.Background()

	_, err := tgt.Invoke(ctx, call("missing"))
	var fe *extension.FunctionError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "Function missing not found in diy.", fe.Message)

	_, err = tgt.Invoke(ctx, call("fail"))
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "went wrong", fe.Message)
	assert.Empty(t, fe.Code)

	_, err = tgt.Invoke(ctx, call("coded"))
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "E_CODED", fe.Code)

}

func TestInprocPanicIsNotAFunctionError(t *testing.T) {
	_, err := Inproc{Module: "diy", Modules: testModules()}.Invoke(context.Background(), call("panics"))

	var pe *extension.PanicError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "panics", pe.Function)
	assert.Equal(t, "boom", pe.Value)
	assert.NotContains(t, err.Error(), "boom")

	var fe *extension.FunctionError
	assert.False(t, errors.As(err, &fe))
}

func TestInprocDeadlineWhenFunctionIgnoresContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := Inproc{Module: "diy", Modules: testModules()}.Invoke(ctx, call("stuck"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestBuilder(t *testing.T) {
	b := NewBuilder(testModules())

	tgt, err := b.Build(manifest.HSpec{Type: manifest.HandlerInproc, Name: "diy"})
	require.NoError(t, err)
	assert.IsType(t, Inproc{}, tgt)

	tgt, err = b.Build(manifest.HSpec{Type: manifest.HandlerHTTP, URL: "https://x.example/fn"})
	require.NoError(t, err)
	assert.IsType(t, HTTP{}, tgt)

	_, err = b.Build(manifest.HSpec{Type: manifest.HandlerInproc, Name: "unregistered"})
	assert.Error(t, err)

	_, err = b.Build(manifest.HSpec{Type: "grpc"})
	assert.Error(t, err)
}
