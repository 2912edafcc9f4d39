package serverfx

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/joeydtaylor/steeze-extension/pkg/envelope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func TestStopBeforeStartNotDeployed(t *testing.T) {
	s := &Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	err := s.Stop(context.Background())

	var e *envelope.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "invaid_function_call", e.Code)
	assert.Equal(t, "Integration-extension-server not deployed.", e.Message)
}

func TestServerStartStop(t *testing.T) {
	s := &Server{
		Addr: "127.0.0.1:0",
		Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "up")
		}),
	}
	require.NoError(t, s.Start(context.Background()))
	assert.Error(t, s.Start(context.Background()), "second start must fail")

	addr := s.ListenAddr()
	require.NotEmpty(t, addr)
	res, err := http.Get("http://" + addr + "/")
	require.NoError(t, err)
	b, _ := io.ReadAll(res.Body)
	res.Body.Close()
	assert.Equal(t, "up", string(b))

	require.NoError(t, s.Stop(context.Background()))
	assert.Empty(t, s.ListenAddr())

	// Stopping twice reports the server as not deployed again.
	var e *envelope.Error
	assert.True(t, errors.As(s.Stop(context.Background()), &e))
}

func TestWriteTimeoutFollowsCallTimeout(t *testing.T) {
	assert.Equal(t, 60*time.Second, WriteTimeoutFor(30*time.Second))
	assert.Equal(t, 60*time.Second, WriteTimeoutFor(0))
	assert.Equal(t, 130*time.Second, WriteTimeoutFor(2*time.Minute))

	s := &Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler(), WriteTimeout: WriteTimeoutFor(2 * time.Minute)}
	require.NoError(t, s.Start(context.Background()))
	defer func() { _ = s.Stop(context.Background()) }()
	assert.Equal(t, 130*time.Second, s.srv.WriteTimeout)
}

func TestStartBindError(t *testing.T) {
	s := &Server{Addr: "256.0.0.1:99999"}
	assert.Error(t, s.Start(context.Background()))
}

func TestModuleGraph(t *testing.T) {
	assert.NoError(t, fx.ValidateApp(Module(WithService("test"))))
}
