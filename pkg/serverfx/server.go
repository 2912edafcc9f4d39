package serverfx

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/joeydtaylor/steeze-extension/pkg/envelope"
	"go.uber.org/zap"
)

// Server is the gateway's HTTP listener. Stop before Start fails with the
// not-deployed envelope error.
type Server struct {
	Addr         string
	Handler      http.Handler
	CertFile     string
	KeyFile      string
	WriteTimeout time.Duration // default 60s
	Log          *zap.Logger

	mu  sync.Mutex
	srv *http.Server
	ln  net.Listener
}

const (
	defaultWriteTimeout = 60 * time.Second
	writeTimeoutMargin  = 10 * time.Second
)

// WriteTimeoutFor gives the write timeout for a per-call timeout: the call
// timeout plus a margin, never below the default.
func WriteTimeoutFor(call time.Duration) time.Duration {
	if d := call + writeTimeoutMargin; d > defaultWriteTimeout {
		return d
	}
	return defaultWriteTimeout
}

func (s *Server) writeTimeout() time.Duration {
	if s.WriteTimeout > 0 {
		return s.WriteTimeout
	}
	return defaultWriteTimeout
}

// Start binds the listener synchronously so bind errors fail startup, then
// serves in the background.
func (s *Server) Start(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv != nil {
		return fmt.Errorf("server already started on %s", s.ln.Addr())
	}

	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.Addr, err)
	}
	srv := &http.Server{
		Handler:      s.Handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.writeTimeout(),
		IdleTimeout:  60 * time.Second,
	}
	useTLS := fileExists(s.CertFile) && fileExists(s.KeyFile)
	log := s.logger()

	if useTLS {
		srv.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS13, MaxVersion: tls.VersionTLS13}
		log.Info("server starting (TLS)", zap.String("addr", ln.Addr().String()), zap.String("cert", s.CertFile))
		go func() {
			if err := srv.ServeTLS(ln, s.CertFile, s.KeyFile); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("server failed", zap.Error(err))
			}
		}()
	} else {
		log.Info("server starting (PLAINTEXT)", zap.String("addr", ln.Addr().String()))
		go func() {
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("server failed", zap.Error(err))
			}
		}()
	}
	s.srv, s.ln = srv, ln
	return nil
}

// Stop drains in-flight requests until ctx ends.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.srv, s.ln = nil, nil
	s.mu.Unlock()
	if srv == nil {
		return envelope.NotDeployed()
	}
	s.logger().Info("server stopping")
	return srv.Shutdown(ctx)
}

// ListenAddr is the bound address, or "" when not started.
func (s *Server) ListenAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

func (s *Server) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
