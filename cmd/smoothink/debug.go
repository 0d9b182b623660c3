package main

import (
	"context"
	"errors"
	"expvar"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-smoothink/pkg/smoothink"
)

var (
	healthOnce  sync.Once
	healthScene atomic.Pointer[smoothink.Scene]
)

// publishHealth exposes the scene's health check as smoothink_health.
func publishHealth(s *smoothink.Scene) {
	healthScene.Store(s)
	healthOnce.Do(func() {
		expvar.Publish("smoothink_health", expvar.Func(func() any {
			if cur := healthScene.Load(); cur != nil {
				return cur.Health()
			}
			return nil
		}))
	})
}

// debugServer serves /debug/vars on addr until shutdown is called.
type debugServer struct {
	srv *http.Server
	ln  net.Listener
}

func startDebugServer(addr string, s *smoothink.Scene, logger smoothink.Logger) (*debugServer, error) {
	s.Metrics().RegisterExpvar()
	publishHealth(s)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/debug/vars", expvar.Handler())

	d := &debugServer{
		srv: &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		ln:  ln,
	}
	go func() {
		if err := d.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("debug server stopped", "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", ln.Addr().String(), "path", "/debug/vars")
	return d, nil
}

func (d *debugServer) Addr() string {
	return d.ln.Addr().String()
}

func (d *debugServer) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return d.srv.Shutdown(ctx)
}
