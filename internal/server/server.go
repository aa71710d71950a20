// Package server exposes a service.Service over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"todod/internal/service"
)

// ShutdownTimeout bounds graceful shutdown after the context is cancelled.
const ShutdownTimeout = 5 * time.Second

// RequestIDHeader carries the per-request id in responses.
const RequestIDHeader = "X-Request-Id"

// Server routes task requests to a service.Service.
type Server struct {
	svc    service.Service
	logger *log.Logger
	debug  bool
}

// New creates a Server. logger may be nil; debug enables per-request log lines.
func New(svc service.Service, logger *log.Logger, debug bool) *Server {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Server{svc: svc, logger: logger, debug: debug}
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully. It closes ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:  s,
		ErrorLog: s.logger,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	reqID := uuid.NewString()
	w.Header().Set(RequestIDHeader, reqID)

	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	start := time.Now()
	s.route(rec, r, reqID)

	if s.debug {
		s.logger.Printf("%s %s %s -> %d (%s)", reqID, r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
