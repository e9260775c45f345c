// Package server exposes the dispatcher over HTTP as an external dynamic list
// endpoint: GET /?vendor=...&service=... returns one address per line.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/tbckr/edl/internal/apperr"
	"github.com/tbckr/edl/internal/output"
	"github.com/tbckr/edl/internal/services"
)

const (
	readTimeout     = 30 * time.Second
	writeTimeout    = 30 * time.Second
	idleTimeout     = 120 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Resolver resolves a query to an address list. *dispatch.Dispatcher
// satisfies this interface.
type Resolver interface {
	Resolve(ctx context.Context, q services.Query) (*output.Result, error)
}

// Server serves address lists over HTTP.
type Server struct {
	resolver Resolver
	logger   *slog.Logger
}

// New creates a new Server.
func New(r Resolver, logger *slog.Logger) *Server {
	return &Server{resolver: r, logger: logger}
}

// Handler returns the request router wrapped in access logging. Paths match
// exactly; a known path with another method gets 405.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/", s.handleList).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/edl", s.handleList).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet, http.MethodHead)
	// Logging wraps the router, not router.Use, so unmatched requests are
	// logged too.
	return s.logRequests(router)
}

// Run listens on addr and serves until ctx is done, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
		ErrorLog:     slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	case err, ok := <-errCh:
		if !ok {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	v := r.URL.Query()
	q := services.NewQuery(v.Get("vendor"), v.Get("service"), map[string]string{
		services.ParamRegion:  v.Get(services.ParamRegion),
		services.ParamScope:   v.Get(services.ParamScope),
		services.ParamZscloud: v.Get(services.ParamZscloud),
	})

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	res, err := s.resolver.Resolve(r.Context(), q)
	if err != nil {
		// The dispatcher has already logged the cause.
		w.WriteHeader(StatusFor(err))
		return
	}
	if err := res.WritePlain(w); err != nil {
		s.logger.Debug("writing response", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

// StatusFor maps an error to the HTTP status returned to the client.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, apperr.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrUpstream), errors.Is(err, apperr.ErrEmptyResult):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
