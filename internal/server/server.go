// Package server exposes the brief parser and drafter as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/gobrief/internal/app"
)

// Server holds the HTTP server and its dependencies. Handlers keep no state
// between requests.
type Server struct {
	app        *app.App
	maxBody    int64
	httpServer *http.Server
}

// New creates a server for a. Limits and timeouts come from a.Config().
func New(a *app.App) *Server {
	cfg := a.Config()
	s := &Server{app: a, maxBody: cfg.MaxInputBytes}
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}
	return s
}

// Routes configures the API router.
func (s *Server) Routes() *mux.Router {
	notFoundH := withRequestID(withLogging(http.HandlerFunc(notFound)))
	methodH := withRequestID(withLogging(http.HandlerFunc(methodNotAllowed)))

	r := mux.NewRouter()
	r.NotFoundHandler = notFoundH
	r.MethodNotAllowedHandler = methodH

	// Subrouters do not inherit these handlers; without them a method
	// mismatch under /api/v1 falls through to 404.
	api := r.PathPrefix("/api/v1").Subrouter()
	api.NotFoundHandler = notFoundH
	api.MethodNotAllowedHandler = methodH
	api.Use(withRequestID)
	api.Use(withLogging)
	api.Use(withRecover)

	api.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)
	api.HandleFunc("/schema/brief", s.schemaHandler).Methods(http.MethodGet)

	api.HandleFunc("/briefs/parse", s.parseHandler).Methods(http.MethodPost)
	api.HandleFunc("/briefs/draft", s.draftHandler).Methods(http.MethodPost)
	api.HandleFunc("/briefs/validate", s.validateHandler).Methods(http.MethodPost)

	return r
}

// Start listens until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}
