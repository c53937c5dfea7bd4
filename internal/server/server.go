// Package server exposes the REST surface over the stores and the engine.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/tartampluch/go-birthday-server/internal/config"
)

// Server carries the HTTP listener lifecycle.
type Server struct {
	addr    string
	handler http.Handler
}

// New creates a Server for the given listen address and handler.
func New(addr string, handler http.Handler) *Server {
	return &Server{addr: addr, handler: handler}
}

// Start initializes the HTTP server and blocks until the context is
// cancelled or the listener fails. Shutdown is graceful, bounded by
// config.ShutdownTimeout.
func (s *Server) Start(ctx context.Context) error {
	if s.addr == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         s.addr,
		Handler:      s.handler,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyAddr, s.addr,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}
