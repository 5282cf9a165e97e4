// Package http runs the API's HTTP listener.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 15 * time.Second

// Server owns the echo instance and its listener lifecycle.
type Server struct {
	e    *echo.Echo
	addr string
	log  zerolog.Logger

	// BeforeShutdown runs once the stop signal arrives and before in-flight
	// requests are drained. Streaming handlers are released here.
	BeforeShutdown func()
}

func NewServer(e *echo.Echo, port string, log zerolog.Logger) *Server {
	return &Server{
		e:    e,
		addr: ":" + port,
		log:  log.With().Str("component", "http").Logger(),
	}
}

// Run serves until ctx is cancelled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.addr).Msg("http server listening")
		if err := s.e.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down http server")
	if s.BeforeShutdown != nil {
		s.BeforeShutdown()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
