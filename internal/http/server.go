package http

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	readTimeout     = 15 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 10 * time.Second

	// renderSlack is the time left after the planning timeout to render
	// and write a PDF or XLSX response.
	renderSlack = 15 * time.Second
)

// Server serves the planning API until SIGINT or SIGTERM, then drains
// in-flight plans before returning.
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
}

// NewServer listens on port. planTimeout is the per-request packing
// budget enforced by the timeout middleware; the write deadline is that
// budget plus renderSlack. A planTimeout <= 0 disables the write deadline,
// matching the middleware, so long plans are never cut off mid-response.
func NewServer(handler http.Handler, port string, planTimeout time.Duration) *Server {
	var writeTimeout time.Duration
	if planTimeout > 0 {
		writeTimeout = planTimeout + renderSlack
	}
	return &Server{
		httpServer: &http.Server{
			Addr:           ":" + port,
			Handler:        handler,
			ReadTimeout:    readTimeout,
			WriteTimeout:   writeTimeout,
			IdleTimeout:    idleTimeout,
			MaxHeaderBytes: 1 << 20,
		},
		shutdownTimeout: shutdownTimeout,
	}
}

// Run blocks until the listener fails or a stop signal arrives.
func (s *Server) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listenErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", s.httpServer.Addr).
			Dur("write_timeout", s.httpServer.WriteTimeout).
			Msg("cutplan API listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	select {
	case err := <-listenErr:
		return err
	case <-ctx.Done():
		log.Info().Msg("Stop signal received, draining plan requests")
	}
	return s.Shutdown()
}

// Shutdown stops accepting requests and waits up to the shutdown timeout
// for running plans to finish.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Dur("timeout", s.shutdownTimeout).Msg("Plan requests still running at shutdown deadline")
		return err
	}
	log.Info().Msg("cutplan API stopped")
	return nil
}
