package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/verdictio/lexcompare/internal/config"
	"github.com/verdictio/lexcompare/internal/infrastructure/monitoring/logging"
)

// Server wraps http.Server with configured timeouts and graceful shutdown.
type Server struct {
	srv *http.Server
	cfg config.ServerConfig
	log logging.Logger
}

func NewServer(cfg config.ServerConfig, handler http.Handler, log logging.Logger) *Server {
	if log == nil {
		log = logging.NewNopLogger()
	}
	if cfg.MaxBodySize > 0 {
		handler = http.MaxBytesHandler(handler, cfg.MaxBodySize)
	}
	return &Server{
		cfg: cfg,
		log: log.Named("http-server"),
		srv: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
	}
}

// Start blocks serving requests until Stop is called or the listener fails.
func (s *Server) Start() error {
	s.log.Info("HTTP server listening", logging.Int("port", s.cfg.Port))
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop drains in-flight requests within the configured shutdown timeout.
func (s *Server) Stop(ctx context.Context) error {
	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	s.log.Info("shutting down HTTP server")
	return s.srv.Shutdown(shutdownCtx)
}
