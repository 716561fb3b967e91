package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server exposes the sync triggers and operational endpoints.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

func New(port int, handler *Handler, logger *zap.Logger) *Server {
	router := chi.NewRouter()
	router.Use(CORS)
	router.Use(RequestLogger(logger))

	router.Post("/sync/shifts", handler.SyncShifts)
	router.Post("/sync/profiles", handler.SyncProfiles)
	router.Get("/sync/status", handler.SyncStatus)
	router.Post("/maintenance/prune-assets", handler.PruneAssets)
	router.Get("/healthz", handler.Healthz)
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
			// Sync batches run long: a full 7-day scrape with pacing delays
			// can take minutes, so the write timeout is generous.
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 10 * time.Minute,
			IdleTimeout:  120 * time.Second,
		},
		logger: logger,
	}
}

// Start runs the listener until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.logger.Info("Shutting down HTTP server...")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	s.logger.Info("HTTP server stopped")
	return nil
}
