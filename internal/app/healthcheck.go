package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// healthHandler answers liveness probes.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// handler serves /health and the Prometheus exposition on /metrics.
func (a *App) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{Registry: a.registry}))
	return mux
}

// startMetricsServer binds the configured address and serves in the
// background. Bind failures are returned to the caller.
func (a *App) startMetricsServer() error {
	if a.config.MetricsAddr == "" {
		a.logger.Debug("Metrics server not started: disabled")
		return nil
	}
	if a.httpServer != nil {
		return nil
	}

	ln, err := net.Listen("tcp", a.config.MetricsAddr)
	if err != nil {
		return fmt.Errorf("metrics server: %w", err)
	}
	a.httpServer = &http.Server{
		Handler:           a.handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func(srv *http.Server) {
		a.logger.Info("Metrics server starting", "address", ln.Addr().String())
		// Serve returns ErrServerClosed on graceful shutdown.
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Metrics server failed unexpectedly", "error", err)
		}
	}(a.httpServer)
	return nil
}

func (a *App) closeMetricsServer() error {
	if a.httpServer == nil {
		a.logger.Debug("Metrics server was not running.")
		return nil
	}

	ctx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()

	a.logger.Info("Shutting down metrics server...")
	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("Metrics server shutdown failed", "error", err)
		return err
	}
	a.httpServer = nil
	a.logger.Debug("Metrics server shut down gracefully.")
	return nil
}
