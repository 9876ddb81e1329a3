package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/specialistvlad/voxview/internal/ctxlog"
)

// healthHandler reports liveness together with a one-line scene summary.
// It runs on the server goroutine, so the counts come from the metrics
// collector and never from the Manager.
func (app *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	logger := ctxlog.FromContext(app.ctx)
	logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	dataSources, modules := app.metrics.Counts()
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK data_sources=%d modules=%d\n", dataSources, modules)
}

func (app *App) healthMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", app.healthHandler)
	mux.Handle("/metrics", app.metrics.Handler())
	return mux
}

// healthCheckServer initializes and runs the health check HTTP server. It
// returns the address it listens on, or "" when disabled.
func (app *App) healthCheckServer() (string, error) {
	logger := ctxlog.FromContext(app.ctx)
	logger.Debug("Configuring health check server.")
	if app.config.HealthcheckPort <= 0 {
		logger.Debug("Health check server not started: disabled")
		return "", nil
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", app.config.HealthcheckPort))
	if err != nil {
		return "", fmt.Errorf("health check server: %w", err)
	}
	app.httpServer = &http.Server{
		Handler:           app.healthMux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	addr := ln.Addr().String()
	go func() {
		logger.Info("🩺 Health check server starting", "address", fmt.Sprintf("http://%s/health", addr))
		if err := app.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Health check server failed unexpectedly", "error", err)
		}
	}()
	return addr, nil
}

func (app *App) closeHealthCheckServer() error {
	logger := ctxlog.FromContext(app.ctx)
	logger.Debug("Closing health check server...")

	if app.httpServer == nil {
		logger.Debug("Health check server was not running.")
		return nil
	}

	ctx, cancel := context.WithTimeout(app.ctx, 5*time.Second)
	defer cancel()

	logger.Info("🩺 Shutting down health check server...")
	if err := app.httpServer.Shutdown(ctx); err != nil {
		logger.Error("Health check server shutdown failed", "error", err)
		return err
	}
	app.httpServer = nil

	logger.Debug("Health check server shut down gracefully.")
	return nil
}
