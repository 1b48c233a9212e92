package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	pkgconfig "intelwatch/pkg/config"
)

// startMetricsServer exposes Prometheus metrics and a health endpoint when
// METRICS_ENABLED is set. For a one-shot cron run the server is usually
// off; long-lived deployments scrape it between runs.
// The returned function shuts the server down.
func startMetricsServer(logger *slog.Logger) func() {
	if !pkgconfig.GetEnvBool("METRICS_ENABLED", false) {
		return func() {}
	}
	port := pkgconfig.GetEnvInt("METRICS_PORT", 9091)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("metrics server listening", slog.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", slog.Any("error", err))
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown failed", slog.Any("error", err))
		}
	}
}
