// Command relay-mock runs the in-memory mock relay as a standalone HTTP
// service for local SDK development. It speaks the production relay surface
// on /, and exposes Prometheus metrics on /metrics.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/she110ff/acc-sdk/internal/httpserver"
	"github.com/she110ff/acc-sdk/pkg/config"
	"github.com/she110ff/acc-sdk/pkg/relaymock"
)

var (
	addr      = flag.String("addr", ":7070", "Listen address")
	logLevel  = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	logFormat = flag.String("log-format", "console", "Log format (json, console)")
)

func main() {
	flag.Parse()

	logger, err := config.NewLogger(config.LoggingConfig{
		Level:  *logLevel,
		Format: *logFormat,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting mock relay", zap.String("addr", *addr))

	mock := relaymock.NewServer(relaymock.WithLogger(logger))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/", mock.Handler())

	server := &http.Server{
		Addr:         *addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := httpserver.ServeAndWait(ctx, logger, server, 30*time.Second); err != nil {
		logger.Fatal("Mock relay exited with error", zap.Error(err))
	}

	logger.Info("Mock relay stopped")
}
