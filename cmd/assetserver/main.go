// Package main serves generated map assets over HTTP for the viewer.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/heightview/internal/assets"
	"github.com/Faultbox/heightview/internal/config"
	"github.com/Faultbox/heightview/internal/logger"
)

const shutdownTimeout = 5 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return 1
	}

	if err := logger.Init(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	if info, err := os.Stat(cfg.Data.ServeDir); err != nil || !info.IsDir() {
		logger.Error("serve dir is not a directory", zap.String("dir", cfg.Data.ServeDir), zap.Error(err))
		return 1
	}

	handler, err := assets.Mount(cfg.Data.BaseURL, cfg.Data.ServeDir)
	if err != nil {
		logger.Error("invalid base url", zap.Error(err))
		return 1
	}

	srv := &http.Server{
		Addr:              cfg.Data.ServeAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logger.Info("serving assets",
			zap.String("addr", srv.Addr),
			zap.String("dir", cfg.Data.ServeDir),
		)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", zap.Error(err))
			return 1
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
			return 1
		}
	}

	logger.Info("asset server stopped")
	return 0
}
