package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/cinemax-booking/internal/app"
	"github.com/iliyamo/cinemax-booking/internal/config"
	"github.com/iliyamo/cinemax-booking/internal/handler"
	"github.com/iliyamo/cinemax-booking/internal/logger"
)

func main() {
	cfg := config.Load() // Load environment config

	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	// SIGINT/SIGTERM cancel ctx, which stops background workers and the server
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg, zl, nil)
	if err != nil {
		zl.Fatal("init app", zap.Error(err))
	}
	defer func() { _ = a.Close() }()

	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	err = a.Init(initCtx)
	cancel()
	if err != nil {
		zl.Fatal("load data", zap.Error(err))
	}
	a.RunBackground(ctx)

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	a.RegisterRoutes(e)

	addr := ":" + cfg.Port
	zl.Info("listening",
		zap.String("addr", addr),
		zap.String("env", cfg.Env),
		zap.String("backend", cfg.StoreBackend),
	)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zl.Error("shutdown", zap.Error(err))
	}
}
