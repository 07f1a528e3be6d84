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

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchapi"
	"github.com/kailas-cloud/searchapi/internal/backend/cached"
	"github.com/kailas-cloud/searchapi/internal/backend/fixture"
	"github.com/kailas-cloud/searchapi/internal/cache"
	"github.com/kailas-cloud/searchapi/internal/config"
	logpkg "github.com/kailas-cloud/searchapi/internal/logger"
	"github.com/kailas-cloud/searchapi/internal/metrics"
	chiTransport "github.com/kailas-cloud/searchapi/internal/transport/chi"
	healthuc "github.com/kailas-cloud/searchapi/internal/usecase/health"
	"github.com/kailas-cloud/searchapi/internal/version"
)

func main() {
	// .env is optional; real environment wins.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting searchd",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("base_path", cfg.HTTP.BasePath),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
	)

	backend, err := fixture.Load(cfg.Fixtures.Path)
	if err != nil {
		logger.Fatal("Failed to load fixtures", zap.String("path", cfg.Fixtures.Path), zap.Error(err))
	}
	logger.Info("Fixtures loaded", zap.String("path", cfg.Fixtures.Path), zap.Int("terms", backend.Terms()))

	// The registry is the composition root's single place to swap the
	// implementation behind SearchAPIRef.
	reg := searchapi.NewRegistry()
	searchapi.Register(reg, searchapi.SearchAPIRef, searchapi.API(backend))

	// Pass a nil interface (not a typed nil pointer) when the cache is off.
	var pinger healthuc.CachePinger
	if cfg.Cache.Enabled {
		store, err := cache.NewStore(cache.Config{
			Addrs:    cfg.Cache.Addrs,
			Username: cfg.Cache.Username,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		readiness := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(context.Background(), readiness); err != nil {
			logger.Fatal("Cache not ready", zap.Strings("addrs", cfg.Cache.Addrs), zap.Error(err))
		}
		logger.Info("Connected to cache", zap.Strings("addrs", cfg.Cache.Addrs))

		metrics.RegisterCacheMetrics()
		ttl := time.Duration(cfg.Cache.TTLSec) * time.Second
		searchapi.Register(reg, searchapi.SearchAPIRef,
			searchapi.API(cached.New(backend, store, ttl, metrics.QueryCacheTotal, logger)))
		pinger = store
	}

	api, err := searchapi.Lookup(reg, searchapi.SearchAPIRef)
	if err != nil {
		logger.Fatal("Search API not registered", zap.Error(err))
	}

	healthSvc := healthuc.New(api, pinger)
	server := chiTransport.NewServer(api, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(chiTransport.JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.WideEvent(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Mount(r, cfg.HTTP.BasePath)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
