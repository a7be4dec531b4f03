package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/moimlab/recs/internal/config"
	"github.com/moimlab/recs/internal/db"
	dbRedis "github.com/moimlab/recs/internal/db/redis"
	logpkg "github.com/moimlab/recs/internal/logger"
	"github.com/moimlab/recs/internal/metrics"
	"github.com/moimlab/recs/internal/model"
	"github.com/moimlab/recs/internal/repository/ctxcache"
	"github.com/moimlab/recs/internal/transport/catalog"
	chiTransport "github.com/moimlab/recs/internal/transport/chi"
	"github.com/moimlab/recs/internal/transport/inference"
	llm "github.com/moimlab/recs/internal/transport/openai"
	fallbackuc "github.com/moimlab/recs/internal/usecase/fallback"
	healthuc "github.com/moimlab/recs/internal/usecase/health"
	recommenduc "github.com/moimlab/recs/internal/usecase/recommend"
	relaxuc "github.com/moimlab/recs/internal/usecase/relax"
	scoringuc "github.com/moimlab/recs/internal/usecase/scoring"
	"github.com/moimlab/recs/internal/version"
)

func main() {
	// Load configuration based on ENV
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

	logger.Info("Starting recs API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("catalog_url", cfg.Catalog.BaseURL),
		zap.String("inference_url", cfg.Inference.BaseURL),
	)

	ctx := context.Background()

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()

	// Optional user-context cache
	var store db.Store
	if len(cfg.Cache.Addrs) > 0 {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to cache", zap.Strings("addrs", cfg.Cache.Addrs))
	} else {
		logger.Info("User-context cache disabled")
	}

	// Upstream clients
	catalogClient := catalog.New(catalog.Options{
		BaseURL:          cfg.Catalog.BaseURL,
		Timeout:          time.Duration(cfg.Catalog.TimeoutSec) * time.Second,
		BreakerThreshold: uint32(cfg.Catalog.BreakerThreshold),
		BreakerTimeout:   time.Duration(cfg.Catalog.BreakerTimeoutSec) * time.Second,
	})

	inferenceClient := inference.New(inference.Options{
		BaseURL: cfg.Inference.BaseURL,
		Timeout: time.Duration(cfg.Inference.TimeoutSec) * time.Second,
	})

	// The service must not accept traffic until the regressor is loaded.
	readinessTimeout := time.Duration(cfg.Inference.ReadinessTimeoutSec) * time.Second
	if err := inferenceClient.WaitReady(ctx, readinessTimeout); err != nil {
		logger.Fatal("Inference models not ready", zap.Error(err))
	}
	logger.Info("Inference models loaded")

	// LLM collaborators share one chat client
	llmClient := llm.NewClient(llm.Config{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
	})
	parser := llm.NewParser(llmClient)
	enricher := llm.NewEnricher(llmClient)
	rationales := llm.NewRationaleWriter(llmClient)

	// User-context provider, cached when a store is configured
	var users recommenduc.UserContextProvider = catalogClient
	if store != nil {
		users = ctxcache.New(
			catalogClient, store,
			time.Duration(cfg.Cache.TTLSec)*time.Second,
			metrics.UserContextCacheTotal, logger,
		)
	}

	// Use case services
	relaxEngine := relaxuc.New(catalogClient)
	scoringSvc := scoringuc.New(model.NewBuilder(), inferenceClient)
	fallbackSvc := fallbackuc.New(inferenceClient, catalogClient)
	recommendSvc := recommenduc.New(
		parser, enricher, users, relaxEngine, scoringSvc, fallbackSvc, rationales,
		cfg.Recommend.DefaultTopN,
	)

	// Health service; cache check only when caching is enabled
	var cachePinger healthuc.Pinger
	if store != nil {
		cachePinger = store
	}
	healthSvc := healthuc.New(catalogClient, inferenceClient, cachePinger)

	// Create chi server
	server := chiTransport.NewServer(recommendSvc, healthSvc, logger, cfg.Recommend.MaxTopN)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
