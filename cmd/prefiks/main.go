package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/lavka-tech/prefiks/internal/config"
	dbRedis "github.com/lavka-tech/prefiks/internal/db/redis"
	"github.com/lavka-tech/prefiks/internal/domain"
	"github.com/lavka-tech/prefiks/internal/domain/search/boost"
	logpkg "github.com/lavka-tech/prefiks/internal/logger"
	"github.com/lavka-tech/prefiks/internal/metrics"
	"github.com/lavka-tech/prefiks/internal/repository/embcache"
	searchrepo "github.com/lavka-tech/prefiks/internal/repository/search"
	chiTransport "github.com/lavka-tech/prefiks/internal/transport/chi"
	openaiEmb "github.com/lavka-tech/prefiks/internal/transport/openai"
	healthuc "github.com/lavka-tech/prefiks/internal/usecase/health"
	searchuc "github.com/lavka-tech/prefiks/internal/usecase/search"
	"github.com/lavka-tech/prefiks/internal/version"
)

func main() {
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

	logger.Info("Starting prefiks API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create engine store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Search engine not ready", zap.Error(err))
	}
	logger.Info("Connected to search engine")

	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()

	// Build embedder chain — composition root. No API key means the
	// vector path is off and every request ranks text-only.
	var embedder domain.Embedder
	var embHealth healthuc.EmbeddingChecker
	if cfg.Embedding.APIKey != "" {
		inner := openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
			Provider:   cfg.Embedding.Provider,
		})
		embHealth = inner
		embedder = embcache.New(
			inner, store,
			time.Duration(cfg.Embedding.CacheTTLHours)*time.Hour,
			metrics.EmbeddingCacheTotal, logger,
		)
	} else {
		logger.Warn("No embedding API key configured, vector search disabled")
	}

	engine := searchrepo.New(store, boost.Default(), searchrepo.Config{
		IndexName: cfg.Search.IndexName,
		KeyPrefix: cfg.Search.KeyPrefix,
		Tolerance: cfg.Search.NumericTolerance,
	})

	policy := searchuc.Policy{
		VectorWeight:    cfg.Search.VectorWeight,
		TextOverfetch:   cfg.Search.TextOverfetch,
		VectorOverfetch: cfg.Search.VectorOverfetch,
		BypassScore:     cfg.Search.BypassScore,
		MinScore:        cfg.Search.MinScore,
		VectorTimeout:   time.Duration(cfg.Search.VectorTimeoutMS) * time.Millisecond,
	}

	searchSvc := searchuc.New(engine, embedder, policy, logger)
	healthSvc := healthuc.New(store, embHealth)

	server := chiTransport.NewServer(searchSvc, healthSvc, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      server.Routes(),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Fatal("HTTP server failed", zap.Error(err))
	case sig := <-stop:
		logger.Info("Shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}
