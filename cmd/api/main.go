package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/user/review-sentiment/internal/api"
	"github.com/user/review-sentiment/internal/browser"
	"github.com/user/review-sentiment/internal/config"
	"github.com/user/review-sentiment/internal/extractor"
	"github.com/user/review-sentiment/internal/logger"
	"github.com/user/review-sentiment/internal/monitoring"
	"github.com/user/review-sentiment/internal/pipeline"
	"github.com/user/review-sentiment/internal/proxy"
	"github.com/user/review-sentiment/internal/sentiment"
	"github.com/user/review-sentiment/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("could not load config", zap.Error(err))
	}

	// Initialize structured logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		zap.NewExample().Fatal("could not build logger", zap.Error(err))
	}
	defer log.Sync()

	ctx := context.Background()

	// Initialize Storage Layer
	var (
		history api.HistoryStore
		store   pipeline.ResultStore
	)
	if cfg.PostgresURL != "" {
		pgStore, err := storage.NewPostgresStore(ctx, cfg.PostgresURL)
		if err != nil {
			log.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer pgStore.Close()
		if err := pgStore.EnsureSchema(ctx); err != nil {
			log.Fatal("failed to prepare schema", zap.Error(err))
		}
		history = pgStore
		if cfg.PersistResults {
			store = pgStore
		}
		log.Info("postgres store ready", zap.Bool("persist", cfg.PersistResults))
	}

	var (
		cache       pipeline.ResultCache
		cachePinger api.Pinger
	)
	if cfg.RedisAddr != "" {
		redisCache := storage.NewRedisCache(cfg.RedisAddr, cfg.CacheTTL)
		defer redisCache.Close()
		cache, cachePinger = redisCache, redisCache
		log.Info("using redis result cache", zap.String("addr", cfg.RedisAddr))
	} else if cfg.CacheSize > 0 {
		cache = storage.NewMemoryCache(cfg.CacheSize, cfg.CacheTTL)
		log.Info("using in-memory result cache", zap.Int("size", cfg.CacheSize))
	}

	// Initialize Monitoring, Proxies
	metrics := monitoring.NewMetrics()
	proxyManager := proxy.NewManager(cfg.UserAgents, cfg.Proxies)

	// Initialize the scraping pipeline
	ext, err := extractor.New(extractor.AmazonStrategy{}, cfg.BaseURL, cfg.MaxProducts, cfg.MaxReviews)
	if err != nil {
		log.Fatal("invalid extractor settings", zap.Error(err))
	}
	launch := browser.NewLauncher(cfg, proxyManager, log)
	runner := pipeline.New(cfg, launch, ext, sentiment.NewScorer(nil), metrics, log)
	service := pipeline.NewService(runner, cache, store, log)

	// Initialize API Server
	server := api.NewServer(cfg, service, history, cachePinger, metrics, log)

	// Graceful Shutdown
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal("could not start server", zap.Error(err))
		}
	}()

	log.Info("server started", zap.String("port", cfg.ServerPort), zap.String("renderer", cfg.Renderer))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exiting")
}
