package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/user/review-sentiment/internal/browser"
	"github.com/user/review-sentiment/internal/config"
	"github.com/user/review-sentiment/internal/domain"
	"github.com/user/review-sentiment/internal/export"
	"github.com/user/review-sentiment/internal/extractor"
	"github.com/user/review-sentiment/internal/logger"
	"github.com/user/review-sentiment/internal/monitoring"
	"github.com/user/review-sentiment/internal/pipeline"
	"github.com/user/review-sentiment/internal/proxy"
	"github.com/user/review-sentiment/internal/sentiment"
	"github.com/user/review-sentiment/internal/storage"
)

func main() {
	query := flag.String("q", "", "product search query (defaults to DEFAULT_QUERY)")
	outDir := flag.String("out", "", "directory for the CSV file (defaults to OUTPUT_DIR)")
	envFile := flag.String("env", ".env", "path to the env file")
	flag.Parse()

	cfg, err := config.LoadFile(*envFile)
	if err != nil {
		zap.NewExample().Fatal("could not load config", zap.Error(err))
	}
	if *query == "" {
		*query = cfg.DefaultQuery
	}
	if *outDir == "" {
		*outDir = cfg.OutputDir
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		zap.NewExample().Fatal("could not build logger", zap.Error(err))
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ext, err := extractor.New(extractor.AmazonStrategy{}, cfg.BaseURL, cfg.MaxProducts, cfg.MaxReviews)
	if err != nil {
		log.Fatal("invalid extractor settings", zap.Error(err))
	}

	metrics := monitoring.NewMetrics()
	proxyManager := proxy.NewManager(cfg.UserAgents, cfg.Proxies)
	launch := browser.NewLauncher(cfg, proxyManager, log)
	p := pipeline.New(cfg, launch, ext, sentiment.NewScorer(nil), metrics, log)

	table, err := p.Run(ctx, *query)
	if err != nil {
		log.Error("search failed", zap.String("query", *query), zap.Error(err))
		os.Exit(1)
	}

	path, err := export.WriteFile(*outDir, table)
	if err != nil {
		log.Error("failed to write csv", zap.Error(err))
		os.Exit(1)
	}
	log.Info("csv written", zap.String("path", path), zap.Int("rows", len(table.Rows)))

	if cfg.PersistResults {
		persist(ctx, cfg, table, log)
	}

	export.PrintReport(os.Stdout, table, 5)
}

func persist(ctx context.Context, cfg *config.Config, table *domain.Table, log *zap.Logger) {
	store, err := storage.NewPostgresStore(ctx, cfg.PostgresURL)
	if err != nil {
		log.Error("failed to connect to postgres", zap.Error(err))
		return
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		log.Error("failed to prepare schema", zap.Error(err))
		return
	}
	if err := store.SaveTable(ctx, table); err != nil {
		log.Error("failed to persist results", zap.Error(err))
		return
	}
	log.Info("results persisted", zap.String("query", table.Query), zap.Int("rows", len(table.Rows)))
}
