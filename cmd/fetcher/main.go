package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rickgao/alphavantage-data/internal/api"
	"github.com/rickgao/alphavantage-data/internal/config"
	"github.com/rickgao/alphavantage-data/internal/database"
	"github.com/rickgao/alphavantage-data/internal/dispatch"
	"github.com/rickgao/alphavantage-data/internal/keypool"
	"github.com/rickgao/alphavantage-data/internal/metrics"
	"github.com/rickgao/alphavantage-data/internal/pipeline"
	"github.com/rickgao/alphavantage-data/internal/version"
	"github.com/rickgao/alphavantage-data/internal/vpn"
	"github.com/rickgao/alphavantage-data/internal/writer"
)

func main() {
	configPath := flag.String("config", "configs/fetcher.local.yaml", "path to config file")
	once := flag.Bool("once", false, "run a single extraction cycle and exit")
	tickers := flag.String("tickers", "", "comma-separated ticker override")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting fetcher",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	symbols := cfg.Pipelines.Tickers
	if *tickers != "" {
		symbols = strings.Split(*tickers, ",")
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"api_url", cfg.API.BaseURL,
		"tickers", len(symbols),
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Load the shared key pool
	store := keypool.NewFileStore(cfg.Keys.StateFile)
	pool, err := keypool.New(store,
		keypool.WithLimit(cfg.Keys.Limit),
		keypool.WithLogger(logger),
	)
	if err != nil {
		logger.Error("failed to load key pool", "error", err, "state_file", cfg.Keys.StateFile)
		os.Exit(1)
	}

	// Network identity rotation
	var rotator vpn.Rotator = vpn.NopRotator{}
	if cfg.VPN.Enabled {
		rotator = vpn.NewPIA(
			vpn.WithCommand(cfg.VPN.Command),
			vpn.WithTimeout(cfg.VPN.Timeout),
			vpn.WithLogger(logger),
		)
	}

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Postgres.Host,
		"port", cfg.Database.Postgres.Port,
		"database", cfg.Database.Postgres.Name,
	)

	db, err := database.Connect(ctx, cfg.Database.Postgres)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	logger.Info("database connected")

	// Wire the dispatch path: pool -> dispatcher -> typed client
	dispatcher := dispatch.New(cfg.API.BaseURL, pool, rotator,
		dispatch.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		dispatch.WithBackoff(cfg.Keys.SoftBlockBackoff),
		dispatch.WithMaxRotations(cfg.Keys.MaxRotations),
		dispatch.WithLogger(logger),
	)
	client := api.NewClient(dispatcher, logger)

	ingestor := writer.NewIngestor(writer.Config{BatchSize: cfg.Writer.BatchSize}, db, logger)
	extractor := pipeline.NewExtractor(client, ingestor, logger)

	// Metrics server
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, metrics.Handler())
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler: mux,
	}
	go func() {
		logger.Info("starting metrics server", "port", cfg.Metrics.Port, "path", cfg.Metrics.Path)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	if *once {
		logger.Info("running single extraction cycle")
		if err := extractor.ExtractAll(ctx, symbols, cfg.Pipelines.Concurrency); err != nil {
			logger.Error("extraction cycle failed", "error", err)
			os.Exit(1)
		}
		logger.Info("extraction cycle complete")
		return
	}

	runner := pipeline.NewRunner(pipeline.RunnerConfig{
		Tickers:     symbols,
		Interval:    cfg.Pipelines.Interval,
		Concurrency: cfg.Pipelines.Concurrency,
	}, extractor, logger)

	if err := runner.Start(ctx); err != nil {
		logger.Error("failed to start runner", "error", err)
		os.Exit(1)
	}

	logger.Info("fetcher running",
		"instance_id", cfg.Instance.ID,
		"interval", cfg.Pipelines.Interval,
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := runner.Stop(shutdownCtx); err != nil {
		logger.Error("runner shutdown error", "error", err)
	}
	metricsServer.Shutdown(shutdownCtx)

	logger.Info("fetcher stopped")
}
