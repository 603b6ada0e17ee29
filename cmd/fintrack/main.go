package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/backend"
	"fintrack/internal/cache"
	"fintrack/internal/charts"
	"fintrack/internal/cli"
	"fintrack/internal/config"
	apphttp "fintrack/internal/http"
	"fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		cli.Fail(nil, "Configuration validation failed", err)
	}
	logger, err := cli.SetupLogger(cfg.LogLevel)
	if err != nil {
		cli.Fail(nil, "Invalid log level", err)
	}

	if err := run(cfg, logger); err != nil {
		cli.Fail(logger, "fintrack stopped with error", err)
	}
	logger.Info("Server stopped gracefully")
}

func run(cfg *config.Config, logger *log.Logger) error {
	ctx, stop := cli.ShutdownContext(context.Background())
	defer stop()

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	store, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return fmt.Errorf("open %s backend: %w", bcfg.Type, err)
	}
	defer func() {
		if err := store.Cleanup(); err != nil {
			logger.Error("Failed to close storage backend", log.FieldError, err)
		}
	}()

	opts := services.Options{
		PageSize:    cfg.PageSize,
		TrendWindow: cfg.TrendWindow,
		Logger:      logger,
	}
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Warn("AMQP unavailable, change notifications disabled", log.FieldError, err)
		} else {
			defer client.Close()
			opts.Publisher = client
		}
	}

	repo := storage.NewRepository(store.Store, logger)
	svc := services.NewLedgerService(repo, opts)
	if err := svc.Load(ctx); err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	chartCache := cache.NewLRUCache[[]byte](cfg.ChartCacheSize, cfg.ChartCacheTTL)
	caches := cache.NewManager(logger)
	caches.Register(chartCache)
	caches.StartCleanup(cfg.ChartCacheTTL)
	defer caches.Stop()

	srv := apphttp.NewServer(":"+cfg.Port, svc, charts.NewRenderer(chartCache, logger), logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting fintrack server",
			"port", cfg.Port,
			"backend", cfg.DataBackend,
			log.FieldOperation, log.OpStartup)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
