package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/vanshika/movieshelf/backend/internal/app"
	"github.com/vanshika/movieshelf/backend/internal/config"
	"github.com/vanshika/movieshelf/backend/internal/logging"
	"github.com/vanshika/movieshelf/backend/internal/metrics"
	"github.com/vanshika/movieshelf/backend/internal/repository"
	"github.com/vanshika/movieshelf/backend/internal/server"
	"github.com/vanshika/movieshelf/backend/internal/service"
	"github.com/vanshika/movieshelf/backend/internal/tracing"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)
	defer func() { _ = logger.Sync() }()

	tracer, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		logger.Fatal("failed to initialise tracing", zap.Error(err))
	}
	defer func() {
		if err := tracer.Shutdown(context.Background()); err != nil {
			logger.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	collector := metrics.NewCollector("movieshelf")

	graphDeps := app.GraphDeps{Observer: collector}
	if tracer.Enabled() {
		graphDeps.Tracer = tracer.Tracer()
	}
	graphClient, err := app.NewGraphClient(ctx, logger, cfg.Graph, graphDeps)
	if err != nil {
		logger.Fatal("failed to create graph client", zap.Error(err))
	}
	defer func() {
		if err := graphClient.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", zap.Error(err))
		}
	}()

	repo := repository.New(graphClient)
	favorites := service.NewFavoriteService(repo, logger.Named("favorites")).WithObserver(collector)
	apiHandlers := server.NewAPIHandlers(logger, favorites)

	deps := server.RouterDependencies{
		Health:           server.GraphHealthService{Client: graphClient},
		API:              apiHandlers,
		AllowedOrigins:   cfg.HTTP.AllowedOrigins(),
		AllowCredentials: cfg.HTTP.AllowCredentials,
	}
	if cfg.HTTP.MetricsEnabled {
		deps.Metrics = collector
		deps.MetricsHandler = collector.Handler()
	}
	router := server.NewRouter(logger, deps)

	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server stopped unexpectedly", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
