package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/vanshika/movieshelf/backend/internal/app"
	"github.com/vanshika/movieshelf/backend/internal/config"
	"github.com/vanshika/movieshelf/backend/internal/graph"
	"github.com/vanshika/movieshelf/backend/internal/logging"
	"github.com/vanshika/movieshelf/backend/internal/repository"
	"github.com/vanshika/movieshelf/backend/internal/service"
)

// runtime holds the collaborators a graph-backed subcommand needs.
type runtime struct {
	logger    *zap.Logger
	client    graph.Client
	repo      *repository.Repository
	favorites *service.FavoriteService
}

func openRuntime(ctx context.Context, component string) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(cfg.Logging).With(zap.String("component", component))

	client, err := app.NewGraphClient(ctx, logger, cfg.Graph, app.GraphDeps{})
	if err != nil {
		return nil, fmt.Errorf("create graph client: %w", err)
	}

	repo := repository.New(client)
	return &runtime{
		logger:    logger,
		client:    client,
		repo:      repo,
		favorites: service.NewFavoriteService(repo, logger),
	}, nil
}

func (r *runtime) Close() {
	if err := r.client.Close(context.Background()); err != nil {
		r.logger.Warn("closing graph client failed", zap.Error(err))
	}
	_ = r.logger.Sync()
}

func printJSON(w io.Writer, v any) error {
	if w == nil {
		w = os.Stdout
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
