package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/vanshika/movieshelf/backend/internal/generator"
	"github.com/vanshika/movieshelf/backend/internal/service"
)

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:      "seed",
		Usage:     "Load a dataset of users, movies and favorites into the graph",
		ArgsUsage: "<dataset.json|dataset.yaml>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "workers", Value: 4, Usage: "number of concurrent workers"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("%w: <dataset>", errUsage)
			}

			dataset, err := generator.LoadDataset(cmd.Args().Get(0))
			if err != nil {
				return err
			}

			rt, err := openRuntime(ctx, "seed")
			if err != nil {
				return err
			}
			defer rt.Close()

			seeder := service.NewBulkSeeder(rt.repo, rt.favorites, int(cmd.Int("workers")), rt.logger)

			start := time.Now()
			report, err := seeder.Seed(ctx, dataset)
			if err != nil {
				return fmt.Errorf("seed dataset: %w", err)
			}
			rt.logger.Info("seeding complete",
				zap.Duration("duration", time.Since(start)),
				zap.Int("users", report.Users),
				zap.Int("movies", report.Movies),
				zap.Int("favorites", report.Favorites),
			)
			return nil
		},
	}
}

func datagenCommand() *cli.Command {
	defaults := generator.DefaultConfig()
	return &cli.Command{
		Name:  "datagen",
		Usage: "Generate a synthetic dataset file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Value: "./seed-data/dataset.json", Usage: "output path; .yaml/.yml writes YAML"},
			&cli.IntFlag{Name: "users", Value: int64(defaults.NumUsers), Usage: "number of users"},
			&cli.IntFlag{Name: "movies", Value: int64(defaults.NumMovies), Usage: "number of movies"},
			&cli.IntFlag{Name: "favorites-per-user", Value: int64(defaults.FavoritesPerUser), Usage: "favorites per user"},
			&cli.IntFlag{Name: "seed", Value: int64(defaults.Seed), Usage: "random seed (0 uses the current time)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			gen := generator.New(generator.Config{
				NumUsers:         int(cmd.Int("users")),
				NumMovies:        int(cmd.Int("movies")),
				FavoritesPerUser: int(cmd.Int("favorites-per-user")),
				Seed:             int64(cmd.Int("seed")),
			})

			dataset, err := gen.Generate(ctx)
			if err != nil {
				return fmt.Errorf("generate dataset: %w", err)
			}

			out := cmd.String("out")
			if err := generator.WriteDataset(dataset, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.Root().Writer, "wrote %d users, %d movies, %d favorites to %s\n",
				len(dataset.Users), len(dataset.Movies), len(dataset.Favorites), out)
			return nil
		},
	}
}
