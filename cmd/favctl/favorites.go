package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/vanshika/movieshelf/backend/internal/domain"
	"github.com/vanshika/movieshelf/backend/internal/service"
)

var errUsage = errors.New("expected arguments")

func listCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "List a user's favorite movies",
		ArgsUsage: "<userId>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "sort", Value: domain.DefaultSortField, Usage: "movie property to order by"},
			&cli.StringFlag{Name: "order", Value: domain.DefaultSortOrder, Usage: "ASC or DESC"},
			&cli.IntFlag{Name: "limit", Value: domain.DefaultLimit, Usage: "maximum number of movies"},
			&cli.IntFlag{Name: "skip", Usage: "number of movies to skip"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("%w: <userId>", errUsage)
			}

			rt, err := openRuntime(ctx, "favctl")
			if err != nil {
				return err
			}
			defer rt.Close()

			movies, err := rt.favorites.List(ctx, cmd.Args().Get(0), service.ListParams{
				Sort:  cmd.String("sort"),
				Order: cmd.String("order"),
				Limit: int(cmd.Int("limit")),
				Skip:  int(cmd.Int("skip")),
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.Root().Writer, movies)
		},
	}
}

func addCommand() *cli.Command {
	return favoriteEdgeCommand("add", "Mark a movie as a user's favorite", func(ctx context.Context, svc *service.FavoriteService, userID, movieID string) (domain.Movie, error) {
		return svc.Add(ctx, userID, movieID)
	})
}

func removeCommand() *cli.Command {
	return favoriteEdgeCommand("remove", "Remove a movie from a user's favorites", func(ctx context.Context, svc *service.FavoriteService, userID, movieID string) (domain.Movie, error) {
		return svc.Remove(ctx, userID, movieID)
	})
}

type edgeOp func(ctx context.Context, svc *service.FavoriteService, userID, movieID string) (domain.Movie, error)

func favoriteEdgeCommand(name, usage string, op edgeOp) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "<userId> <movieId>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 2 {
				return fmt.Errorf("%w: <userId> <movieId>", errUsage)
			}

			rt, err := openRuntime(ctx, "favctl")
			if err != nil {
				return err
			}
			defer rt.Close()

			movie, err := op(ctx, rt.favorites, cmd.Args().Get(0), cmd.Args().Get(1))
			if err != nil {
				return err
			}
			return printJSON(cmd.Root().Writer, movie)
		},
	}
}
