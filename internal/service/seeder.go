package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/vanshika/movieshelf/backend/internal/domain"
)

// TaskError accumulates multiple errors produced during bulk seeding.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	}
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	return "multiple errors: " + strings.Join(msgs, "; ")
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (e *TaskError) Unwrap() []error {
	return e.Errors
}

func (e *TaskError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// SeedRepository is the storage contract needed to create seed nodes.
type SeedRepository interface {
	UpsertUser(ctx context.Context, user domain.User) error
	UpsertMovie(ctx context.Context, movie domain.Movie) error
}

// SeedReport summarizes a completed seeding run.
type SeedReport struct {
	Users     int
	Movies    int
	Favorites int
}

// BulkSeeder loads a dataset into the graph using a worker pool. Nodes are
// written first so every favorite edge can find both endpoints.
type BulkSeeder struct {
	repo      SeedRepository
	favorites *FavoriteService
	workers   int
	logger    *zap.Logger
}

// NewBulkSeeder creates a BulkSeeder with the provided concurrency.
func NewBulkSeeder(repo SeedRepository, favorites *FavoriteService, workers int, logger *zap.Logger) *BulkSeeder {
	if workers <= 0 {
		workers = 4
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BulkSeeder{
		repo:      repo,
		favorites: favorites,
		workers:   workers,
		logger:    logger,
	}
}

// Seed writes users, movies and then favorite edges. It stops at the first
// phase that reports errors.
func (bs *BulkSeeder) Seed(ctx context.Context, ds domain.Dataset) (SeedReport, error) {
	var report SeedReport

	bs.logger.Info("seeding users", zap.Int("count", len(ds.Users)), zap.Int("workers", bs.workers))
	if err := bs.run(ctx, len(ds.Users), func(idx int) error {
		return bs.repo.UpsertUser(ctx, ds.Users[idx])
	}); err != nil {
		return report, err
	}
	report.Users = len(ds.Users)

	bs.logger.Info("seeding movies", zap.Int("count", len(ds.Movies)))
	if err := bs.run(ctx, len(ds.Movies), func(idx int) error {
		return bs.repo.UpsertMovie(ctx, ds.Movies[idx])
	}); err != nil {
		return report, err
	}
	report.Movies = len(ds.Movies)

	bs.logger.Info("seeding favorites", zap.Int("count", len(ds.Favorites)))
	if err := bs.run(ctx, len(ds.Favorites), func(idx int) error {
		fav := ds.Favorites[idx]
		_, err := bs.favorites.Add(ctx, fav.UserID, fav.MovieID)
		return err
	}); err != nil {
		return report, err
	}
	report.Favorites = len(ds.Favorites)

	return report, nil
}

func (bs *BulkSeeder) run(ctx context.Context, total int, workerFn func(idx int) error) error {
	if total == 0 {
		return nil
	}
	indexCh := make(chan int)
	errCh := make(chan error, total)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			if err := workerFn(idx); err != nil {
				errCh <- err
			}
		}
	}

	for i := 0; i < bs.workers; i++ {
		wg.Add(1)
		go worker()
	}

Loop:
	for i := 0; i < total; i++ {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	if err := ctx.Err(); err != nil {
		return err
	}

	var taskErr TaskError
	for err := range errCh {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		taskErr.append(err)
	}
	return taskErr.asError()
}
