package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/vanshika/movieshelf/backend/internal/domain"
	"github.com/vanshika/movieshelf/backend/internal/repository"
)

// FavoriteRepository is the storage contract required by the favorite service.
type FavoriteRepository interface {
	ListFavorites(ctx context.Context, userID string, opts repository.ListFavoritesOptions) ([]domain.Movie, error)
	AddFavorite(ctx context.Context, userID, movieID string) (domain.Movie, error)
	RemoveFavorite(ctx context.Context, userID, movieID string) (domain.Movie, error)
}

// OperationObserver receives the outcome of each favorite operation.
type OperationObserver interface {
	ObserveOperation(op, outcome string, duration time.Duration)
}

// Operation outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

// ListParams controls ordering and pagination of a favorites listing. Zero
// values select the defaults: title, ASC, 6 rows, no skip.
type ListParams struct {
	Sort  string `validate:"omitempty,sortfield"`
	Order string `validate:"omitempty,oneof=ASC DESC"`
	Limit int    `validate:"gte=0"`
	Skip  int    `validate:"gte=0"`
}

// FavoriteService validates caller input and delegates each operation to a
// single repository call.
type FavoriteService struct {
	repo     FavoriteRepository
	logger   *zap.Logger
	validate *validator.Validate
	observer OperationObserver
	nowFn    func() time.Time
}

// NewFavoriteService constructs a FavoriteService. A nil logger disables logging.
func NewFavoriteService(repo FavoriteRepository, logger *zap.Logger) *FavoriteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FavoriteService{
		repo:     repo,
		logger:   logger,
		validate: newValidator(),
		nowFn:    time.Now,
	}
}

// WithObserver attaches an operation observer such as the metrics collector.
func (s *FavoriteService) WithObserver(observer OperationObserver) *FavoriteService {
	s.observer = observer
	return s
}

// WithClock overrides the time source used to measure operation durations.
func (s *FavoriteService) WithClock(nowFn func() time.Time) *FavoriteService {
	if nowFn != nil {
		s.nowFn = nowFn
	}
	return s
}

// List returns the user's favorite movies ordered by params.Sort and
// params.Order, skipping params.Skip rows and returning at most params.Limit.
// A user without favorites, an unknown user and a skip past the end all
// surface as domain.NotFoundError.
func (s *FavoriteService) List(ctx context.Context, userID string, params ListParams) ([]domain.Movie, error) {
	start := s.nowFn()
	userID = normalizeID(userID)
	params = normalizeListParams(params)

	if err := s.checkListInput(userID, params); err != nil {
		s.observe("list", err, start)
		return nil, err
	}

	movies, err := s.repo.ListFavorites(ctx, userID, repository.ListFavoritesOptions{
		Sort:  params.Sort,
		Order: params.Order,
		Limit: params.Limit,
		Skip:  params.Skip,
	})
	s.observe("list", err, start)
	if err != nil {
		s.logFailure("list favorites", err, zap.String("userId", userID))
		return nil, err
	}
	s.logger.Debug("listed favorites",
		zap.String("userId", userID),
		zap.String("sort", params.Sort),
		zap.String("order", params.Order),
		zap.Int("count", len(movies)),
	)
	return movies, nil
}

// Add marks movieID as a favorite of userID. Adding an existing favorite is a
// no-op that still returns the movie.
func (s *FavoriteService) Add(ctx context.Context, userID, movieID string) (domain.Movie, error) {
	start := s.nowFn()
	userID, movieID = normalizeID(userID), normalizeID(movieID)
	if err := checkIDs(userID, movieID); err != nil {
		s.observe("add", err, start)
		return nil, err
	}

	movie, err := s.repo.AddFavorite(ctx, userID, movieID)
	s.observe("add", err, start)
	if err != nil {
		s.logFailure("add favorite", err, zap.String("userId", userID), zap.String("movieId", movieID))
		return nil, err
	}
	s.logger.Info("favorite added", zap.String("userId", userID), zap.String("movieId", movieID))
	return movie, nil
}

// Remove deletes the favorite edge between userID and movieID. Removing a
// favorite that does not exist returns domain.NotFoundError.
func (s *FavoriteService) Remove(ctx context.Context, userID, movieID string) (domain.Movie, error) {
	start := s.nowFn()
	userID, movieID = normalizeID(userID), normalizeID(movieID)
	if err := checkIDs(userID, movieID); err != nil {
		s.observe("remove", err, start)
		return nil, err
	}

	movie, err := s.repo.RemoveFavorite(ctx, userID, movieID)
	s.observe("remove", err, start)
	if err != nil {
		s.logFailure("remove favorite", err, zap.String("userId", userID), zap.String("movieId", movieID))
		return nil, err
	}
	s.logger.Info("favorite removed", zap.String("userId", userID), zap.String("movieId", movieID))
	return movie, nil
}

func (s *FavoriteService) checkListInput(userID string, params ListParams) error {
	if userID == "" {
		return &domain.ValidationError{Field: "userId", Message: "is required"}
	}
	if err := s.validate.Struct(params); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return toValidationError(fieldErrs[0])
		}
		return &domain.ValidationError{Message: err.Error()}
	}
	return nil
}

func (s *FavoriteService) observe(op string, err error, start time.Time) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveOperation(op, outcomeOf(err), s.nowFn().Sub(start))
}

// logFailure keeps expected outcomes out of the error log.
func (s *FavoriteService) logFailure(msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	switch {
	case domain.IsNotFound(err):
		s.logger.Debug(msg, fields...)
	case errors.Is(err, context.Canceled):
		s.logger.Warn(msg, fields...)
	default:
		s.logger.Error(msg, fields...)
	}
}

func checkIDs(userID, movieID string) error {
	if userID == "" {
		return &domain.ValidationError{Field: "userId", Message: "is required"}
	}
	if movieID == "" {
		return &domain.ValidationError{Field: "movieId", Message: "is required"}
	}
	return nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case domain.IsNotFound(err):
		return OutcomeNotFound
	case domain.IsValidation(err):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}
