package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/vanshika/movieshelf/backend/internal/domain"
	"github.com/vanshika/movieshelf/backend/internal/service"
)

// FavoriteService is the behaviour the HTTP API needs from the service layer.
type FavoriteService interface {
	List(ctx context.Context, userID string, params service.ListParams) ([]domain.Movie, error)
	Add(ctx context.Context, userID, movieID string) (domain.Movie, error)
	Remove(ctx context.Context, userID, movieID string) (domain.Movie, error)
}

// APIHandlers exposes HTTP handlers for the REST API.
type APIHandlers struct {
	logger    *zap.Logger
	favorites FavoriteService
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *zap.Logger, favorites FavoriteService) *APIHandlers {
	return &APIHandlers{
		logger:    logger,
		favorites: favorites,
	}
}

func (h *APIHandlers) listFavorites(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	query := r.URL.Query()

	limit, err := parseInt(query.Get("limit"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	skip, err := parseInt(query.Get("skip"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid skip")
		return
	}

	movies, err := h.favorites.List(r.Context(), userID, service.ListParams{
		Sort:  query.Get("sort"),
		Order: query.Get("order"),
		Limit: limit,
		Skip:  skip,
	})
	if err != nil {
		h.handleError(w, r, err, "failed to list favorites", zap.String("userId", userID))
		return
	}
	respondJSON(w, http.StatusOK, movies)
}

func (h *APIHandlers) addFavorite(w http.ResponseWriter, r *http.Request) {
	userID, movieID := chi.URLParam(r, "userId"), chi.URLParam(r, "movieId")

	movie, err := h.favorites.Add(r.Context(), userID, movieID)
	if err != nil {
		h.handleError(w, r, err, "failed to add favorite", zap.String("userId", userID), zap.String("movieId", movieID))
		return
	}
	respondJSON(w, http.StatusCreated, movie)
}

func (h *APIHandlers) removeFavorite(w http.ResponseWriter, r *http.Request) {
	userID, movieID := chi.URLParam(r, "userId"), chi.URLParam(r, "movieId")

	movie, err := h.favorites.Remove(r.Context(), userID, movieID)
	if err != nil {
		h.handleError(w, r, err, "failed to remove favorite", zap.String("userId", userID), zap.String("movieId", movieID))
		return
	}
	respondJSON(w, http.StatusOK, movie)
}

// handleError maps domain errors to status codes. Infrastructure failures are
// logged with their detail and reported to the client generically.
func (h *APIHandlers) handleError(w http.ResponseWriter, r *http.Request, err error, msg string, fields ...zap.Field) {
	var (
		notFound   *domain.NotFoundError
		validation *domain.ValidationError
	)
	switch {
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, notFound.Message)
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, validation.Error())
	case errors.Is(err, context.Canceled):
		h.logger.Warn(msg, append(fields, zap.Error(err))...)
		writeError(w, http.StatusServiceUnavailable, "request cancelled")
	default:
		h.logger.Error(msg, append(fields, zap.Error(err), zap.String("path", r.URL.Path))...)
		writeError(w, http.StatusInternalServerError, msg)
	}
}

func parseInt(value string, fallback int) (int, error) {
	if value == "" {
		return fallback, nil
	}
	return strconv.Atoi(value)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"error": msg,
	})
}
