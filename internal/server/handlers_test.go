package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vanshika/movieshelf/backend/internal/domain"
	"github.com/vanshika/movieshelf/backend/internal/repository"
	"github.com/vanshika/movieshelf/backend/internal/service"
)

type apiStubRepo struct {
	movies   []domain.Movie
	movie    domain.Movie
	err      error
	lastOpts repository.ListFavoritesOptions
	calls    int
}

func (a *apiStubRepo) ListFavorites(_ context.Context, _ string, opts repository.ListFavoritesOptions) ([]domain.Movie, error) {
	a.calls++
	a.lastOpts = opts
	return a.movies, a.err
}

func (a *apiStubRepo) AddFavorite(context.Context, string, string) (domain.Movie, error) {
	a.calls++
	return a.movie, a.err
}

func (a *apiStubRepo) RemoveFavorite(context.Context, string, string) (domain.Movie, error) {
	a.calls++
	return a.movie, a.err
}

type stubHealth struct{ err error }

func (s stubHealth) Probe(context.Context) error { return s.err }

type recordedHTTP struct {
	method, route string
	status        int
}

type stubHTTPMetrics struct{ observed []recordedHTTP }

func (s *stubHTTPMetrics) ObserveHTTP(method, route string, status int, _ time.Duration) {
	s.observed = append(s.observed, recordedHTTP{method: method, route: route, status: status})
}

func newTestRouter(repo *apiStubRepo, deps RouterDependencies) http.Handler {
	logger := zap.NewNop()
	deps.API = NewAPIHandlers(logger, service.NewFavoriteService(repo, logger))
	return NewRouter(logger, deps)
}

func serve(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestListFavoritesHandler(t *testing.T) {
	repo := &apiStubRepo{movies: []domain.Movie{
		{"tmdbId": "603", "title": "The Matrix", "favorite": true},
		{"tmdbId": "604", "title": "The Matrix Reloaded", "favorite": true},
	}}
	router := newTestRouter(repo, RouterDependencies{})

	rec := serve(t, router, http.MethodGet, "/api/v1/users/u-1/favorites?sort=released&order=desc&limit=2&skip=4")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decodeBody[[]map[string]any](t, rec)
	require.Len(t, body, 2)
	assert.Equal(t, "The Matrix", body[0]["title"])
	assert.Equal(t, true, body[0]["favorite"])
	assert.Equal(t, repository.ListFavoritesOptions{Sort: "released", Order: "DESC", Limit: 2, Skip: 4}, repo.lastOpts)
}

func TestListFavoritesHandlerDefaults(t *testing.T) {
	repo := &apiStubRepo{movies: []domain.Movie{{"tmdbId": "603"}}}
	router := newTestRouter(repo, RouterDependencies{})

	rec := serve(t, router, http.MethodGet, "/api/v1/users/u-1/favorites")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, repository.ListFavoritesOptions{Sort: "title", Order: "ASC", Limit: 6, Skip: 0}, repo.lastOpts)
}

func TestListFavoritesHandlerBadQuery(t *testing.T) {
	cases := map[string]string{
		"non-numeric limit": "/api/v1/users/u-1/favorites?limit=ten",
		"non-numeric skip":  "/api/v1/users/u-1/favorites?skip=x",
		"negative limit":    "/api/v1/users/u-1/favorites?limit=-1",
		"unknown sort":      "/api/v1/users/u-1/favorites?sort=title%20DESC%2C%20m.x",
		"unknown order":     "/api/v1/users/u-1/favorites?order=sideways",
	}
	for name, target := range cases {
		t.Run(name, func(t *testing.T) {
			repo := &apiStubRepo{}
			router := newTestRouter(repo, RouterDependencies{})

			rec := serve(t, router, http.MethodGet, target)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decodeBody[map[string]string](t, rec)["error"])
			assert.Zero(t, repo.calls)
		})
	}
}

func TestFavoriteHandlersErrorMapping(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", domain.NewNotFoundError("No favorites found for user %s", "u-1"), http.StatusNotFound, "No favorites found for user u-1"},
		{"driver failure", errors.New("connection reset by peer"), http.StatusInternalServerError, ""},
	}
	routes := []struct {
		method, target string
	}{
		{http.MethodGet, "/api/v1/users/u-1/favorites"},
		{http.MethodPost, "/api/v1/users/u-1/favorites/603"},
		{http.MethodDelete, "/api/v1/users/u-1/favorites/603"},
	}

	for _, tc := range cases {
		for _, rt := range routes {
			t.Run(tc.name+" "+rt.method, func(t *testing.T) {
				router := newTestRouter(&apiStubRepo{err: tc.err}, RouterDependencies{})

				rec := serve(t, router, rt.method, rt.target)

				require.Equal(t, tc.status, rec.Code)
				msg := decodeBody[map[string]string](t, rec)["error"]
				if tc.message != "" {
					assert.Equal(t, tc.message, msg)
				}
				assert.NotContains(t, msg, "connection reset")
			})
		}
	}
}

func TestAddFavoriteHandler(t *testing.T) {
	repo := &apiStubRepo{movie: domain.Movie{"tmdbId": "603", "title": "The Matrix", "favorite": true}}
	router := newTestRouter(repo, RouterDependencies{})

	rec := serve(t, router, http.MethodPost, "/api/v1/users/u-1/favorites/603")

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "603", body["tmdbId"])
	assert.Equal(t, true, body["favorite"])
}

func TestRemoveFavoriteHandler(t *testing.T) {
	repo := &apiStubRepo{movie: domain.Movie{"tmdbId": "603", "title": "The Matrix", "favorite": false}}
	router := newTestRouter(repo, RouterDependencies{})

	rec := serve(t, router, http.MethodDelete, "/api/v1/users/u-1/favorites/603")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeBody[map[string]any](t, rec)["favorite"])
}

func TestAddFavoriteHandlerBlankMovieID(t *testing.T) {
	repo := &apiStubRepo{}
	router := newTestRouter(repo, RouterDependencies{})

	rec := serve(t, router, http.MethodPost, "/api/v1/users/u-1/favorites/%20")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, repo.calls)
}

func TestHealthz(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		router := newTestRouter(&apiStubRepo{}, RouterDependencies{Health: stubHealth{}})
		rec := serve(t, router, http.MethodGet, "/healthz")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", decodeBody[map[string]any](t, rec)["status"])
	})

	t.Run("graph unreachable", func(t *testing.T) {
		router := newTestRouter(&apiStubRepo{}, RouterDependencies{Health: stubHealth{err: errors.New("dial tcp: refused")}})
		rec := serve(t, router, http.MethodGet, "/healthz")

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		body := decodeBody[map[string]any](t, rec)
		assert.Equal(t, "degraded", body["status"])
		assert.Equal(t, "dial tcp: refused", body["error"])
	})
}

func TestRouterMetricsUseRoutePattern(t *testing.T) {
	metrics := &stubHTTPMetrics{}
	repo := &apiStubRepo{movie: domain.Movie{"tmdbId": "603"}}
	router := newTestRouter(repo, RouterDependencies{
		Metrics:        metrics,
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) }),
	})

	serve(t, router, http.MethodPost, "/api/v1/users/u-1/favorites/603")
	rec := serve(t, router, http.MethodGet, "/metrics")

	assert.Equal(t, http.StatusTeapot, rec.Code)
	require.Len(t, metrics.observed, 2)
	assert.Equal(t, recordedHTTP{method: http.MethodPost, route: "/api/v1/users/{userId}/favorites/{movieId}", status: http.StatusCreated}, metrics.observed[0])
	assert.Equal(t, "/metrics", metrics.observed[1].route)
}

func TestRouterCORS(t *testing.T) {
	router := newTestRouter(&apiStubRepo{}, RouterDependencies{AllowedOrigins: []string{"http://localhost:3000"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/users/u-1/favorites", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
