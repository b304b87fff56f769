package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/movieshelf/backend/internal/domain"
	"github.com/vanshika/movieshelf/backend/internal/repository"
)

// fakeStore models users, movies and HAS_FAVOURITE edges the way the Cypher
// queries behave against a real graph.
type fakeStore struct {
	mu        sync.Mutex
	users     map[string]bool
	movies    map[string]domain.Movie
	edges     map[string]map[string]time.Time
	lastOpts  repository.ListFavoritesOptions
	listCalls int
	err       error
	clock     func() time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:  map[string]bool{},
		movies: map[string]domain.Movie{},
		edges:  map[string]map[string]time.Time{},
		clock:  time.Now,
	}
}

func (f *fakeStore) withUser(id string) *fakeStore {
	f.users[id] = true
	return f
}

func (f *fakeStore) withMovie(m domain.Movie) *fakeStore {
	f.movies[m.TmdbID()] = m
	return f
}

func (f *fakeStore) project(id string, favorite bool) domain.Movie {
	out := domain.Movie{}
	for k, v := range f.movies[id] {
		out[k] = v
	}
	out["favorite"] = favorite
	return out
}

func (f *fakeStore) ListFavorites(_ context.Context, userID string, opts repository.ListFavoritesOptions) ([]domain.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	f.lastOpts = opts
	if f.err != nil {
		return nil, f.err
	}

	var movies []domain.Movie
	for id := range f.edges[userID] {
		movies = append(movies, f.project(id, true))
	}
	sort.SliceStable(movies, func(i, j int) bool {
		a, b := fmt.Sprint(movies[i][opts.Sort]), fmt.Sprint(movies[j][opts.Sort])
		if opts.Order == domain.SortDescending {
			return a > b
		}
		return a < b
	})
	if opts.Skip >= len(movies) {
		movies = nil
	} else {
		movies = movies[opts.Skip:]
	}
	if len(movies) > opts.Limit {
		movies = movies[:opts.Limit]
	}
	if len(movies) == 0 {
		return nil, domain.NewNotFoundError("No favorites found for user %s", userID)
	}
	return movies, nil
}

func (f *fakeStore) AddFavorite(_ context.Context, userID, movieID string) (domain.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if !f.users[userID] || f.movies[movieID] == nil {
		return nil, domain.NewNotFoundError("Could not create favorite relationship between User %s and Movie %s", userID, movieID)
	}
	if f.edges[userID] == nil {
		f.edges[userID] = map[string]time.Time{}
	}
	if _, ok := f.edges[userID][movieID]; !ok {
		f.edges[userID][movieID] = f.clock()
	}
	return f.project(movieID, true), nil
}

func (f *fakeStore) RemoveFavorite(_ context.Context, userID, movieID string) (domain.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.edges[userID][movieID]; !ok {
		return nil, domain.NewNotFoundError("Could not remove favorite movie %s for user %s", movieID, userID)
	}
	delete(f.edges[userID], movieID)
	return f.project(movieID, false), nil
}

func (f *fakeStore) edgeCount(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.edges[userID])
}

type recordingObserver struct {
	mu        sync.Mutex
	outcomes  []string
	durations []time.Duration
}

func (r *recordingObserver) ObserveOperation(op, outcome string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, op+":"+outcome)
	r.durations = append(r.durations, d)
}

// steppingClock advances by step on every reading.
func steppingClock(step time.Duration) func() time.Time {
	now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func matrix() domain.Movie {
	return domain.Movie{"tmdbId": "603", "title": "The Matrix", "year": int64(1999)}
}

func catalogStore() *fakeStore {
	store := newFakeStore().withUser("u1").withUser("u2")
	titles := []string{"Alien", "Blade Runner", "Casablanca", "Dune", "Heat", "Jaws", "Psycho", "Rocky"}
	for i, title := range titles {
		store.withMovie(domain.Movie{"tmdbId": fmt.Sprintf("%d", 100+i), "title": title})
	}
	return store
}

func TestFavoriteService_AddThenRemove(t *testing.T) {
	store := newFakeStore().withUser("u1").withMovie(matrix())
	svc := NewFavoriteService(store, nil)
	ctx := context.Background()

	added, err := svc.Add(ctx, "u1", "603")
	require.NoError(t, err)
	assert.Equal(t, "The Matrix", added.Title())
	assert.True(t, added.Favorite())

	removed, err := svc.Remove(ctx, "u1", "603")
	require.NoError(t, err)
	assert.False(t, removed.Favorite())
	assert.Equal(t, added.TmdbID(), removed.TmdbID())

	_, err = svc.Remove(ctx, "u1", "603")
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestFavoriteService_AddIsIdempotent(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := newFakeStore().withUser("u1").withMovie(matrix())
	store.clock = func() time.Time { return created }
	svc := NewFavoriteService(store, nil)
	ctx := context.Background()

	first, err := svc.Add(ctx, "u1", "603")
	require.NoError(t, err)

	store.clock = func() time.Time { return created.Add(time.Hour) }
	second, err := svc.Add(ctx, "u1", "603")
	require.NoError(t, err)

	assert.True(t, first.Favorite())
	assert.True(t, second.Favorite())
	assert.Equal(t, 1, store.edgeCount("u1"))
	assert.Equal(t, created, store.edges["u1"]["603"])
}

func TestFavoriteService_AddMissingNodes(t *testing.T) {
	store := newFakeStore().withUser("u1").withMovie(matrix())
	svc := NewFavoriteService(store, nil)

	_, err := svc.Add(context.Background(), "u1", "999999")
	assert.True(t, domain.IsNotFound(err))

	_, err = svc.Add(context.Background(), "nobody", "603")
	assert.True(t, domain.IsNotFound(err))
}

func TestFavoriteService_ListDefaultsAndOrdering(t *testing.T) {
	store := catalogStore()
	svc := NewFavoriteService(store, nil)
	ctx := context.Background()
	for i := 0; i < 8; i++ {
		_, err := svc.Add(ctx, "u1", fmt.Sprintf("%d", 107-i))
		require.NoError(t, err)
	}

	movies, err := svc.List(ctx, "u1", ListParams{})
	require.NoError(t, err)
	assert.Equal(t, repository.ListFavoritesOptions{Sort: "title", Order: "ASC", Limit: 6, Skip: 0}, store.lastOpts)
	require.Len(t, movies, 6)
	assert.Equal(t, "Alien", movies[0].Title())
	assert.Equal(t, "Jaws", movies[5].Title())
	for _, m := range movies {
		assert.True(t, m.Favorite())
	}

	movies, err = svc.List(ctx, "u1", ListParams{Sort: "TITLE", Order: "desc", Limit: 3, Skip: 1})
	require.NoError(t, err)
	assert.Equal(t, repository.ListFavoritesOptions{Sort: "title", Order: "DESC", Limit: 3, Skip: 1}, store.lastOpts)
	require.Len(t, movies, 3)
	assert.Equal(t, []string{"Psycho", "Jaws", "Heat"}, []string{movies[0].Title(), movies[1].Title(), movies[2].Title()})
}

func TestFavoriteService_ListNotFound(t *testing.T) {
	store := catalogStore()
	svc := NewFavoriteService(store, nil)
	ctx := context.Background()

	_, err := svc.List(ctx, "u2", ListParams{})
	assert.True(t, domain.IsNotFound(err), "user without favorites")

	_, err = svc.List(ctx, "ghost", ListParams{})
	assert.True(t, domain.IsNotFound(err), "unknown user")

	_, err = svc.Add(ctx, "u1", "100")
	require.NoError(t, err)
	_, err = svc.List(ctx, "u1", ListParams{Skip: 5})
	assert.True(t, domain.IsNotFound(err), "skip past the end")
}

func TestFavoriteService_ListValidation(t *testing.T) {
	store := catalogStore()
	svc := NewFavoriteService(store, nil)
	ctx := context.Background()

	tests := []struct {
		name   string
		userID string
		params ListParams
		field  string
	}{
		{"empty user", "  ", ListParams{}, "userId"},
		{"unknown sort", "u1", ListParams{Sort: "title) DETACH DELETE m"}, "sort"},
		{"bad order", "u1", ListParams{Order: "sideways"}, "order"},
		{"negative limit", "u1", ListParams{Limit: -1}, "limit"},
		{"negative skip", "u1", ListParams{Skip: -3}, "skip"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.List(ctx, tt.userID, tt.params)
			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
	assert.Zero(t, store.listCalls, "no query should run for invalid input")
}

func TestFavoriteService_AddRemoveValidation(t *testing.T) {
	svc := NewFavoriteService(newFakeStore(), nil)
	ctx := context.Background()

	_, err := svc.Add(ctx, "", "603")
	assert.True(t, domain.IsValidation(err))
	_, err = svc.Remove(ctx, "u1", " ")
	assert.True(t, domain.IsValidation(err))
}

func TestFavoriteService_PropagatesStoreErrors(t *testing.T) {
	boom := errors.New("connection reset by peer")
	store := newFakeStore()
	store.err = boom
	obs := &recordingObserver{}
	svc := NewFavoriteService(store, nil).WithObserver(obs)

	_, err := svc.Add(context.Background(), "u1", "603")
	assert.Same(t, boom, err)
	_, err = svc.List(context.Background(), "u1", ListParams{})
	assert.Same(t, boom, err)

	assert.Equal(t, []string{"add:error", "list:error"}, obs.outcomes)
}

func TestFavoriteService_ObserverOutcomes(t *testing.T) {
	store := newFakeStore().withUser("u1").withMovie(matrix())
	obs := &recordingObserver{}
	svc := NewFavoriteService(store, nil).WithObserver(obs).WithClock(steppingClock(5 * time.Millisecond))
	ctx := context.Background()

	_, _ = svc.Add(ctx, "u1", "603")
	_, _ = svc.Remove(ctx, "u1", "603")
	_, _ = svc.Remove(ctx, "u1", "603")
	_, _ = svc.List(ctx, "u1", ListParams{Limit: -1})

	assert.Equal(t, []string{"add:ok", "remove:ok", "remove:not_found", "list:invalid"}, obs.outcomes)
	for i, d := range obs.durations {
		assert.Equal(t, 5*time.Millisecond, d, "duration of %s", obs.outcomes[i])
	}
}
