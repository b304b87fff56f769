package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/vanshika/movieshelf/backend/internal/domain"
	"github.com/vanshika/movieshelf/backend/internal/graph"
)

// ListFavoritesOptions defines ordering and pagination for a favorites listing.
// Sort and Order are expected to be canonical already; anything outside the
// allow-list falls back to title ascending.
type ListFavoritesOptions struct {
	Sort  string
	Order string
	Limit int
	Skip  int
}

// Repository encapsulates graph persistence operations.
type Repository struct {
	client graph.Client
}

// New instantiates a Repository backed by the supplied graph client.
func New(client graph.Client) *Repository {
	return &Repository{client: client}
}

// ListFavorites returns the movies userID has favorited, each flagged
// favorite=true. An empty page is reported as a NotFoundError.
func (r *Repository) ListFavorites(ctx context.Context, userID string, opts ListFavoritesOptions) ([]domain.Movie, error) {
	params := map[string]any{
		"userId": userID,
		"skip":   int64(opts.Skip),
		"limit":  int64(opts.Limit),
	}

	query := fmt.Sprintf(listFavoritesCypherTemplate, movieOrderClause(opts.Sort, opts.Order))
	res, err := r.client.ExecuteWrite(ctx, query, params)
	if err != nil {
		return nil, err
	}
	if len(res.Records) == 0 {
		return nil, domain.NewNotFoundError("No favorites found for user %s", userID)
	}

	movies := make([]domain.Movie, 0, len(res.Records))
	for _, record := range res.Records {
		movies = append(movies, toMovie(record))
	}
	return movies, nil
}

// AddFavorite creates the HAS_FAVOURITE edge between the user and the movie
// if it does not exist yet and returns the movie flagged favorite=true.
func (r *Repository) AddFavorite(ctx context.Context, userID, movieID string) (domain.Movie, error) {
	res, err := r.client.ExecuteWrite(ctx, addFavoriteCypher, map[string]any{
		"userId":  userID,
		"movieId": movieID,
	})
	if err != nil {
		return nil, err
	}
	if len(res.Records) == 0 {
		return nil, domain.NewNotFoundError("Could not create favorite relationship between User %s and Movie %s", userID, movieID)
	}
	return toMovie(res.Records[0]), nil
}

// RemoveFavorite deletes the HAS_FAVOURITE edge and returns the movie flagged
// favorite=false.
func (r *Repository) RemoveFavorite(ctx context.Context, userID, movieID string) (domain.Movie, error) {
	res, err := r.client.ExecuteWrite(ctx, removeFavoriteCypher, map[string]any{
		"userId":  userID,
		"movieId": movieID,
	})
	if err != nil {
		return nil, err
	}
	if len(res.Records) == 0 {
		return nil, domain.NewNotFoundError("Could not remove favorite movie %s for user %s", movieID, userID)
	}
	return toMovie(res.Records[0]), nil
}

func toMovie(record graph.Record) domain.Movie {
	props := graph.ToNativeMap(record["movie"])
	if props == nil {
		props = map[string]any{}
	}
	return domain.Movie(props)
}

func movieOrderClause(field, order string) string {
	dir := domain.SortAscending
	if strings.EqualFold(order, domain.SortDescending) {
		dir = domain.SortDescending
	}
	prop, ok := domain.CanonicalSortField(field)
	if !ok {
		prop = domain.DefaultSortField
	}
	return fmt.Sprintf("m.`%s` %s", prop, dir)
}

const listFavoritesCypherTemplate = `
MATCH (u:User {userId: $userId})-[:HAS_FAVOURITE]->(m:Movie)
RETURN m { .*, favorite: true } AS movie
ORDER BY %s
SKIP $skip
LIMIT $limit
`

const addFavoriteCypher = `
MATCH (u:User {userId: $userId})
MATCH (m:Movie {tmdbId: $movieId})
MERGE (u)-[r:HAS_FAVOURITE]->(m)
ON CREATE SET r.createdAt = datetime()
RETURN m { .*, favorite: true } AS movie
`

const removeFavoriteCypher = `
MATCH (u:User {userId: $userId})-[r:HAS_FAVOURITE]->(m:Movie {tmdbId: $movieId})
DELETE r
RETURN m { .*, favorite: false } AS movie
`
