package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vanshika/movieshelf/backend/internal/domain"
)

// UpsertUser ensures a User node exists with the latest metadata.
func (r *Repository) UpsertUser(ctx context.Context, user domain.User) error {
	if user.ID == "" {
		return errors.New("user id is required")
	}

	_, err := r.client.ExecuteWrite(ctx, upsertUserCypher, map[string]any{
		"userId": user.ID,
		"props":  userProperties(user),
	})
	if err != nil {
		return fmt.Errorf("upsert user %s: %w", user.ID, err)
	}
	return nil
}

// UpsertMovie ensures a Movie node exists keyed by tmdbId and merges its properties.
func (r *Repository) UpsertMovie(ctx context.Context, movie domain.Movie) error {
	id := movie.TmdbID()
	if id == "" {
		return errors.New("movie tmdbId is required")
	}

	_, err := r.client.ExecuteWrite(ctx, upsertMovieCypher, map[string]any{
		"movieId": id,
		"props":   movie.Props(),
	})
	if err != nil {
		return fmt.Errorf("upsert movie %s: %w", id, err)
	}
	return nil
}

func userProperties(u domain.User) map[string]any {
	props := map[string]any{}
	if u.Name != "" {
		props["name"] = u.Name
	}
	if u.Email != "" {
		props["email"] = u.Email
	}
	if !u.CreatedAt.IsZero() {
		props["createdAt"] = u.CreatedAt.UTC().Format(time.RFC3339)
	}
	return props
}

const upsertUserCypher = `
MERGE (u:User {userId: $userId})
SET u += $props
`

const upsertMovieCypher = `
MERGE (m:Movie {tmdbId: $movieId})
SET m += $props
`
