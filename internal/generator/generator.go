package generator

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vanshika/movieshelf/backend/internal/domain"
)

// Generator produces synthetic users, movies and favorite edges.
type Generator struct {
	cfg       Config
	rand      *rand.Rand
	fragments nameFragments
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	if cfg.NumUsers <= 0 {
		cfg.NumUsers = DefaultConfig().NumUsers
	}
	if cfg.NumMovies <= 0 {
		cfg.NumMovies = DefaultConfig().NumMovies
	}
	if cfg.FavoritesPerUser < 0 {
		cfg.FavoritesPerUser = 0
	}
	if cfg.FavoritesPerUser > cfg.NumMovies {
		cfg.FavoritesPerUser = cfg.NumMovies
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:       cfg,
		rand:      rand.New(rand.NewSource(cfg.Seed)),
		fragments: defaultNameFragments(),
	}
}

// Generate synthesises a dataset. The same seed always yields the same
// dataset, user ids included. It respects context cancellation.
func (g *Generator) Generate(ctx context.Context) (domain.Dataset, error) {
	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	users := make([]domain.User, g.cfg.NumUsers)
	for i := range users {
		if err := ctx.Err(); err != nil {
			return domain.Dataset{}, err
		}
		id, err := uuid.NewRandomFromReader(g.rand)
		if err != nil {
			return domain.Dataset{}, fmt.Errorf("generate user id: %w", err)
		}
		first, last := g.pick(g.fragments.first), g.pick(g.fragments.last)
		users[i] = domain.User{
			ID:        id.String(),
			Name:      first + " " + last,
			Email:     fmt.Sprintf("%s.%s%d@%s", strings.ToLower(first), strings.ToLower(last), i+1, g.pick(g.fragments.domains)),
			CreatedAt: base.Add(time.Duration(g.rand.Intn(365*24)) * time.Hour),
		}
	}

	movies := make([]domain.Movie, g.cfg.NumMovies)
	for i := range movies {
		if err := ctx.Err(); err != nil {
			return domain.Dataset{}, err
		}
		movies[i] = g.randomMovie(i)
	}

	favorites := make([]domain.Favorite, 0, g.cfg.NumUsers*g.cfg.FavoritesPerUser)
	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return domain.Dataset{}, err
		}
		// Perm yields distinct indexes so each (user, movie) pair appears once.
		for _, idx := range g.rand.Perm(len(movies))[:g.cfg.FavoritesPerUser] {
			favorites = append(favorites, domain.Favorite{UserID: u.ID, MovieID: movies[idx].TmdbID()})
		}
	}

	return domain.Dataset{Users: users, Movies: movies, Favorites: favorites}, nil
}

func (g *Generator) randomMovie(i int) domain.Movie {
	year := 1950 + g.rand.Intn(75)
	released := time.Date(year, time.Month(1+g.rand.Intn(12)), 1+g.rand.Intn(28), 0, 0, 0, 0, time.UTC)
	title := fmt.Sprintf("%s %s", g.pick(g.fragments.titleAdjectives), g.pick(g.fragments.titleNouns))
	if g.rand.Intn(4) == 0 {
		title += " " + strconv.Itoa(2+g.rand.Intn(3))
	}

	return domain.Movie{
		domain.MoviePropTmdbID: strconv.Itoa(100 + i),
		domain.MoviePropTitle:  title,
		"year":                 year,
		"released":             released.Format("2006-01-02"),
		"imdbRating":           float64(10+g.rand.Intn(81)) / 10,
		"runtime":              75 + g.rand.Intn(110),
		"genres":               []string{g.pick(g.fragments.genres)},
	}
}

func (g *Generator) pick(options []string) string {
	return options[g.rand.Intn(len(options))]
}

type nameFragments struct {
	first           []string
	last            []string
	domains         []string
	titleAdjectives []string
	titleNouns      []string
	genres          []string
}

func defaultNameFragments() nameFragments {
	return nameFragments{
		first:           []string{"Jane", "John", "Alex", "Priya", "Liu", "Maria", "Omar", "Sofia", "Noah", "Emma", "Lucas", "Mia", "Ava", "Ethan", "Zara"},
		last:            []string{"Doe", "Smith", "Chen", "Patel", "Garcia", "Khan", "Kim", "Ivanov", "Nguyen", "Silva", "Brown", "Lee"},
		domains:         []string{"example.com", "mail.com", "movieshelf.dev"},
		titleAdjectives: []string{"Silent", "Crimson", "Last", "Hidden", "Broken", "Electric", "Midnight", "Golden", "Forgotten", "Endless"},
		titleNouns:      []string{"Harbor", "Signal", "Frontier", "Garden", "Machine", "Empire", "River", "Witness", "Horizon", "Orchestra"},
		genres:          []string{"Action", "Comedy", "Drama", "Horror", "Romance", "Sci-Fi", "Thriller", "Documentary", "Animation"},
	}
}
