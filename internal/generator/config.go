package generator

// Config drives the synthetic data generator.
type Config struct {
	NumUsers         int
	NumMovies        int
	FavoritesPerUser int
	Seed             int64
}

// DefaultConfig returns settings sized for a local development graph.
func DefaultConfig() Config {
	return Config{
		NumUsers:         200,
		NumMovies:        500,
		FavoritesPerUser: 8,
		Seed:             42,
	}
}
