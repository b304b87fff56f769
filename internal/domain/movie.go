package domain

// Movie is the property map of a Movie node as returned by the favorites
// queries. Properties are owned by the graph store; the service only adds the
// computed favorite flag.
type Movie map[string]any

// Movie property keys the service reads or writes.
const (
	MoviePropTmdbID   = "tmdbId"
	MoviePropTitle    = "title"
	MoviePropFavorite = "favorite"
)

// TmdbID returns the movie identifier, or an empty string when absent.
func (m Movie) TmdbID() string {
	id, _ := m[MoviePropTmdbID].(string)
	return id
}

// Title returns the movie title, or an empty string when absent.
func (m Movie) Title() string {
	title, _ := m[MoviePropTitle].(string)
	return title
}

// Favorite reports the computed favorite flag.
func (m Movie) Favorite() bool {
	fav, _ := m[MoviePropFavorite].(bool)
	return fav
}

// Props returns a copy of the movie properties without the identifier and
// the computed favorite flag, suitable for a SET += clause.
func (m Movie) Props() map[string]any {
	props := make(map[string]any, len(m))
	for k, v := range m {
		if k == MoviePropTmdbID || k == MoviePropFavorite {
			continue
		}
		props[k] = v
	}
	return props
}
