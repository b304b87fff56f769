package domain

import "strings"

// Listing defaults applied when the caller leaves a parameter at its zero value.
const (
	DefaultSortField = "title"
	DefaultSortOrder = SortAscending
	DefaultLimit     = 6
)

// Sort directions accepted by the favorites listing.
const (
	SortAscending  = "ASC"
	SortDescending = "DESC"
)

// sortableFields lists the Movie properties a favorites listing may order by.
// Sort keys are interpolated into Cypher, so nothing outside this set is accepted.
var sortableFields = []string{
	"title",
	"released",
	"year",
	"imdbRating",
	"runtime",
	"revenue",
	"budget",
	"tmdbId",
}

// SortableFields returns a copy of the allowed sort keys.
func SortableFields() []string {
	return append([]string(nil), sortableFields...)
}

// CanonicalSortField resolves a case-insensitive sort key to its property name.
func CanonicalSortField(field string) (string, bool) {
	field = strings.TrimSpace(field)
	for _, candidate := range sortableFields {
		if strings.EqualFold(candidate, field) {
			return candidate, true
		}
	}
	return "", false
}

// CanonicalSortOrder resolves a case-insensitive direction to ASC or DESC.
func CanonicalSortOrder(order string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(order)) {
	case SortAscending:
		return SortAscending, true
	case SortDescending:
		return SortDescending, true
	default:
		return "", false
	}
}
