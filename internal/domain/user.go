package domain

import "time"

// User is the canonical User node. The favorites service only relies on ID;
// the remaining fields are populated by seed tooling.
type User struct {
	ID        string    `json:"userId" yaml:"userId"`
	Name      string    `json:"name,omitempty" yaml:"name,omitempty"`
	Email     string    `json:"email,omitempty" yaml:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
}

// Favorite names a single HAS_FAVOURITE edge by its endpoints.
type Favorite struct {
	UserID  string `json:"userId" yaml:"userId"`
	MovieID string `json:"movieId" yaml:"movieId"`
}

// Dataset bundles users, movies and favorite edges for seeding a graph.
type Dataset struct {
	Users     []User     `json:"users" yaml:"users"`
	Movies    []Movie    `json:"movies" yaml:"movies"`
	Favorites []Favorite `json:"favorites" yaml:"favorites"`
}
