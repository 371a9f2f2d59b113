package api

import "time"

// User is a registered observer as returned by the Record Store.
type User struct {
	ID     int
	Name   string
	Email  string
	Title  string // optional academic credential, may be empty
	Avatar string // optional, may be empty
}

// Species is a catalog entry. ScientificName is the join key used by posts.
type Species struct {
	ID             int
	ScientificName string
	CommonName     string
	Family         string
}

// Location is a geo-coordinate pair.
type Location struct {
	Latitude  float64
	Longitude float64
}

// Post is a single fauna sighting. Immutable once fetched: nothing in this
// codebase writes to a Post after the boundary parse.
type Post struct {
	ID        string
	Content   string
	UserEmail string
	UserName  string
	Location  Location
	Species   string // scientific name; may not match any catalog entry
	CreatedAt time.Time
	Likes     int
	Comments  int
}

// CreatePostInput carries the fields of a new sighting submission.
type CreatePostInput struct {
	UserID      int
	SpeciesID   int
	Description string
	Latitude    float64
	Longitude   float64
}
