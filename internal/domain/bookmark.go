package domain

import "time"

// Bookmark marks that a user saved a movie. Only its existence carries meaning.
type Bookmark struct {
	UserID    UserID
	TMDBID    int
	CreatedAt time.Time
}

// Rating represents a single user's rating for a movie.
type Rating struct {
	UserID    UserID
	TMDBID    int
	Value     float64
	CreatedAt time.Time
	UpdatedAt time.Time
}
