package tmdb

import (
	"strings"

	"github.com/Clark-Hu/now-playing/internal/domain"
)

// DefaultCardLimit matches the number of cards shown on the landing page.
const DefaultCardLimit = 10

// Card is a render-ready view of a movie.
type Card struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Overview    string `json:"overview"`
	PosterURL   string `json:"posterUrl"`
	VoteAverage string `json:"voteAverage"`
	ReleaseDate string `json:"releaseDate"`
	Language    string `json:"language"`
}

// NewCard formats a movie for display.
func NewCard(m domain.Movie) Card {
	return Card{
		ID:          m.ID,
		Title:       m.Title,
		Overview:    m.Overview,
		PosterURL:   ImageURL(m.PosterPath, SizeW500),
		VoteAverage: FormatVoteAverage(m.VoteAverage),
		ReleaseDate: FormatDate(m.ReleaseDate),
		Language:    strings.ToUpper(m.OriginalLanguage),
	}
}

// Cards formats at most limit movies, keeping catalog order.
// A non-positive limit uses DefaultCardLimit.
func Cards(movies []domain.Movie, limit int) []Card {
	if limit <= 0 {
		limit = DefaultCardLimit
	}
	if len(movies) < limit {
		limit = len(movies)
	}
	cards := make([]Card, 0, limit)
	for _, m := range movies[:limit] {
		cards = append(cards, NewCard(m))
	}
	return cards
}
