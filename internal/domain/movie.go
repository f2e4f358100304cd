package domain

// Movie mirrors a single entry of the catalog's now playing listing.
type Movie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview"`
	PosterPath       *string `json:"poster_path"`
	VoteAverage      float64 `json:"vote_average"`
	ReleaseDate      string  `json:"release_date"`
	OriginalLanguage string  `json:"original_language"`
}

// NowPlayingResponse is the page payload returned by the catalog.
type NowPlayingResponse struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}
