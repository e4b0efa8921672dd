package model

import "strconv"

// Movie is a catalog entry. Field names follow the catalog API so that
// documents fetched upstream can be decoded without translation.
type Movie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	PosterPath  string  `json:"poster_path,omitempty"`
	ReleaseDate string  `json:"release_date,omitempty"`
	VoteAverage float64 `json:"vote_average"`
	Overview    string  `json:"overview,omitempty"`
	GenreIDs    []int   `json:"genre_ids"`
}

// NodeID returns the graph identity of the movie (its id in decimal form)
func (m Movie) NodeID() string {
	return strconv.Itoa(m.ID)
}

// Year returns the release year, or "" when the release date is unknown
func (m Movie) Year() string {
	if len(m.ReleaseDate) < 4 {
		return ""
	}
	return m.ReleaseDate[:4]
}

// Genre is a categorical tag that movies can share
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
