package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/ritzau/movie-graph/pkg/model"
)

// Catalog is the movie collection the graph is built from, together with the
// selection state that accompanies it
type Catalog struct {
	Genres      []model.Genre `json:"genres,omitempty"`
	Movies      []model.Movie `json:"results"`
	Selected    []int         `json:"selected,omitempty"`
	Recommended []int         `json:"recommended,omitempty"`

	titles map[string]string
}

// Load reads a catalog document from disk
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a catalog document. Both an object with a "results" array
// and a bare array of movies are accepted. Movies with a repeated id keep
// their first occurrence.
func Parse(data []byte) (*Catalog, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty catalog document")
	}

	var c Catalog
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &c.Movies); err != nil {
			return nil, fmt.Errorf("decoding movie list: %w", err)
		}
	} else {
		if err := json.Unmarshal(trimmed, &c); err != nil {
			return nil, fmt.Errorf("decoding catalog: %w", err)
		}
	}

	c.Movies = dedupe(c.Movies)
	c.index()
	return &c, nil
}

// New wraps an in-memory movie list
func New(movies []model.Movie) *Catalog {
	c := &Catalog{Movies: dedupe(movies)}
	c.index()
	return c
}

func dedupe(movies []model.Movie) []model.Movie {
	seen := make(map[int]bool, len(movies))
	result := make([]model.Movie, 0, len(movies))
	for _, movie := range movies {
		if seen[movie.ID] {
			continue
		}
		seen[movie.ID] = true
		result = append(result, movie)
	}
	return result
}

func (c *Catalog) index() {
	c.titles = make(map[string]string, len(c.Movies))
	for _, movie := range c.Movies {
		c.titles[movie.NodeID()] = movie.Title
	}
}

// Title returns the title of the movie with the given node id, or the id
// itself when it is unknown
func (c *Catalog) Title(id string) string {
	if c != nil {
		if title, ok := c.titles[id]; ok && title != "" {
			return title
		}
	}
	return id
}

// GenreName returns the name of a genre id, or the id in decimal form
func (c *Catalog) GenreName(id int) string {
	if c == nil {
		return strconv.Itoa(id)
	}
	for _, genre := range c.Genres {
		if genre.ID == id {
			return genre.Name
		}
	}
	return strconv.Itoa(id)
}
