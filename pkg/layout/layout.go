package layout

import (
	"math"

	"github.com/ritzau/movie-graph/pkg/model"
)

// Positions maps node id to its last known screen coordinate.
// The caller owns it and passes it back in on the next rebuild.
type Positions map[string]model.Position

const (
	circleCenterX = 400.0
	circleCenterY = 350.0
	circleRadius  = 300.0
)

// Resolve returns a position for every movie. Previous positions are kept by
// id; if any movie has none, a circle layout fills the gaps.
func Resolve(movies []model.Movie, previous Positions) Positions {
	resolved := make(Positions, len(movies))
	if len(movies) == 0 {
		return resolved
	}

	var fallback Positions
	for _, movie := range movies {
		if _, ok := previous[movie.NodeID()]; !ok {
			fallback = Circle(movies, circleRadius)
			break
		}
	}

	for _, movie := range movies {
		id := movie.NodeID()
		if pos, ok := previous[id]; ok {
			resolved[id] = pos
		} else {
			resolved[id] = fallback[id]
		}
	}
	return resolved
}

// Circle places movies evenly on a circle in input order
func Circle(movies []model.Movie, radius float64) Positions {
	positions := make(Positions, len(movies))
	for i, movie := range movies {
		angle := float64(i) / float64(len(movies)) * 2 * math.Pi
		positions[movie.NodeID()] = model.Position{
			X: circleCenterX + radius*math.Cos(angle),
			Y: circleCenterY + radius*math.Sin(angle),
		}
	}
	return positions
}
