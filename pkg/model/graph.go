package model

// Graph is the node/edge set handed to the presentation layer.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Position is a screen coordinate. It is a layout hint only.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node represents one movie in the similarity graph.
// Selected and Recommended only affect styling; Recommended is never true
// when Selected is.
type Node struct {
	ID          string   `json:"id"`
	Movie       Movie    `json:"movie"`
	Selected    bool     `json:"selected"`
	Recommended bool     `json:"recommended"`
	Position    Position `json:"position"`
}

// EdgeCategory names the styling bucket of an edge
type EdgeCategory string

const (
	EdgeBothSelected        EdgeCategory = "both-selected"
	EdgeSelectedRecommended EdgeCategory = "selected-recommended"
	EdgeRecommended         EdgeCategory = "recommended"
	EdgeSelected            EdgeCategory = "selected"
	EdgeDefault             EdgeCategory = "default"
)

// EdgeStyle describes how an edge is drawn
type EdgeStyle struct {
	Category EdgeCategory `json:"category"`
	Stroke   string       `json:"stroke"`
	Width    float64      `json:"width"`
	Animated bool         `json:"animated"`
}

// Edge connects two movies that share at least one genre.
// The pair is unordered for every algorithm; Source/Target only record the
// order in which the movies appeared in the input.
type Edge struct {
	ID           string    `json:"id"`
	Source       string    `json:"source"`
	Target       string    `json:"target"`
	CommonGenres []int     `json:"commonGenres"`
	Strength     int       `json:"strength"` // len(CommonGenres)
	Style        EdgeStyle `json:"style"`
}

// Weight is the traversal cost of the edge. More shared genres means a
// cheaper connection.
func (e Edge) Weight() float64 {
	if e.Strength <= 0 {
		return 1
	}
	return 1 / float64(e.Strength)
}
