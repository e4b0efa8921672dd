package shortestpath

import "github.com/ritzau/movie-graph/pkg/model"

// DefaultWeight is used when neither direction of an edge is registered
const DefaultWeight = 1.0

// WeightMap holds edge weights keyed by "source-target". Each edge is
// registered under a single direction; lookups try both.
type WeightMap map[string]float64

// EdgeKey returns the directed key for a pair of node ids
func EdgeKey(source, target string) string {
	return source + "-" + target
}

// BuildWeightMap registers 1/strength for every edge under its
// source-target key
func BuildWeightMap(edges []model.Edge) WeightMap {
	weights := make(WeightMap, len(edges))
	for _, edge := range edges {
		weights[EdgeKey(edge.Source, edge.Target)] = edge.Weight()
	}
	return weights
}

// Lookup returns the weight between a and b in either direction, or
// DefaultWeight when the pair is not registered
func (w WeightMap) Lookup(a, b string) float64 {
	if weight, ok := w[EdgeKey(a, b)]; ok && weight > 0 {
		return weight
	}
	if weight, ok := w[EdgeKey(b, a)]; ok && weight > 0 {
		return weight
	}
	return DefaultWeight
}
