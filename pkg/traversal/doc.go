// Package traversal walks the movie similarity graph.
//
// All functions take a *graph.Adjacency and visit neighbors in adjacency
// order, so results are reproducible for a given movie ordering. A start id
// that is not a key yields an empty result rather than an error.
package traversal
