package mst

// DisjointSet is a union-find over node ids with path compression and union
// by rank. It lives for a single spanning-forest computation.
type DisjointSet struct {
	parent map[string]string
	rank   map[string]int
}

// NewDisjointSet creates a set with every id in its own component
func NewDisjointSet(ids []string) *DisjointSet {
	ds := &DisjointSet{
		parent: make(map[string]string, len(ids)),
		rank:   make(map[string]int, len(ids)),
	}
	for _, id := range ids {
		ds.parent[id] = id
		ds.rank[id] = 0
	}
	return ds
}

// Contains reports whether id was registered
func (ds *DisjointSet) Contains(id string) bool {
	_, exists := ds.parent[id]
	return exists
}

// Find returns the representative of id's component.
// Unknown ids are their own representative.
func (ds *DisjointSet) Find(id string) string {
	parent, exists := ds.parent[id]
	if !exists {
		return id
	}
	if parent != id {
		ds.parent[id] = ds.Find(parent)
	}
	return ds.parent[id]
}

// Union merges the components of a and b and reports whether they were
// separate
func (ds *DisjointSet) Union(a, b string) bool {
	rootA := ds.Find(a)
	rootB := ds.Find(b)
	if rootA == rootB {
		return false
	}

	switch {
	case ds.rank[rootA] < ds.rank[rootB]:
		ds.parent[rootA] = rootB
	case ds.rank[rootA] > ds.rank[rootB]:
		ds.parent[rootB] = rootA
	default:
		ds.parent[rootB] = rootA
		ds.rank[rootA]++
	}
	return true
}
