package spanning

// disjointSet is a union-find over node ids with path compression and union
// by rank. Ids are added lazily on first lookup.
type disjointSet struct {
	parent map[string]string
	rank   map[string]int
}

func newDisjointSet() *disjointSet {
	return &disjointSet{
		parent: make(map[string]string),
		rank:   make(map[string]int),
	}
}

func (d *disjointSet) find(id string) string {
	p, ok := d.parent[id]
	if !ok {
		d.parent[id] = id
		return id
	}
	if p == id {
		return id
	}
	root := d.find(p)
	d.parent[id] = root
	return root
}

// union merges the components of a and b. It returns false when they were
// already connected.
func (d *disjointSet) union(a, b string) bool {
	ra, rb := d.find(a), d.find(b)
	if ra == rb {
		return false
	}
	switch {
	case d.rank[ra] < d.rank[rb]:
		d.parent[ra] = rb
	case d.rank[ra] > d.rank[rb]:
		d.parent[rb] = ra
	default:
		d.parent[rb] = ra
		d.rank[ra]++
	}
	return true
}
