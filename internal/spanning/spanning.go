// Package spanning selects the maximum-weight spanning forest of a flow graph.
// The edges it picks are the ones that do not need a counter: their values can
// be recovered from the others by flow conservation.
package spanning

import (
	"sort"

	"github.com/specialistvlad/flowrecon/internal/graph"
)

// Compute returns the ids of the spanning edges in acceptance order.
//
// Edges with a weight of zero or less never take part, which keeps the
// sentinels out. Direction is ignored. Ties in weight are broken by ascending
// edge id, so the result depends on the graph alone. Selection stops once the
// picked count reaches the node count minus one, ghosts included, or when the
// candidates run out. Disconnected graphs yield a forest.
func Compute(g *graph.Graph) []string {
	candidates := g.RealEdges()
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Weight != candidates[j].Weight {
			return candidates[i].Weight > candidates[j].Weight
		}
		return candidates[i].ID < candidates[j].ID
	})

	limit := g.NodeCount() - 1
	picked := make([]string, 0, len(candidates))
	ds := newDisjointSet()
	for _, e := range candidates {
		if len(picked) >= limit {
			break
		}
		if ds.union(e.Source, e.Target) {
			picked = append(picked, e.ID)
		}
	}
	return picked
}

// Contains reports whether id is part of the spanning set.
func Contains(set []string, id string) bool {
	for _, s := range set {
		if s == id {
			return true
		}
	}
	return false
}
