// Package instrument derives the set of edges that need a counter once the
// spanning edges are known.
package instrument

import (
	"github.com/emirpasic/gods/sets/linkedhashset"

	"github.com/specialistvlad/flowrecon/internal/graph"
)

// Compute returns the instrumentation set for g: every positive-weight edge
// outside spanning, in graph edge order, followed by the entry sentinel when
// the graph has one. The exit sentinel is never instrumented; its count is
// implied by the entry sentinel.
func Compute(g *graph.Graph, spanning []string) []string {
	tree := make(map[string]struct{}, len(spanning))
	for _, id := range spanning {
		tree[id] = struct{}{}
	}

	set := linkedhashset.New()
	for _, e := range g.RealEdges() {
		if _, ok := tree[e.ID]; ok {
			continue
		}
		set.Add(e.ID)
	}
	if g.HasEdge(graph.EntrySentinelID) {
		set.Add(graph.EntrySentinelID)
	}
	set.Remove(graph.ExitSentinelID)

	out := make([]string, 0, set.Size())
	it := set.Iterator()
	for it.Next() {
		out = append(out, it.Value().(string))
	}
	return out
}
