package simulator

import (
	"math/rand"

	"github.com/specialistvlad/flowrecon/internal/graph"
)

// walker holds what batch and stepwise mode share: the graph, the counted
// edges and the random source.
type walker struct {
	g            *graph.Graph
	instrumented map[string]struct{}
	outgoing     map[string][]graph.Edge
	rng          *rand.Rand
}

func newWalker(g *graph.Graph, instrumented []string, rng *rand.Rand) *walker {
	w := &walker{
		g:            g,
		instrumented: make(map[string]struct{}, len(instrumented)),
		outgoing:     make(map[string][]graph.Edge),
		rng:          rng,
	}
	for _, id := range instrumented {
		w.instrumented[id] = struct{}{}
	}
	for _, e := range g.Edges() {
		w.outgoing[e.Source] = append(w.outgoing[e.Source], e)
	}
	return w
}

func (w *walker) isInstrumented(edgeID string) bool {
	_, ok := w.instrumented[edgeID]
	return ok
}

// countEntry counts the entry sentinel if it is instrumented.
func (w *walker) countEntry(counters map[string]int64) {
	if w.isInstrumented(graph.EntrySentinelID) && w.g.HasEdge(graph.EntrySentinelID) {
		counters[graph.EntrySentinelID]++
	}
}

// pick chooses an outgoing edge of nodeID. It returns false at a dead end.
func (w *walker) pick(nodeID string) (graph.Edge, bool) {
	out := w.outgoing[nodeID]
	if len(out) == 0 {
		return graph.Edge{}, false
	}

	var sum float64
	for _, e := range out {
		sum += e.Weight
	}
	if sum <= 0 {
		idx := int(w.rng.Float64() * float64(len(out)))
		if idx >= len(out) {
			idx = len(out) - 1
		}
		return out[idx], true
	}

	r := w.rng.Float64() * sum
	for _, e := range out {
		if r < e.Weight {
			return e, true
		}
		r -= e.Weight
	}
	return out[len(out)-1], true
}

// endReason says why a run stopped.
type endReason int

const (
	endExit endReason = iota
	endDeadEnd
	endStepLimit
)
