package solver

// Term is one known edge in a balance equation. Sign is +1 for an edge
// entering the node and -1 for one leaving it.
type Term struct {
	EdgeID string
	Sign   int
	Value  int64
	Label  string
}

// Step records how one tree edge was solved.
type Step struct {
	SolvedEdgeID string
	Value        int64
	// NodeID is where the balance was applied; ParentID is the other
	// endpoint of the solved edge.
	NodeID   string
	ParentID string
	Equation []Term
	Text     string
}

// CounterSource supplies measured counters. *simulator.Simulator satisfies
// it.
type CounterSource interface {
	Counters() map[string]int64
}

// Fixed is a CounterSource over a constant set of counters.
type Fixed map[string]int64

func (f Fixed) Counters() map[string]int64 {
	out := make(map[string]int64, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Snapshot is a copy of the solver's observable state.
type Snapshot struct {
	Merged  map[string]int64
	Pending []string
	Steps   []Step
	Cursor  int
}
