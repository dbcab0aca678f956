package solver

import (
	"io"
	"log/slog"

	"github.com/specialistvlad/flowrecon/internal/graph"
	"github.com/specialistvlad/flowrecon/internal/metrics"
)

type Option func(*Solver)

func WithLogger(l *slog.Logger) Option {
	return func(s *Solver) { s.logger = l }
}

func WithMetrics(r *metrics.Recorder) Option {
	return func(s *Solver) { s.metrics = r }
}

// Solver reconstructs tree edge counts one step at a time.
type Solver struct {
	g       *graph.Graph
	tree    map[string]struct{}
	src     CounterSource
	logger  *slog.Logger
	metrics *metrics.Recorder

	reconstructed map[string]int64
	steps         []Step
	cursor        int
}

// New creates a solver for g whose spanning edges are tree. Counters are
// read from src on every call, so a running simulation can feed it.
func New(g *graph.Graph, tree []string, src CounterSource, opts ...Option) *Solver {
	s := &Solver{
		g:             g,
		tree:          make(map[string]struct{}, len(tree)),
		src:           src,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		reconstructed: make(map[string]int64),
		cursor:        -1,
	}
	for _, id := range tree {
		s.tree[id] = struct{}{}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reset forgets every reconstructed value and step.
func (s *Solver) Reset() {
	s.reconstructed = make(map[string]int64)
	s.steps = nil
	s.cursor = -1
}

// known merges the measured counters, the reconstructed values and the
// virtual exit sentinel.
func (s *Solver) known() map[string]int64 {
	m := s.src.Counters()
	for k, v := range s.reconstructed {
		m[k] = v
	}
	if v, ok := m[graph.EntrySentinelID]; ok {
		m[graph.ExitSentinelID] = v
	}
	return m
}

// MergedCounters returns the measured counters overlaid with the
// reconstructed ones.
func (s *Solver) MergedCounters() map[string]int64 {
	m := s.src.Counters()
	for k, v := range s.reconstructed {
		m[k] = v
	}
	return m
}

// PendingTreeEdgeIDs lists, in graph edge order, the tree edges whose count
// is still unknown. Sentinels are never pending.
func (s *Solver) PendingTreeEdgeIDs() []string {
	return s.pending(s.known())
}

func (s *Solver) pending(known map[string]int64) []string {
	var out []string
	for _, e := range s.g.Edges() {
		if e.IsSentinel() {
			continue
		}
		if _, ok := s.tree[e.ID]; !ok {
			continue
		}
		if _, ok := known[e.ID]; ok {
			continue
		}
		out = append(out, e.ID)
	}
	return out
}

// Done reports whether every tree edge is known.
func (s *Solver) Done() bool {
	return len(s.PendingTreeEdgeIDs()) == 0
}

// ComputeNext solves one more tree edge. It returns false when nothing could
// be solved, either because every tree edge is known or because no node has
// exactly one unknown edge; PendingTreeEdgeIDs tells the two apart.
func (s *Solver) ComputeNext() (Step, bool) {
	known := s.known()
	pending := s.pending(known)
	if len(pending) == 0 {
		return Step{}, false
	}
	unknown := make(map[string]struct{}, len(pending))
	for _, id := range pending {
		unknown[id] = struct{}{}
	}

	nodeID, edge, ok := s.findSolvable(unknown, known)
	if !ok {
		s.metrics.Stalled()
		s.logger.Info("Reconstruction stalled.", "pending", pending)
		return Step{}, false
	}

	step := s.solveAt(nodeID, edge, known)
	s.reconstructed[edge.ID] = step.Value
	s.steps = append(s.steps, step)
	s.cursor = len(s.steps) - 1
	s.metrics.EdgeSolved()
	s.logger.Debug("Tree edge reconstructed.", "edge", edge.ID, "value", step.Value, "node", nodeID)
	return step, true
}

// Solve calls ComputeNext until it makes no progress and returns the steps
// taken by this call.
func (s *Solver) Solve() []Step {
	var out []Step
	for {
		step, ok := s.ComputeNext()
		if !ok {
			return out
		}
		out = append(out, step)
	}
}

// findSolvable returns the first node, in node order, with exactly one
// unknown tree edge whose other edges are all known or sentinels.
func (s *Solver) findSolvable(unknown map[string]struct{}, known map[string]int64) (string, graph.Edge, bool) {
	for _, n := range s.g.Nodes() {
		var candidate graph.Edge
		unknowns := 0
		blocked := false
		for _, e := range s.g.Incident(n.ID) {
			if _, ok := unknown[e.ID]; ok {
				unknowns++
				candidate = e
				continue
			}
			if e.IsSentinel() {
				continue
			}
			if _, ok := known[e.ID]; !ok {
				blocked = true
				break
			}
		}
		if !blocked && unknowns == 1 {
			return n.ID, candidate, true
		}
	}
	return "", graph.Edge{}, false
}

func (s *Solver) solveAt(nodeID string, x graph.Edge, known map[string]int64) Step {
	var terms []Term
	var sumIn, sumOut int64
	for _, e := range s.g.Incoming(nodeID) {
		v, ok := known[e.ID]
		if !ok {
			continue
		}
		sumIn += v
		terms = append(terms, Term{EdgeID: e.ID, Sign: 1, Value: v, Label: e.Label})
	}
	for _, e := range s.g.Outgoing(nodeID) {
		v, ok := known[e.ID]
		if !ok {
			continue
		}
		sumOut += v
		terms = append(terms, Term{EdgeID: e.ID, Sign: -1, Value: v, Label: e.Label})
	}

	incoming := x.Target == nodeID
	value := sumIn - sumOut
	if incoming {
		value = sumOut - sumIn
	}

	return Step{
		SolvedEdgeID: x.ID,
		Value:        value,
		NodeID:       nodeID,
		ParentID:     x.Other(nodeID),
		Equation:     terms,
		Text:         renderText(nodeID, x.ID, incoming, terms, value),
	}
}

// Steps returns every step taken since the last reset.
func (s *Solver) Steps() []Step {
	out := make([]Step, len(s.steps))
	copy(out, s.steps)
	return out
}

// Cursor is the index of the step being browsed, or -1 when there are none.
func (s *Solver) Cursor() int { return s.cursor }

// Current returns the step under the cursor.
func (s *Solver) Current() (Step, bool) {
	if s.cursor < 0 {
		return Step{}, false
	}
	return s.steps[s.cursor], true
}

// Prev moves the cursor back one step.
func (s *Solver) Prev() (Step, bool) {
	if s.cursor <= 0 {
		return Step{}, false
	}
	s.cursor--
	return s.steps[s.cursor], true
}

// Next moves the cursor forward one step.
func (s *Solver) Next() (Step, bool) {
	if s.cursor+1 >= len(s.steps) {
		return Step{}, false
	}
	s.cursor++
	return s.steps[s.cursor], true
}

func (s *Solver) Snapshot() Snapshot {
	return Snapshot{
		Merged:  s.MergedCounters(),
		Pending: s.PendingTreeEdgeIDs(),
		Steps:   s.Steps(),
		Cursor:  s.cursor,
	}
}
