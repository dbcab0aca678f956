package graph

import (
	"fmt"
	"math"
)

// Graph is an ordered collection of nodes and weighted directed edges.
// Insertion order is the enumeration order of Nodes and Edges.
type Graph struct {
	nodes []Node
	edges []Edge

	// nodeIndex and edgeIndex map an id to its position in nodes/edges.
	nodeIndex map[string]int
	edgeIndex map[string]int

	entryID string
	exitID  string
}

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodeIndex: make(map[string]int),
		edgeIndex: make(map[string]int),
	}
}

// AddNode appends a node. Empty, reserved or duplicate ids and a second entry
// or exit node are rejected.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return fmt.Errorf("add node: %w", ErrEmptyID)
	}
	if IsReservedID(n.ID) {
		return fmt.Errorf("add node %q: %w", n.ID, ErrReservedID)
	}
	if _, ok := g.nodeIndex[n.ID]; ok {
		return fmt.Errorf("add node %q: %w", n.ID, ErrDuplicateID)
	}
	if n.Kind == "" {
		n.Kind = NodeNormal
	}

	switch n.Kind {
	case NodeEntry:
		if g.entryID != "" {
			return fmt.Errorf("add node %q (entry is %q): %w", n.ID, g.entryID, ErrMultipleEntries)
		}
		g.entryID = n.ID
	case NodeExit:
		if g.exitID != "" {
			return fmt.Errorf("add node %q (exit is %q): %w", n.ID, g.exitID, ErrMultipleExits)
		}
		g.exitID = n.ID
	}

	g.nodeIndex[n.ID] = len(g.nodes)
	g.nodes = append(g.nodes, n)
	return nil
}

// AddEdge appends a directed edge from e.Source to e.Target. Both endpoints
// must already exist. Self loops are allowed. Sentinel and ghost ids are
// reserved for Augment.
func (g *Graph) AddEdge(e Edge) error {
	if e.ID == "" {
		return fmt.Errorf("add edge: %w", ErrEmptyID)
	}
	if IsReservedID(e.ID) {
		return fmt.Errorf("add edge %q: %w", e.ID, ErrReservedID)
	}
	if _, ok := g.edgeIndex[e.ID]; ok {
		return fmt.Errorf("add edge %q: %w", e.ID, ErrDuplicateID)
	}
	if _, ok := g.nodeIndex[e.Source]; !ok {
		return fmt.Errorf("add edge %q: source %q: %w", e.ID, e.Source, ErrUnknownNode)
	}
	if _, ok := g.nodeIndex[e.Target]; !ok {
		return fmt.Errorf("add edge %q: target %q: %w", e.ID, e.Target, ErrUnknownNode)
	}
	if e.Weight < 0 || math.IsNaN(e.Weight) {
		return fmt.Errorf("add edge %q: weight %v: %w", e.ID, e.Weight, ErrNegativeWeight)
	}
	if e.Kind == "" {
		e.Kind = EdgeNormal
	}

	g.edgeIndex[e.ID] = len(g.edges)
	g.edges = append(g.edges, e)
	return nil
}

// Nodes returns all nodes in enumeration order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges returns all edges in enumeration order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// NodeCount returns the number of nodes, ghosts included.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges, sentinels included.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Node looks up a node by id.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.nodeIndex[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Edge looks up an edge by id.
func (g *Graph) Edge(id string) (Edge, bool) {
	i, ok := g.edgeIndex[id]
	if !ok {
		return Edge{}, false
	}
	return g.edges[i], true
}

// HasEdge reports whether an edge with the given id exists.
func (g *Graph) HasEdge(id string) bool {
	_, ok := g.edgeIndex[id]
	return ok
}

// EntryID returns the id of the entry node, or "" if there is none.
func (g *Graph) EntryID() string { return g.entryID }

// ExitID returns the id of the exit node, or "" if there is none.
func (g *Graph) ExitID() string { return g.exitID }

// Outgoing returns the edges leaving nodeID in enumeration order.
func (g *Graph) Outgoing(nodeID string) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Source == nodeID {
			out = append(out, e)
		}
	}
	return out
}

// Incoming returns the edges entering nodeID in enumeration order.
func (g *Graph) Incoming(nodeID string) []Edge {
	var in []Edge
	for _, e := range g.edges {
		if e.Target == nodeID {
			in = append(in, e)
		}
	}
	return in
}

// Incident returns every edge touching nodeID, each edge once.
func (g *Graph) Incident(nodeID string) []Edge {
	var inc []Edge
	for _, e := range g.edges {
		if e.Source == nodeID || e.Target == nodeID {
			inc = append(inc, e)
		}
	}
	return inc
}

// RealEdges returns the edges with a positive weight. Sentinels are excluded
// because they always weigh zero.
func (g *Graph) RealEdges() []Edge {
	var weighted []Edge
	for _, e := range g.edges {
		if e.Weight > 0 {
			weighted = append(weighted, e)
		}
	}
	return weighted
}

// IsAugmented reports whether both sentinel edges are present.
func (g *Graph) IsAugmented() bool {
	return g.HasEdge(EntrySentinelID) && g.HasEdge(ExitSentinelID)
}
