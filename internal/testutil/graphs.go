package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/flowrecon/internal/graph"
)

// E describes an edge for BuildGraph.
type E struct {
	ID     string
	From   string
	To     string
	Weight float64
}

// BuildGraph creates a graph from the node ids and edges given, in that
// order. Nodes named ENTRY and EXIT get the entry and exit kinds. The result
// is augmented.
func BuildGraph(t *testing.T, nodes []string, edges []E) *graph.Graph {
	t.Helper()
	g := graph.New()
	for _, id := range nodes {
		kind := graph.NodeNormal
		switch id {
		case "ENTRY":
			kind = graph.NodeEntry
		case "EXIT":
			kind = graph.NodeExit
		}
		require.NoError(t, g.AddNode(graph.Node{ID: id, Label: id, Kind: kind}))
	}
	for _, e := range edges {
		require.NoError(t, g.AddEdge(graph.Edge{ID: e.ID, Source: e.From, Target: e.To, Weight: e.Weight}))
	}
	return g.Augment()
}

// IfElseGraph is the two-branch example used throughout the tests:
//
//	ENTRY -> S -> D -> T -> M -> EXIT
//	              D -> F -> M
func IfElseGraph(t *testing.T) *graph.Graph {
	t.Helper()
	return BuildGraph(t,
		[]string{"ENTRY", "S", "D", "T", "F", "M", "EXIT"},
		[]E{
			{"e0", "ENTRY", "S", 22},
			{"e1", "S", "D", 66},
			{"e2", "D", "T", 55},
			{"e3", "D", "F", 33},
			{"e4", "T", "M", 40},
			{"e5", "F", "M", 30},
			{"e6", "M", "EXIT", 77},
		})
}

// WhileLoopGraph has a single back edge B -> D.
func WhileLoopGraph(t *testing.T) *graph.Graph {
	t.Helper()
	return BuildGraph(t,
		[]string{"ENTRY", "I", "D", "B", "EXIT"},
		[]E{
			{"e0", "ENTRY", "I", 18},
			{"e1", "I", "D", 66},
			{"e2", "D", "B", 55},
			{"e3", "B", "D", 33},
			{"e4", "D", "EXIT", 44},
		})
}

// DeadEndGraph branches into a node with no way out.
func DeadEndGraph(t *testing.T) *graph.Graph {
	t.Helper()
	return BuildGraph(t,
		[]string{"ENTRY", "A", "X", "EXIT"},
		[]E{
			{"e0", "ENTRY", "A", 10},
			{"e1", "A", "X", 50},
			{"e2", "A", "EXIT", 50},
		})
}

// SelfLoopGraph never leaves A.
func SelfLoopGraph(t *testing.T) *graph.Graph {
	t.Helper()
	return BuildGraph(t,
		[]string{"ENTRY", "A", "EXIT"},
		[]E{
			{"e0", "ENTRY", "A", 10},
			{"e1", "A", "A", 5},
			{"e2", "EXIT", "A", 1},
		})
}
