package graph

import "fmt"

// NodeKind tags a node with its role in the flow graph.
type NodeKind string

const (
	NodeEntry    NodeKind = "entry"
	NodeExit     NodeKind = "exit"
	NodeNormal   NodeKind = "normal"
	NodeDecision NodeKind = "decision"
)

// EdgeKind classifies an edge. Entry and exit also tag the sentinel edges.
type EdgeKind string

const (
	EdgeNormal EdgeKind = "normal"
	EdgeEntry  EdgeKind = "entry"
	EdgeExit   EdgeKind = "exit"
	EdgeBack   EdgeKind = "back"
	EdgeChord  EdgeKind = "chord"
)

// Reserved identifiers introduced by Augment.
const (
	EntrySentinelID = "__entry_sentinel__"
	ExitSentinelID  = "__exit_sentinel__"
	GhostInID       = "__ghost_in__"
	GhostOutID      = "__ghost_out__"
)

// Node is a vertex of the flow graph.
type Node struct {
	ID    string
	Label string
	Kind  NodeKind
	// Ghost marks the hidden nodes added by sentinel augmentation.
	Ghost bool
	// Meta holds cosmetic metadata for renderers. Algorithms never read it.
	Meta map[string]string
}

// Edge is a weighted directed edge. Weight is the relative probability of
// taking the edge and the sole input of the spanning selector.
type Edge struct {
	ID     string
	Source string
	Target string
	Weight float64
	Kind   EdgeKind
	Label  string
	// Meta holds cosmetic metadata for renderers. Algorithms never read it.
	Meta map[string]string
}

// IsSentinel reports whether the edge is one of the two sentinel edges.
func (e Edge) IsSentinel() bool {
	return IsSentinelID(e.ID)
}

// Other returns the endpoint of e opposite to nodeID.
func (e Edge) Other(nodeID string) string {
	if e.Source == nodeID {
		return e.Target
	}
	return e.Source
}

// IsReservedID reports whether id is one of the identifiers only Augment may
// add.
func IsReservedID(id string) bool {
	switch id {
	case EntrySentinelID, ExitSentinelID, GhostInID, GhostOutID:
		return true
	}
	return false
}

// IsSentinelID reports whether id names a sentinel edge.
func IsSentinelID(id string) bool {
	return id == EntrySentinelID || id == ExitSentinelID
}

// ParseNodeKind converts a textual kind, defaulting empty input to normal.
func ParseNodeKind(s string) (NodeKind, error) {
	switch NodeKind(s) {
	case "":
		return NodeNormal, nil
	case NodeEntry, NodeExit, NodeNormal, NodeDecision:
		return NodeKind(s), nil
	}
	return "", fmt.Errorf("%w: node kind %q", ErrUnknownKind, s)
}

// ParseEdgeKind converts a textual kind, defaulting empty input to normal.
func ParseEdgeKind(s string) (EdgeKind, error) {
	switch EdgeKind(s) {
	case "":
		return EdgeNormal, nil
	case EdgeNormal, EdgeEntry, EdgeExit, EdgeBack, EdgeChord:
		return EdgeKind(s), nil
	}
	return "", fmt.Errorf("%w: edge kind %q", ErrUnknownKind, s)
}
