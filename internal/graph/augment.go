package graph

// Augment returns a copy of g with the ghost nodes and sentinel edges added.
// Graphs without both an entry and an exit node are copied unchanged. Calling
// Augment on an already augmented graph adds nothing.
func (g *Graph) Augment() *Graph {
	out := g.clone()
	if g.entryID == "" || g.exitID == "" {
		return out
	}

	if _, ok := out.nodeIndex[GhostInID]; !ok {
		out.appendNode(Node{ID: GhostInID, Kind: NodeNormal, Ghost: true})
	}
	if _, ok := out.nodeIndex[GhostOutID]; !ok {
		out.appendNode(Node{ID: GhostOutID, Kind: NodeNormal, Ghost: true})
	}
	if !out.HasEdge(EntrySentinelID) {
		out.appendEdge(Edge{ID: EntrySentinelID, Source: GhostInID, Target: g.entryID, Kind: EdgeEntry})
	}
	if !out.HasEdge(ExitSentinelID) {
		out.appendEdge(Edge{ID: ExitSentinelID, Source: g.exitID, Target: GhostOutID, Kind: EdgeExit})
	}
	return out
}

func (g *Graph) clone() *Graph {
	out := New()
	out.nodes = append(out.nodes, g.nodes...)
	out.edges = append(out.edges, g.edges...)
	for k, v := range g.nodeIndex {
		out.nodeIndex[k] = v
	}
	for k, v := range g.edgeIndex {
		out.edgeIndex[k] = v
	}
	out.entryID = g.entryID
	out.exitID = g.exitID
	return out
}

// appendNode and appendEdge bypass validation; reserved ids are only ever
// added here.
func (g *Graph) appendNode(n Node) {
	g.nodeIndex[n.ID] = len(g.nodes)
	g.nodes = append(g.nodes, n)
}

func (g *Graph) appendEdge(e Edge) {
	g.edgeIndex[e.ID] = len(g.edges)
	g.edges = append(g.edges, e)
}
