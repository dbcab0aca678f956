// Package solver recovers the counts of spanning-tree edges from the counts
// of the instrumented edges.
//
// Every node other than the ghosts conserves flow: what enters equals what
// leaves. A node whose incident edges are all known except one tree edge
// yields that edge's count directly. Solving it may leave a neighbour with a
// single unknown edge, so the solver repeats until every tree edge is known
// or no node qualifies.
//
// The exit sentinel is never measured. Its count is taken to equal the entry
// sentinel's, since every run that enters also leaves. This virtual value
// takes part in the balance at the exit node but is not reported in
// MergedCounters.
//
// A Solver is not safe for concurrent use.
package solver
