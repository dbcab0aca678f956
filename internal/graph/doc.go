// Package graph provides the flow-graph model shared by every algorithm in
// flowrecon: nodes, weighted directed edges and the sentinel augmentation rule
// that marks a single logical entry/exit pair.
//
// # Why Graph Package Exists
//
// The spanning selector, instrumentation deriver, traversal simulator and
// reconstruction solver all operate on the same structure. Keeping the model in
// one package gives them a single, immutable source of truth:
//   - **Stable enumeration:** Nodes and edges keep insertion order, which every
//     deterministic rule (tie breaking, solvable-node selection) relies on
//   - **Validation at the boundary:** Unknown endpoints, duplicate ids and a
//     second entry or exit node are rejected while the graph is being built
//   - **Cosmetic metadata isolation:** Meta maps travel with nodes and edges but
//     are never consulted by the algorithms
//
// # Sentinel Augmentation
//
// When a graph has both an entry node and an exit node, Augment adds two
// hidden ghost nodes and two zero-weight sentinel edges:
//
//	__ghost_in__ ──(__entry_sentinel__)──▶ ENTRY ─ ... ─▶ EXIT ──(__exit_sentinel__)──▶ __ghost_out__
//
// Sentinels give every traversal a uniform start and end point for counting.
// They carry zero weight, so the spanning selector never picks them; the entry
// sentinel is always instrumented and the exit sentinel never is. The exit
// sentinel's count is inferred by the solver from the entry sentinel's count.
//
// Augmentation is idempotent. A graph missing its entry or exit node is
// returned unchanged; downstream algorithms still work on the raw edges.
//
// # Lifecycle
//
//  1. **Construction:** New, then AddNode / AddEdge (catalog loader or tests)
//  2. **Augmentation:** Augment, once, before any algorithm runs
//  3. **Use:** read-only queries from the algorithms and the session
//
// # Thread-Safety
//
// A Graph is not safe for concurrent mutation. Once built it is never modified
// again, so concurrent readers are safe.
package graph
