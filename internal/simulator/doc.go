// Package simulator generates edge counters by walking a flow graph at
// random.
//
// # Walks
//
// Every run starts at the entry node. If the entry sentinel is instrumented it
// is counted once at the start of the run. From there the walker repeatedly
// picks an outgoing edge with probability proportional to its weight (all
// zero weights fall back to a uniform pick), counts it if it is instrumented
// and moves to its target. A run ends when:
//
//   - the exit node is reached (the exit sentinel is never counted),
//   - the current node has no outgoing edges (a dead end), or
//   - MaxStepsPerRun edges have been traversed.
//
// Only instrumented edges ever appear in the counters.
//
// # Modes
//
// RunBatch performs every run synchronously and returns the final snapshot.
//
// Start drives the same walk one tick at a time from a clock.Clock, so a UI
// can animate it. A tick either traverses one edge or performs a turnaround:
// on reaching the exit the exit sentinel is highlighted for one tick, and the
// following tick closes the run and begins the next one.
//
//	idle --Start--> running --Pause--> paused
//	                   ^                  |
//	                   +-----Resume-------+
//	running/paused --Stop or last run--> stopped
//	any --Reset--> idle
//
// Both modes draw from the random source in the same order, so two simulators
// with the same seed produce the same counters whichever mode they use.
//
// # Concurrency
//
// A Simulator is safe for concurrent use. Ticks run on timer goroutines and
// every state change happens under one mutex. Cancelling a tick bumps a
// generation counter, so a callback that was already in flight when Pause,
// Stop or Reset ran does nothing.
package simulator
