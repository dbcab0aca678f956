// Package app wires the catalog, the workbench and the metrics registry into
// the operations offered by the command line: listing examples, planning
// instrumentation, simulating runs and reconstructing edge counts. It is
// decoupled from any specific entrypoint like a CLI or server.
package app
