package app

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// textReport is implemented by every report; yaml and json output use the
// struct tags instead.
type textReport interface {
	writeText(w io.Writer) error
}

// ExampleSummary describes one catalog entry. Counts exclude the ghost nodes
// and sentinel edges.
type ExampleSummary struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Nodes       int    `json:"nodes" yaml:"nodes"`
	Edges       int    `json:"edges" yaml:"edges"`
}

type ListReport struct {
	Examples []ExampleSummary `json:"examples" yaml:"examples"`
}

func (r ListReport) writeText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tNODES\tEDGES")
	for _, ex := range r.Examples {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", ex.ID, ex.Title, ex.Nodes, ex.Edges)
	}
	return tw.Flush()
}

// EdgeSummary is one edge of a plan with its role.
type EdgeSummary struct {
	ID           string  `json:"id" yaml:"id"`
	From         string  `json:"from" yaml:"from"`
	To           string  `json:"to" yaml:"to"`
	Weight       float64 `json:"weight" yaml:"weight"`
	Label        string  `json:"label,omitempty" yaml:"label,omitempty"`
	Spanning     bool    `json:"spanning" yaml:"spanning"`
	Instrumented bool    `json:"instrumented" yaml:"instrumented"`
}

// PlanReport lists which edges belong to the spanning tree and which carry
// counters.
type PlanReport struct {
	Example      string        `json:"example" yaml:"example"`
	Title        string        `json:"title" yaml:"title"`
	Spanning     []string      `json:"spanning" yaml:"spanning"`
	Instrumented []string      `json:"instrumented" yaml:"instrumented"`
	Edges        []EdgeSummary `json:"edges" yaml:"edges"`
}

func (r PlanReport) writeText(w io.Writer) error {
	fmt.Fprintf(w, "Example: %s (%s)\n", r.Example, r.Title)
	fmt.Fprintf(w, "Spanning edges:     %s\n", joinOrDash(r.Spanning))
	fmt.Fprintf(w, "Instrumented edges: %s\n\n", joinOrDash(r.Instrumented))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EDGE\tFROM\tTO\tWEIGHT\tROLE")
	for _, e := range r.Edges {
		role := "-"
		switch {
		case e.Spanning:
			role = "spanning"
		case e.Instrumented:
			role = "counter"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%g\t%s\n", e.ID, e.From, e.To, e.Weight, role)
	}
	return tw.Flush()
}

// Counter is one measured or reconstructed edge count.
type Counter struct {
	Edge  string `json:"edge" yaml:"edge"`
	Count int64  `json:"count" yaml:"count"`
}

// SimulationReport holds the counters after a simulation. Known repeats them
// in the form accepted by "reconstruct --known".
type SimulationReport struct {
	Example  string    `json:"example" yaml:"example"`
	Mode     string    `json:"mode" yaml:"mode"`
	Runs     int       `json:"runs" yaml:"runs"`
	Counters []Counter `json:"counters" yaml:"counters"`
	Known    string    `json:"known" yaml:"known"`
}

func (r SimulationReport) writeText(w io.Writer) error {
	fmt.Fprintf(w, "Example: %s\nMode: %s\nCompleted runs: %d\n", r.Example, r.Mode, r.Runs)
	if err := writeCounters(w, "Counters:", r.Counters); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Known: %s\n", r.Known)
	return err
}

// StepSummary is one reconstruction step.
type StepSummary struct {
	Edge        string `json:"edge" yaml:"edge"`
	Value       int64  `json:"value" yaml:"value"`
	Node        string `json:"node" yaml:"node"`
	Explanation string `json:"explanation" yaml:"explanation"`
}

// ReconstructionReport is the outcome of solving every tree edge that the
// counters allow.
type ReconstructionReport struct {
	Example  string        `json:"example" yaml:"example"`
	Source   string        `json:"source" yaml:"source"`
	Measured []Counter     `json:"measured" yaml:"measured"`
	Steps    []StepSummary `json:"steps" yaml:"steps"`
	Counts   []Counter     `json:"counts" yaml:"counts"`
	Pending  []string      `json:"pending,omitempty" yaml:"pending,omitempty"`
	Complete bool          `json:"complete" yaml:"complete"`
}

func (r ReconstructionReport) writeText(w io.Writer) error {
	fmt.Fprintf(w, "Example: %s\nCounters from: %s\n", r.Example, r.Source)
	if err := writeCounters(w, "Measured:", r.Measured); err != nil {
		return err
	}
	for i, s := range r.Steps {
		fmt.Fprintf(w, "\nStep %d: %s = %d\n%s\n", i+1, s.Edge, s.Value, s.Explanation)
	}
	fmt.Fprintln(w)
	if err := writeCounters(w, "Edge counts:", r.Counts); err != nil {
		return err
	}
	if !r.Complete {
		_, err := fmt.Fprintf(w, "Unresolved tree edges: %s\n", joinOrDash(r.Pending))
		return err
	}
	return nil
}

func writeCounters(w io.Writer, title string, counters []Counter) error {
	fmt.Fprintln(w, title)
	if len(counters) == 0 {
		_, err := fmt.Fprintln(w, "  (none)")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, c := range counters {
		fmt.Fprintf(tw, "  %s\t%d\n", c.Edge, c.Count)
	}
	return tw.Flush()
}

func joinOrDash(ids []string) string {
	if len(ids) == 0 {
		return "-"
	}
	return strings.Join(ids, ", ")
}

// orderedCounters returns the entries of m whose key appears in ids, in ids
// order.
func orderedCounters(m map[string]int64, ids []string) []Counter {
	out := make([]Counter, 0, len(m))
	for _, id := range ids {
		if v, ok := m[id]; ok {
			out = append(out, Counter{Edge: id, Count: v})
		}
	}
	return out
}

// writeReport renders r in the configured output format.
func (a *App) writeReport(r textReport) error {
	a.outMu.Lock()
	defer a.outMu.Unlock()

	switch a.config.Output {
	case OutputYAML:
		enc := yaml.NewEncoder(a.outW)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("write yaml report: %w", err)
		}
		return enc.Close()
	case OutputJSON:
		enc := json.NewEncoder(a.outW)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("write json report: %w", err)
		}
		return nil
	default:
		return r.writeText(a.outW)
	}
}

// printf writes progress output. Only text output shows progress, so
// structured reports stay parseable.
func (a *App) printf(format string, args ...any) {
	if a.config.Output != OutputText {
		return
	}
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintf(a.outW, format, args...)
}
