package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/specialistvlad/flowrecon/internal/countexpr"
	"github.com/specialistvlad/flowrecon/internal/ctxlog"
	"github.com/specialistvlad/flowrecon/internal/graph"
	"github.com/specialistvlad/flowrecon/internal/session"
	"github.com/specialistvlad/flowrecon/internal/simulator"
	"github.com/specialistvlad/flowrecon/internal/solver"
)

// ErrUnknownEdge is returned when given counters name an edge the example
// does not have.
var ErrUnknownEdge = errors.New("unknown edge")

// Counter sources named in reconstruction reports.
const (
	SourceKnown      = "known"
	SourceSimulation = "simulation"
)

// SimulateOptions override the catalog's simulation defaults. Zero values
// keep the default.
type SimulateOptions struct {
	Runs           int
	MaxStepsPerRun int
	Speed          float64
	Seed           *int64
	// Stepwise animates the runs on the clock and prints every tick.
	Stepwise bool
}

// ReconstructOptions select the counters to reconstruct from. With Known
// empty a batch simulation produces them.
type ReconstructOptions struct {
	Known          string
	Runs           int
	MaxStepsPerRun int
	Seed           *int64
}

// List writes the catalog.
func (a *App) List(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	ctxlog.FromContext(ctx).Debug("Listing examples.")

	var r ListReport
	for _, it := range a.catalog.List() {
		s := ExampleSummary{ID: it.ID, Title: it.Title, Description: it.Description}
		for _, n := range it.Graph.Nodes() {
			if !n.Ghost {
				s.Nodes++
			}
		}
		for _, e := range it.Graph.Edges() {
			if !e.IsSentinel() {
				s.Edges++
			}
		}
		r.Examples = append(r.Examples, s)
	}
	return a.writeReport(r)
}

// Plan writes the spanning and instrumentation sets of an example.
func (a *App) Plan(ctx context.Context, id string) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	wb, err := a.workbench(ctx, id, a.catalog.SimulationDefaults(), nil, nil)
	if err != nil {
		return err
	}
	defer wb.Close()

	item := wb.Active()
	r := PlanReport{
		Example:      item.ID,
		Title:        item.Title,
		Spanning:     wb.SpanningSet(),
		Instrumented: wb.InstrumentationSet(),
	}
	inTree := toSet(r.Spanning)
	counted := toSet(r.Instrumented)
	for _, e := range item.Graph.Edges() {
		_, sp := inTree[e.ID]
		_, in := counted[e.ID]
		r.Edges = append(r.Edges, EdgeSummary{
			ID:           e.ID,
			From:         e.Source,
			To:           e.Target,
			Weight:       e.Weight,
			Label:        e.Label,
			Spanning:     sp,
			Instrumented: in,
		})
	}
	return a.writeReport(r)
}

// Simulate runs the simulator on an example and writes its counters.
func (a *App) Simulate(ctx context.Context, id string, opts SimulateOptions) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	logger := ctxlog.FromContext(ctx)

	cfg, err := a.simulationConfig(opts.Runs, opts.MaxStepsPerRun, opts.Speed)
	if err != nil {
		return err
	}
	if opts.Stepwise {
		cfg.FastMode = false
	}

	// finished is closed by the observer once the final tick has been
	// printed; Done alone fires before the observer runs.
	finished := make(chan struct{})
	var once sync.Once
	observer := func(s simulator.Snapshot) {
		if s.State == simulator.StateStopped {
			once.Do(func() { close(finished) })
			return
		}
		a.printf("run %-4d node %-16s edge %s\n", s.CurrentRun+1, orDash(s.CurrentNodeID), orDash(s.CurrentEdgeID))
	}

	wb, err := a.workbench(ctx, id, cfg, opts.Seed, observer)
	if err != nil {
		return err
	}
	defer wb.Close()
	sim, err := wb.Simulator()
	if err != nil {
		return err
	}

	mode := "batch"
	if opts.Stepwise {
		mode = "stepwise"
		logger.Info("Stepwise simulation starting.", "example", id, "runs", cfg.Runs, "interval", cfg.Interval())
		if err := sim.Start(ctx); err != nil {
			return err
		}
		select {
		case <-sim.Done():
			<-finished
		case <-ctx.Done():
			sim.Stop()
			return fmt.Errorf("stepwise simulation: %w", ctx.Err())
		}
	} else if _, err := sim.RunBatch(ctx); err != nil {
		return err
	}

	snap := sim.Snapshot()
	ids := wb.InstrumentationSet()
	return a.writeReport(SimulationReport{
		Example:  id,
		Mode:     mode,
		Runs:     snap.CurrentRun,
		Counters: orderedCounters(snap.Counters, ids),
		Known:    countexpr.Format(snap.Counters, ids),
	})
}

// Reconstruct derives every tree edge count it can from measured counters
// and writes the steps taken.
func (a *App) Reconstruct(ctx context.Context, id string, opts ReconstructOptions) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	logger := ctxlog.FromContext(ctx)

	cfg, err := a.simulationConfig(opts.Runs, opts.MaxStepsPerRun, 0)
	if err != nil {
		return err
	}
	wb, err := a.workbench(ctx, id, cfg, opts.Seed, nil)
	if err != nil {
		return err
	}
	defer wb.Close()
	g := wb.Active().Graph

	var measured map[string]int64
	source := SourceKnown
	if opts.Known != "" {
		measured, err = parseKnown(g, opts.Known)
		if err != nil {
			return err
		}
		wb.UseCounters(solver.Fixed(measured))
	} else {
		source = SourceSimulation
		sim, err := wb.Simulator()
		if err != nil {
			return err
		}
		snap, err := sim.RunBatch(ctx)
		if err != nil {
			return err
		}
		measured = snap.Counters
	}

	steps, state := wb.Reconstruct()
	pending := state.Pending
	if len(pending) > 0 {
		logger.Warn("Reconstruction incomplete.", "example", id, "pending", pending)
	}

	ids := edgeIDs(g)
	r := ReconstructionReport{
		Example:  id,
		Source:   source,
		Measured: orderedCounters(measured, ids),
		Counts:   orderedCounters(state.Merged, ids),
		Pending:  pending,
		Complete: len(pending) == 0,
	}
	for _, s := range steps {
		r.Steps = append(r.Steps, StepSummary{
			Edge:        s.SolvedEdgeID,
			Value:       s.Value,
			Node:        s.NodeID,
			Explanation: s.Text,
		})
	}
	return a.writeReport(r)
}

// simulationConfig overlays non-zero overrides on the catalog defaults.
func (a *App) simulationConfig(runs, maxSteps int, speed float64) (simulator.Config, error) {
	cfg := a.catalog.SimulationDefaults()
	if runs != 0 {
		cfg.Runs = runs
	}
	if maxSteps != 0 {
		cfg.MaxStepsPerRun = maxSteps
	}
	if speed != 0 {
		cfg.SetSpeed(speed)
	}
	if err := cfg.Validate(); err != nil {
		return simulator.Config{}, err
	}
	return cfg, nil
}

func (a *App) workbench(ctx context.Context, id string, cfg simulator.Config, seed *int64, observer simulator.Observer) (*session.Workbench, error) {
	opts := []session.Option{
		session.WithMetrics(a.metrics),
		session.WithClock(a.clock),
		session.WithSimulationConfig(cfg),
	}
	if seed != nil {
		opts = append(opts, session.WithSeed(*seed))
	}
	if observer != nil {
		opts = append(opts, session.WithObserver(observer))
	}

	// Validate the id before New builds anything for the default example.
	if _, err := a.catalog.Get(id); err != nil {
		return nil, err
	}
	wb, err := session.New(ctx, a.catalog, opts...)
	if err != nil {
		return nil, err
	}
	if err := wb.Select(id); err != nil {
		wb.Close()
		return nil, err
	}
	return wb, nil
}

// parseKnown reads counter assignments for g. "entry" and "exit" stand for
// the sentinel edges unless g has edges with those ids.
func parseKnown(g *graph.Graph, s string) (map[string]int64, error) {
	parsed, err := countexpr.Parse(s)
	if err != nil {
		return nil, err
	}
	aliases := map[string]string{
		"entry": graph.EntrySentinelID,
		"exit":  graph.ExitSentinelID,
	}

	out := make(map[string]int64, len(parsed))
	for id, v := range parsed {
		if !g.HasEdge(id) {
			if alias, ok := aliases[id]; ok && g.HasEdge(alias) {
				id = alias
			} else {
				return nil, fmt.Errorf("%w: %q", ErrUnknownEdge, id)
			}
		}
		if _, dup := out[id]; dup {
			return nil, fmt.Errorf("%w: %q", countexpr.ErrDuplicateEdge, id)
		}
		out[id] = v
	}
	return out, nil
}

func edgeIDs(g *graph.Graph) []string {
	edges := g.Edges()
	ids := make([]string, len(edges))
	for i, e := range edges {
		ids[i] = e.ID
	}
	return ids
}

func toSet(ids []string) map[string]struct{} {
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
