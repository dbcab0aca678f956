// Package session holds the state of one interactive workbench: the active
// example, its derived edge sets and the simulator and solver working on it.
// Switching examples tears all of that down, so nothing computed for one
// graph can leak into another.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/specialistvlad/flowrecon/internal/catalog"
	"github.com/specialistvlad/flowrecon/internal/clock"
	"github.com/specialistvlad/flowrecon/internal/ctxlog"
	"github.com/specialistvlad/flowrecon/internal/instrument"
	"github.com/specialistvlad/flowrecon/internal/metrics"
	"github.com/specialistvlad/flowrecon/internal/simulator"
	"github.com/specialistvlad/flowrecon/internal/solver"
	"github.com/specialistvlad/flowrecon/internal/spanning"
)

type Option func(*Workbench)

func WithMetrics(r *metrics.Recorder) Option {
	return func(w *Workbench) { w.metrics = r }
}

// WithClock sets the clock handed to every simulator the workbench creates.
func WithClock(c clock.Clock) Option {
	return func(w *Workbench) { w.clock = c }
}

// WithSeed makes every simulator start from the same random sequence.
func WithSeed(seed int64) Option {
	return func(w *Workbench) { w.seed = &seed }
}

// WithSimulationConfig overrides the catalog's simulation defaults.
func WithSimulationConfig(cfg simulator.Config) Option {
	return func(w *Workbench) { w.simCfg = &cfg }
}

func WithObserver(o simulator.Observer) Option {
	return func(w *Workbench) { w.observer = o }
}

// Workbench methods are safe for concurrent use. The solver handed out by
// Solver is not; use Reconstruct when other goroutines may call Restart,
// Select or UseCounters.
type Workbench struct {
	mu sync.Mutex

	id       string
	catalog  *catalog.Catalog
	logger   *slog.Logger
	metrics  *metrics.Recorder
	clock    clock.Clock
	seed     *int64
	simCfg   *simulator.Config
	observer simulator.Observer

	active catalog.Item
	// spanningSet and instrumented are computed on first use and dropped
	// by Select.
	spanningSet  []string
	instrumented []string

	sim    *simulator.Simulator
	simErr error
	solver *solver.Solver
	source solver.CounterSource
	stage  Stage
}

// New creates a workbench over cat with the default example selected. The
// logger is taken from ctx.
func New(ctx context.Context, cat *catalog.Catalog, opts ...Option) (*Workbench, error) {
	w := &Workbench{
		id:      uuid.NewString(),
		catalog: cat,
		clock:   clock.Real(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = ctxlog.FromContext(ctx).With("session", w.id)
	if w.simCfg == nil {
		cfg := cat.SimulationDefaults()
		w.simCfg = &cfg
	}
	if err := w.simCfg.Validate(); err != nil {
		return nil, err
	}

	if err := w.Select(cat.Default().ID); err != nil {
		return nil, err
	}
	return w, nil
}

// ID identifies the workbench in log records.
func (w *Workbench) ID() string { return w.id }

// Catalog returns the catalog the workbench selects from.
func (w *Workbench) Catalog() *catalog.Catalog { return w.catalog }

// Select makes the example with the given id active. The derived sets are
// invalidated, the previous simulator is reset and a fresh solver is
// created. The wizard returns to its first stage.
func (w *Workbench) Select(id string) error {
	item, err := w.catalog.Get(id)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.sim != nil {
		w.sim.Reset()
	}
	w.active = item
	w.spanningSet = nil
	w.instrumented = nil
	w.source = nil
	w.stage = StageStart

	opts := []simulator.Option{
		simulator.WithClock(w.clock),
		simulator.WithLogger(w.logger.With("example", item.ID)),
		simulator.WithMetrics(w.metrics),
	}
	if w.seed != nil {
		opts = append(opts, simulator.WithSeed(*w.seed))
	}
	if w.observer != nil {
		opts = append(opts, simulator.WithObserver(w.observer))
	}
	w.sim, w.simErr = simulator.New(item.Graph, w.instrumentationLocked(), *w.simCfg, opts...)
	if w.simErr != nil {
		w.logger.Warn("Example cannot be simulated.", "example", item.ID, "error", w.simErr)
	}
	w.rebuildSolverLocked()

	w.logger.Info("Example selected.", "example", item.ID)
	return nil
}

// Active returns the selected example.
func (w *Workbench) Active() catalog.Item {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

// SpanningSet returns the spanning edges of the active graph.
func (w *Workbench) SpanningSet() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.spanningLocked()...)
}

// InstrumentationSet returns the edges that carry counters.
func (w *Workbench) InstrumentationSet() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.instrumentationLocked()...)
}

func (w *Workbench) spanningLocked() []string {
	if w.spanningSet == nil {
		w.spanningSet = spanning.Compute(w.active.Graph)
	}
	return w.spanningSet
}

func (w *Workbench) instrumentationLocked() []string {
	if w.instrumented == nil {
		w.instrumented = instrument.Compute(w.active.Graph, w.spanningLocked())
	}
	return w.instrumented
}

// Simulator returns the simulator of the active example. It fails for
// graphs without an entry node.
func (w *Workbench) Simulator() (*simulator.Simulator, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.simErr != nil {
		return nil, fmt.Errorf("example %q: %w", w.active.ID, w.simErr)
	}
	return w.sim, nil
}

// Solver returns the solver of the active example. Callers own any
// synchronization of its methods.
func (w *Workbench) Solver() *solver.Solver {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.solver
}

// Reconstruct solves every tree edge the current counters allow and returns
// the steps taken by this call together with the solver state afterwards.
func (w *Workbench) Reconstruct() ([]solver.Step, solver.Snapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()
	steps := w.solver.Solve()
	return steps, w.solver.Snapshot()
}

// UseCounters makes the solver read from src instead of the simulator and
// discards its progress. A nil src switches back to the simulator.
func (w *Workbench) UseCounters(src solver.CounterSource) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.source = src
	w.rebuildSolverLocked()
}

func (w *Workbench) rebuildSolverLocked() {
	src := w.source
	if src == nil {
		if w.sim != nil {
			src = w.sim
		} else {
			src = solver.Fixed{}
		}
	}
	w.solver = solver.New(w.active.Graph, w.spanningLocked(), src,
		solver.WithLogger(w.logger.With("example", w.active.ID)),
		solver.WithMetrics(w.metrics),
	)
}

// Configure changes the simulation settings used by this and every later
// simulator.
func (w *Workbench) Configure(cfg simulator.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.sim != nil {
		if err := w.sim.Configure(cfg); err != nil {
			return err
		}
	}
	w.simCfg = &cfg
	return nil
}

// Restart clears the counters and the reconstruction without changing the
// active example.
func (w *Workbench) Restart() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.sim != nil {
		w.sim.Reset()
	}
	w.solver.Reset()
}

// Close stops any running simulation.
func (w *Workbench) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.sim != nil {
		w.sim.Reset()
	}
	return nil
}

var _ io.Closer = (*Workbench)(nil)
