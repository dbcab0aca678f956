// Package metrics exposes Prometheus counters for simulation and
// reconstruction activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "flowrecon"

// Simulation modes used as the "mode" label.
const (
	ModeBatch    = "batch"
	ModeStepwise = "stepwise"
)

// Recorder groups the collectors of one registry. A nil *Recorder is valid
// and records nothing, so callers never need to check for it.
type Recorder struct {
	runs          *prometheus.CounterVec
	traversals    *prometheus.CounterVec
	deadEnds      *prometheus.CounterVec
	stepLimitHits *prometheus.CounterVec
	ticks         prometheus.Counter
	solvedEdges   prometheus.Counter
	stalls        prometheus.Counter
}

// New registers the collectors on reg and returns a Recorder for them.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		// Labels: mode (batch, stepwise)
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulator",
			Name:      "runs_total",
			Help:      "Completed simulation runs",
		}, []string{"mode"}),
		traversals: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulator",
			Name:      "edge_traversals_total",
			Help:      "Edges traversed by the simulator, sentinels excluded",
		}, []string{"mode"}),
		deadEnds: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulator",
			Name:      "dead_ends_total",
			Help:      "Runs that stopped at a node without outgoing edges",
		}, []string{"mode"}),
		stepLimitHits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulator",
			Name:      "step_limit_hits_total",
			Help:      "Runs cut short by the per-run step limit",
		}, []string{"mode"}),
		ticks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulator",
			Name:      "ticks_total",
			Help:      "Stepwise ticks applied",
		}),
		solvedEdges: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "solved_edges_total",
			Help:      "Tree edges reconstructed by the solver",
		}),
		stalls: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "stalls_total",
			Help:      "Solver calls that found no solvable node while edges were still pending",
		}),
	}
}

func (r *Recorder) RunCompleted(mode string) {
	if r == nil {
		return
	}
	r.runs.WithLabelValues(mode).Inc()
}

func (r *Recorder) EdgeTraversed(mode string) {
	if r == nil {
		return
	}
	r.traversals.WithLabelValues(mode).Inc()
}

func (r *Recorder) DeadEnd(mode string) {
	if r == nil {
		return
	}
	r.deadEnds.WithLabelValues(mode).Inc()
}

func (r *Recorder) StepLimitHit(mode string) {
	if r == nil {
		return
	}
	r.stepLimitHits.WithLabelValues(mode).Inc()
}

func (r *Recorder) Tick() {
	if r == nil {
		return
	}
	r.ticks.Inc()
}

func (r *Recorder) EdgeSolved() {
	if r == nil {
		return
	}
	r.solvedEdges.Inc()
}

func (r *Recorder) Stalled() {
	if r == nil {
		return
	}
	r.stalls.Inc()
}
