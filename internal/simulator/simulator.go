package simulator

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/specialistvlad/flowrecon/internal/clock"
	"github.com/specialistvlad/flowrecon/internal/graph"
	"github.com/specialistvlad/flowrecon/internal/metrics"
)

// State is the lifecycle state of a stepwise simulation.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StatePaused  State = "paused"
	StateStopped State = "stopped"
)

// Snapshot is a point-in-time copy of the simulator's observable state.
type Snapshot struct {
	Counters      map[string]int64
	CurrentRun    int
	CurrentNodeID string
	CurrentEdgeID string
	IsRunning     bool
	IsPaused      bool
	State         State
}

// Observer receives a snapshot after every applied tick. It is called
// without the simulator lock held.
type Observer func(Snapshot)

// Option configures a Simulator.
type Option func(*Simulator)

// WithClock replaces the real clock used for stepwise ticks.
func WithClock(c clock.Clock) Option {
	return func(s *Simulator) { s.clock = c }
}

// WithRand sets the random source.
func WithRand(r *rand.Rand) Option {
	return func(s *Simulator) { s.rng = r }
}

// WithSeed seeds a new random source.
func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

func WithObserver(o Observer) Option {
	return func(s *Simulator) { s.observer = o }
}

func WithMetrics(r *metrics.Recorder) Option {
	return func(s *Simulator) { s.metrics = r }
}

// Simulator produces counters for the instrumented edges of one graph.
type Simulator struct {
	mu sync.Mutex

	g        *graph.Graph
	cfg      Config
	walk     *walker
	clock    clock.Clock
	rng      *rand.Rand
	logger   *slog.Logger
	observer Observer
	metrics  *metrics.Recorder

	state    State
	counters map[string]int64
	run      int
	nodeID   string
	edgeID   string
	steps    int
	// turnaround is set once the current run has ended; the next tick
	// closes it.
	turnaround bool

	timer clock.Timer
	gen   uint64

	done       chan struct{}
	doneClosed bool
}

// New creates an idle simulator for g counting the edges in instrumented.
func New(g *graph.Graph, instrumented []string, cfg Config, opts ...Option) (*Simulator, error) {
	if g.EntryID() == "" {
		return nil, ErrNoEntry
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Simulator{
		g:        g,
		cfg:      cfg,
		clock:    clock.Real(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		state:    StateIdle,
		counters: make(map[string]int64),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s.walk = newWalker(g, instrumented, s.rng)
	return s, nil
}

// Config returns the current configuration.
func (s *Simulator) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Configure replaces the configuration. It fails while a simulation is
// running or paused.
func (s *Simulator) Configure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateRunning || s.state == StatePaused {
		return fmt.Errorf("configure in state %s: %w", s.state, ErrBusy)
	}
	s.cfg = cfg
	return nil
}

// SetSpeed changes the speed, clamped to the allowed range. A running
// simulation picks it up from the next scheduled tick.
func (s *Simulator) SetSpeed(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.SetSpeed(v)
}

// Snapshot returns a copy of the current state.
func (s *Simulator) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Counters returns a copy of the counters.
func (s *Simulator) Counters() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyCounters(s.counters)
}

// State returns the lifecycle state.
func (s *Simulator) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Done returns a channel that is closed when the current simulation
// completes, is stopped or is reset.
func (s *Simulator) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

func (s *Simulator) snapshotLocked() Snapshot {
	return Snapshot{
		Counters:      copyCounters(s.counters),
		CurrentRun:    s.run,
		CurrentNodeID: s.nodeID,
		CurrentEdgeID: s.edgeID,
		IsRunning:     s.state == StateRunning || s.state == StatePaused,
		IsPaused:      s.state == StatePaused,
		State:         s.state,
	}
}

func (s *Simulator) closeDoneLocked() {
	if !s.doneClosed {
		close(s.done)
		s.doneClosed = true
	}
}

func (s *Simulator) openDoneLocked() {
	if s.doneClosed {
		s.done = make(chan struct{})
		s.doneClosed = false
	}
}

func copyCounters(in map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
