package simulator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/flowrecon/internal/clock"
	"github.com/specialistvlad/flowrecon/internal/graph"
	"github.com/specialistvlad/flowrecon/internal/instrument"
	"github.com/specialistvlad/flowrecon/internal/metrics"
	"github.com/specialistvlad/flowrecon/internal/spanning"
	"github.com/specialistvlad/flowrecon/internal/testutil"
)

// allEdges instruments every real edge and the entry sentinel.
func allEdges(g *graph.Graph) []string {
	ids := []string{graph.EntrySentinelID}
	for _, e := range g.RealEdges() {
		ids = append(ids, e.ID)
	}
	return ids
}

func linearGraph(t *testing.T) *graph.Graph {
	t.Helper()
	return testutil.BuildGraph(t,
		[]string{"ENTRY", "A", "EXIT"},
		[]testutil.E{
			{ID: "e0", From: "ENTRY", To: "A", Weight: 1},
			{ID: "e1", From: "A", To: "EXIT", Weight: 1},
		})
}

func cfg(runs, maxSteps int) Config {
	c := DefaultConfig()
	c.Runs = runs
	c.MaxStepsPerRun = maxSteps
	return c
}

func TestConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c := DefaultConfig()
		assert.Equal(t, Config{Runs: 20, MaxStepsPerRun: 200, Speed: 1}, c)
		assert.NoError(t, c.Validate())
		assert.Equal(t, 500*time.Millisecond, c.Interval())
	})

	t.Run("validation", func(t *testing.T) {
		for name, c := range map[string]Config{
			"zero runs":   {Runs: 0, MaxStepsPerRun: 1, Speed: 1},
			"zero steps":  {Runs: 1, MaxStepsPerRun: 0, Speed: 1},
			"slow speed":  {Runs: 1, MaxStepsPerRun: 1, Speed: 0.1},
			"quick speed": {Runs: 1, MaxStepsPerRun: 1, Speed: 4},
		} {
			assert.ErrorIs(t, c.Validate(), ErrInvalidConfig, name)
		}
	})

	t.Run("speed clamping", func(t *testing.T) {
		c := DefaultConfig()
		c.SetSpeed(10)
		assert.Equal(t, MaxSpeed, c.Speed)
		assert.Equal(t, 167*time.Millisecond, c.Interval())
		c.SetSpeed(0)
		assert.Equal(t, MinSpeed, c.Speed)
		assert.Equal(t, 2*time.Second, c.Interval())
		c.SetSpeed(2)
		assert.Equal(t, 250*time.Millisecond, c.Interval())
		c.SetSpeed(1.5)
		assert.Equal(t, 333*time.Millisecond, c.Interval(), "intervals are whole milliseconds")
	})
}

func TestNew_RequiresEntry(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddNode(graph.Node{ID: "A"}))
	_, err := New(g, nil, DefaultConfig())
	assert.ErrorIs(t, err, ErrNoEntry)

	_, err = New(linearGraph(t), nil, Config{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRunBatch_Conservation(t *testing.T) {
	for name, g := range map[string]*graph.Graph{
		"if-else":    testutil.IfElseGraph(t),
		"while-loop": testutil.WhileLoopGraph(t),
	} {
		t.Run(name, func(t *testing.T) {
			sim, err := New(g, allEdges(g), cfg(50, 1000), WithSeed(7))
			require.NoError(t, err)

			snap, err := sim.RunBatch(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 50, snap.CurrentRun)
			assert.Equal(t, StateStopped, snap.State)
			assert.Equal(t, int64(50), snap.Counters[graph.EntrySentinelID])

			for _, n := range g.Nodes() {
				if n.Ghost {
					continue
				}
				var in, out int64
				for _, e := range g.Incoming(n.ID) {
					in += snap.Counters[e.ID]
				}
				for _, e := range g.Outgoing(n.ID) {
					out += snap.Counters[e.ID]
				}
				if n.Kind == graph.NodeExit {
					assert.Equal(t, int64(50), in, "every run ends at the exit")
					continue
				}
				assert.Equal(t, in, out, "node %s", n.ID)
			}
		})
	}
}

func TestRunBatch_OnlyInstrumentedCounted(t *testing.T) {
	g := testutil.IfElseGraph(t)
	instr := instrument.Compute(g, spanning.Compute(g))
	sim, err := New(g, instr, cfg(30, 200), WithSeed(3))
	require.NoError(t, err)

	snap, err := sim.RunBatch(context.Background())
	require.NoError(t, err)
	for id := range snap.Counters {
		assert.Contains(t, instr, id)
	}
	assert.Equal(t, int64(30), snap.Counters[graph.EntrySentinelID])
	assert.NotContains(t, snap.Counters, graph.ExitSentinelID)
}

func TestRunBatch_DeadEnd(t *testing.T) {
	g := testutil.DeadEndGraph(t)
	reg := prometheus.NewRegistry()
	rec := metrics.New(reg)
	sim, err := New(g, allEdges(g), cfg(40, 10), WithSeed(11), WithMetrics(rec))
	require.NoError(t, err)

	snap, err := sim.RunBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(40), snap.Counters["e0"])
	assert.Equal(t, int64(40), snap.Counters["e1"]+snap.Counters["e2"])
	assert.Positive(t, snap.Counters["e1"], "some runs should reach the dead end")
}

func TestRunBatch_StepLimit(t *testing.T) {
	g := testutil.SelfLoopGraph(t)
	sim, err := New(g, allEdges(g), cfg(3, 5), WithSeed(1))
	require.NoError(t, err)

	snap, err := sim.RunBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), snap.Counters["e0"])
	assert.Equal(t, int64(12), snap.Counters["e1"])
	assert.Zero(t, snap.Counters["e2"])
}

func TestRunBatch_ZeroWeightsPickUniformly(t *testing.T) {
	g := testutil.BuildGraph(t,
		[]string{"ENTRY", "A", "B", "EXIT"},
		[]testutil.E{
			{ID: "e0", From: "ENTRY", To: "A"},
			{ID: "e1", From: "A", To: "EXIT"},
			{ID: "e2", From: "A", To: "B"},
			{ID: "e3", From: "B", To: "EXIT"},
		})
	// Every edge has weight zero, so RealEdges is empty and the ids are
	// listed by hand.
	ids := []string{graph.EntrySentinelID, "e0", "e1", "e2", "e3"}
	sim, err := New(g, ids, cfg(200, 10), WithSeed(5))
	require.NoError(t, err)

	snap, err := sim.RunBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(200), snap.Counters[graph.EntrySentinelID])
	assert.Equal(t, int64(200), snap.Counters["e0"])
	assert.Equal(t, int64(200), snap.Counters["e1"]+snap.Counters["e2"])
	assert.Positive(t, snap.Counters["e1"])
	assert.Positive(t, snap.Counters["e2"])
	assert.Equal(t, snap.Counters["e2"], snap.Counters["e3"])
}

func TestRunBatch_Cancelled(t *testing.T) {
	g := testutil.IfElseGraph(t)
	sim, err := New(g, allEdges(g), cfg(10, 100), WithSeed(1))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	snap, err := sim.RunBatch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, snap.CurrentRun)
	assert.Empty(t, snap.Counters)
	assert.Equal(t, StateStopped, snap.State)
}

func TestBatchAndStepwiseAgree(t *testing.T) {
	for name, g := range map[string]*graph.Graph{
		"if-else":    testutil.IfElseGraph(t),
		"while-loop": testutil.WhileLoopGraph(t),
		"dead-end":   testutil.DeadEndGraph(t),
		"self-loop":  testutil.SelfLoopGraph(t),
	} {
		t.Run(name, func(t *testing.T) {
			instr := allEdges(g)
			batch, err := New(g, instr, cfg(15, 8), WithSeed(42))
			require.NoError(t, err)
			want, err := batch.RunBatch(context.Background())
			require.NoError(t, err)

			clk := testutil.NewManualClock()
			step, err := New(g, instr, cfg(15, 8), WithSeed(42), WithClock(clk))
			require.NoError(t, err)
			require.NoError(t, step.Start(context.Background()))
			clk.RunUntilIdle(100000)

			got := step.Snapshot()
			assert.Equal(t, want.Counters, got.Counters)
			assert.Equal(t, 15, got.CurrentRun)
			assert.Equal(t, StateStopped, got.State)
			assert.False(t, got.IsRunning)
			assert.Empty(t, got.CurrentNodeID)
			assertClosed(t, step.Done())
		})
	}
}

func TestStepwise_PauseResumeEquivalence(t *testing.T) {
	g := testutil.IfElseGraph(t)
	instr := allEdges(g)

	refClock := testutil.NewManualClock()
	ref, err := New(g, instr, cfg(10, 50), WithSeed(9), WithClock(refClock))
	require.NoError(t, err)
	require.NoError(t, ref.Start(context.Background()))
	refClock.RunUntilIdle(100000)

	clk := testutil.NewManualClock()
	sim, err := New(g, instr, cfg(10, 50), WithSeed(9), WithClock(clk))
	require.NoError(t, err)
	require.NoError(t, sim.Start(context.Background()))

	for i := 0; i < 5; i++ {
		require.Equal(t, 7, clk.RunUntilIdle(7))
		sim.Pause()
		assert.Zero(t, clk.Pending(), "pause must cancel the pending tick")

		before := sim.Snapshot()
		assert.True(t, before.IsPaused)
		assert.True(t, before.IsRunning)
		clk.Advance(time.Hour)
		assert.Equal(t, before, sim.Snapshot(), "nothing moves while paused")

		sim.Resume()
		assert.Equal(t, 1, clk.Pending())
	}
	clk.RunUntilIdle(100000)

	assert.Equal(t, ref.Counters(), sim.Counters())
	assert.Equal(t, StateStopped, sim.State())
}

// leakyClock hands out timers that cannot be stopped, the way a real timer
// behaves once its callback has already started.
type leakyClock struct {
	mu    sync.Mutex
	funcs []func()
}

type leakyTimer struct{}

func (leakyTimer) Stop() bool { return false }

func (c *leakyClock) AfterFunc(_ time.Duration, f func()) clock.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.funcs = append(c.funcs, f)
	return leakyTimer{}
}

func TestStepwise_StaleTickIgnored(t *testing.T) {
	g := linearGraph(t)
	clk := &leakyClock{}
	sim, err := New(g, allEdges(g), cfg(3, 10), WithSeed(1), WithClock(clk))
	require.NoError(t, err)
	require.NoError(t, sim.Start(context.Background()))
	require.Len(t, clk.funcs, 1)

	sim.Pause()
	before := sim.Snapshot()
	clk.funcs[0]()
	assert.Equal(t, before, sim.Snapshot())

	sim.Resume()
	require.Len(t, clk.funcs, 2)
	clk.funcs[1]()
	assert.Equal(t, "A", sim.Snapshot().CurrentNodeID)

	sim.Stop()
	clk.funcs[2]()
	snap := sim.Snapshot()
	assert.Equal(t, StateStopped, snap.State)
	assert.Empty(t, snap.CurrentNodeID)
	assert.Equal(t, int64(1), snap.Counters["e0"], "counters survive stop")
}

func TestStepwise_TurnaroundSequence(t *testing.T) {
	g := linearGraph(t)
	clk := testutil.NewManualClock()
	var snaps []Snapshot
	sim, err := New(g, allEdges(g), cfg(2, 10),
		WithSeed(1),
		WithClock(clk),
		WithObserver(func(s Snapshot) { snaps = append(snaps, s) }),
	)
	require.NoError(t, err)
	require.NoError(t, sim.Start(context.Background()))

	first := sim.Snapshot()
	assert.Equal(t, "ENTRY", first.CurrentNodeID)
	assert.Equal(t, graph.EntrySentinelID, first.CurrentEdgeID)
	assert.Equal(t, int64(1), first.Counters[graph.EntrySentinelID])

	clk.RunUntilIdle(100)
	require.Len(t, snaps, 8)

	type pos struct{ node, edge string }
	var got []pos
	for _, s := range snaps {
		got = append(got, pos{s.CurrentNodeID, s.CurrentEdgeID})
	}
	assert.Equal(t, []pos{
		{"A", "e0"},
		{"EXIT", "e1"},
		{graph.GhostOutID, graph.ExitSentinelID},
		{"ENTRY", graph.EntrySentinelID},
		{"A", "e0"},
		{"EXIT", "e1"},
		{graph.GhostOutID, graph.ExitSentinelID},
		{"", ""},
	}, got)
	assert.Equal(t, 1, snaps[3].CurrentRun)
	assert.Equal(t, 2, snaps[7].CurrentRun)
	assert.Equal(t, StateStopped, snaps[7].State)
	assert.Equal(t, map[string]int64{graph.EntrySentinelID: 2, "e0": 2, "e1": 2}, snaps[7].Counters)
}

func TestStepwise_SpeedChangeAppliesToNextTick(t *testing.T) {
	g := linearGraph(t)
	clk := testutil.NewManualClock()
	sim, err := New(g, allEdges(g), cfg(1, 10), WithClock(clk))
	require.NoError(t, err)
	require.NoError(t, sim.Start(context.Background()))

	d, ok := clk.NextDelay()
	require.True(t, ok)
	assert.Equal(t, 500*time.Millisecond, d)

	sim.SetSpeed(2)
	require.True(t, clk.FireNext())
	d, ok = clk.NextDelay()
	require.True(t, ok)
	assert.Equal(t, 250*time.Millisecond, d)

	sim.Pause()
	sim.SetSpeed(100)
	sim.Resume()
	d, _ = clk.NextDelay()
	assert.Equal(t, 167*time.Millisecond, d)
}

func TestStepwise_Lifecycle(t *testing.T) {
	g := linearGraph(t)
	clk := testutil.NewManualClock()
	sim, err := New(g, allEdges(g), cfg(5, 10), WithSeed(1), WithClock(clk))
	require.NoError(t, err)
	assert.Equal(t, StateIdle, sim.State())

	// Pause, Resume and Stop are no-ops when idle.
	sim.Pause()
	sim.Resume()
	sim.Stop()
	assert.Equal(t, StateIdle, sim.State())
	assert.Zero(t, clk.Pending())

	require.NoError(t, sim.Start(context.Background()))
	assert.ErrorIs(t, sim.Start(context.Background()), ErrAlreadyStarted)
	assert.ErrorIs(t, sim.Configure(DefaultConfig()), ErrBusy)
	_, err = sim.RunBatch(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyStarted)

	clk.RunUntilIdle(3)
	done := sim.Done()
	sim.Reset()
	assertClosed(t, done)
	assert.Zero(t, clk.Pending())

	snap := sim.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Empty(t, snap.Counters)
	assert.Zero(t, snap.CurrentRun)
	assert.Empty(t, snap.CurrentNodeID)

	// A fresh start opens a new done channel.
	require.NoError(t, sim.Start(context.Background()))
	select {
	case <-sim.Done():
		t.Fatal("done closed right after start")
	default:
	}
	sim.Stop()
	assert.NoError(t, sim.Configure(DefaultConfig()))
}

func TestStart_FastMode(t *testing.T) {
	g := testutil.IfElseGraph(t)
	c := cfg(25, 100)
	c.FastMode = true
	clk := testutil.NewManualClock()
	sim, err := New(g, allEdges(g), c, WithSeed(2), WithClock(clk))
	require.NoError(t, err)

	require.NoError(t, sim.Start(context.Background()))
	assert.Zero(t, clk.Pending())
	snap := sim.Snapshot()
	assert.Equal(t, StateStopped, snap.State)
	assert.Equal(t, 25, snap.CurrentRun)
	assert.Equal(t, int64(25), snap.Counters[graph.EntrySentinelID])
	assertClosed(t, sim.Done())
}

func TestStepwise_RealClock(t *testing.T) {
	g := linearGraph(t)
	c := cfg(1, 10)
	c.Speed = MaxSpeed
	sim, err := New(g, allEdges(g), c, WithSeed(1))
	require.NoError(t, err)
	require.NoError(t, sim.Start(context.Background()))

	select {
	case <-sim.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("simulation did not finish")
	}
	assert.Equal(t, int64(1), sim.Counters()["e1"])
}

func assertClosed(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	default:
		t.Fatal("channel is not closed")
	}
}
