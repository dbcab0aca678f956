package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.RunCompleted(ModeBatch)
	r.RunCompleted(ModeBatch)
	r.RunCompleted(ModeStepwise)
	r.EdgeTraversed(ModeStepwise)
	r.DeadEnd(ModeBatch)
	r.StepLimitHit(ModeBatch)
	r.Tick()
	r.EdgeSolved()
	r.EdgeSolved()
	r.Stalled()

	assert.Equal(t, 2.0, testutil.ToFloat64(r.runs.WithLabelValues(ModeBatch)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runs.WithLabelValues(ModeStepwise)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.traversals.WithLabelValues(ModeStepwise)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.deadEnds.WithLabelValues(ModeBatch)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.stepLimitHits.WithLabelValues(ModeBatch)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.ticks))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.solvedEdges))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.stalls))

	n, err := testutil.GatherAndCount(reg)
	assert.NoError(t, err)
	assert.Equal(t, 8, n)
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.RunCompleted(ModeBatch)
		r.EdgeTraversed(ModeBatch)
		r.DeadEnd(ModeBatch)
		r.StepLimitHit(ModeBatch)
		r.Tick()
		r.EdgeSolved()
		r.Stalled()
	})
}
