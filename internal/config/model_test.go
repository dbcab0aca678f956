package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestMerge(t *testing.T) {
	base := NewModel()
	base.PutExample(&Example{ID: "a", Title: "A"})
	base.PutExample(&Example{ID: "b", Title: "B"})
	base.Simulation = &Simulation{Runs: intPtr(20), MaxStepsPerRun: intPtr(200)}

	speed := 2.0
	overlay := &Model{
		Examples:   []*Example{{ID: "a", Title: "A2"}, {ID: "c", Title: "C"}},
		Simulation: &Simulation{Runs: intPtr(5), Speed: &speed},
	}
	base.Merge(overlay)
	base.Merge(nil)

	var titles []string
	for _, ex := range base.Examples {
		titles = append(titles, ex.Title)
	}
	assert.Equal(t, []string{"A2", "B", "C"}, titles)

	require.NotNil(t, base.Simulation)
	assert.Equal(t, 5, *base.Simulation.Runs)
	assert.Equal(t, 200, *base.Simulation.MaxStepsPerRun)
	assert.Equal(t, 2.0, *base.Simulation.Speed)
	assert.Nil(t, base.Simulation.FastMode)

	ex, ok := base.Example("c")
	require.True(t, ok)
	assert.Equal(t, "C", ex.Title)
	_, ok = base.Example("zzz")
	assert.False(t, ok)
}

func TestMergeIntoEmptySimulation(t *testing.T) {
	m := NewModel()
	fast := true
	m.Merge(&Model{Simulation: &Simulation{FastMode: &fast}})
	require.NotNil(t, m.Simulation)
	assert.True(t, *m.Simulation.FastMode)
}
