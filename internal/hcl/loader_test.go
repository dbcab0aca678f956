package hcl

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/flowrecon/internal/testutil"
)

const sampleHCL = `
simulation {
  runs  = 12
  speed = 2
}

example "tiny" {
  title       = "Tiny"
  description = "Entry straight to exit."

  node "ENTRY" { kind = "entry" }
  node "A" {
    label = "Work"
    meta  = { shape = "box", rank = 2 }
  }
  node "EXIT" { kind = "exit" }

  edge "e0" {
    from   = "ENTRY"
    to     = "A"
    weight = 10
    kind   = "entry"
  }
  edge "e1" {
    from   = "A"
    to     = "EXIT"
    weight = "2.5"
    label  = "done"
  }
}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoad(t *testing.T) {
	ctx, _ := testutil.Context(t)
	dir := t.TempDir()
	writeFile(t, dir, "tiny.hcl", sampleHCL)

	m, err := NewLoader().Load(ctx, dir)
	require.NoError(t, err)
	require.Len(t, m.Examples, 1)

	ex := m.Examples[0]
	assert.Equal(t, "tiny", ex.ID)
	assert.Equal(t, "Tiny", ex.Title)
	assert.Equal(t, "Entry straight to exit.", ex.Description)
	assert.Equal(t, filepath.Join(dir, "tiny.hcl"), ex.Source)

	require.Len(t, ex.Nodes, 3)
	assert.Equal(t, "entry", ex.Nodes[0].Kind)
	assert.Equal(t, "Work", ex.Nodes[1].Label)
	assert.Equal(t, map[string]string{"shape": "box", "rank": "2"}, ex.Nodes[1].Meta)
	assert.Nil(t, ex.Nodes[2].Meta)

	require.Len(t, ex.Edges, 2)
	assert.Equal(t, 10.0, ex.Edges[0].Weight)
	assert.Equal(t, "entry", ex.Edges[0].Kind)
	assert.Equal(t, 2.5, ex.Edges[1].Weight)
	assert.Equal(t, "done", ex.Edges[1].Label)

	require.NotNil(t, m.Simulation)
	assert.Equal(t, 12, *m.Simulation.Runs)
	assert.Equal(t, 2.0, *m.Simulation.Speed)
	assert.Nil(t, m.Simulation.MaxStepsPerRun)
	assert.Nil(t, m.Simulation.FastMode)
}

func TestLoad_LaterFilesOverride(t *testing.T) {
	ctx, _ := testutil.Context(t)
	dir := t.TempDir()
	writeFile(t, dir, "a.hcl", sampleHCL)
	override := writeFile(t, t.TempDir(), "b.hcl", `
example "tiny" {
  title = "Replaced"
  node "ENTRY" { kind = "entry" }
}
simulation { runs = 3 }
`)

	m, err := NewLoader().Load(ctx, dir, override, filepath.Join(dir, "missing"))
	require.NoError(t, err)
	require.Len(t, m.Examples, 1)
	assert.Equal(t, "Replaced", m.Examples[0].Title)
	assert.Equal(t, 3, *m.Simulation.Runs)
	assert.Equal(t, 2.0, *m.Simulation.Speed)
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		errText string
	}{
		{"syntax", `example "x" {`, "failed to parse"},
		{"unknown block", `widget "x" {}`, "failed to decode"},
		{"missing weight", `example "x" {
  edge "e" {
    from = "a"
    to   = "b"
  }
}`, "failed to decode HCL file"},
		{"bad weight", `example "x" {
  edge "e" {
    from   = "a"
    to     = "b"
    weight = "heavy"
  }
}`, "cannot convert"},
		{"bad meta", `example "x" {
  node "a" {
    meta = ["not", "a", "map"]
  }
}`, "map of strings"},
		{"duplicate example", `
example "x" {}
example "x" {}
`, "defined twice"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, _ := testutil.Context(t)
			p := writeFile(t, t.TempDir(), "bad.hcl", tc.content)
			_, err := NewLoader().Load(ctx, p)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errText)
			assert.Contains(t, err.Error(), p, "errors name the file")
		})
	}
}

func TestLoad_MissingWeightIsNull(t *testing.T) {
	ctx, _ := testutil.Context(t)
	p := writeFile(t, t.TempDir(), "bad.hcl", `example "x" {
  edge "e" {
    from = "a"
    to   = "b"
  }
}`)
	_, err := NewLoader().Load(ctx, p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "edge e weight: must not be null")
}

func TestLoadFS(t *testing.T) {
	ctx, _ := testutil.Context(t)
	fsys := fstest.MapFS{
		"examples/b.hcl":    {Data: []byte(`example "b" { title = "B" }`)},
		"examples/a.hcl":    {Data: []byte(`example "a" { title = "A" }`)},
		"examples/notes.md": {Data: []byte(`example "ignored" {}`)},
	}

	m, err := NewLoader().LoadFS(ctx, fsys)
	require.NoError(t, err)
	require.Len(t, m.Examples, 2)
	assert.Equal(t, "a", m.Examples[0].ID)
	assert.Equal(t, "b", m.Examples[1].ID)
	assert.Equal(t, "examples/a.hcl", m.Examples[0].Source)
}
