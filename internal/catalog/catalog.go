// Package catalog turns configuration models into ready-to-use example
// graphs. The six built-in examples are embedded; user files can add to or
// replace them.
package catalog

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/go-playground/validator/v10"

	"github.com/specialistvlad/flowrecon/internal/config"
	"github.com/specialistvlad/flowrecon/internal/ctxlog"
	"github.com/specialistvlad/flowrecon/internal/graph"
	"github.com/specialistvlad/flowrecon/internal/simulator"
)

//go:embed examples/*.hcl
var builtinFS embed.FS

var (
	ErrUnknownExample = errors.New("unknown example")
	ErrEmptyCatalog   = errors.New("catalog has no examples")
)

// Item is one selectable example. Graph is already augmented.
type Item struct {
	ID          string
	Title       string
	Description string
	Graph       *graph.Graph
}

// Catalog is an ordered, immutable set of examples.
type Catalog struct {
	items []Item
	index map[string]int
	sim   simulator.Config
}

var validate = validator.New()

// Builtin returns the model of the embedded examples.
func Builtin(ctx context.Context, loader config.Loader) (*config.Model, error) {
	sub, err := fs.Sub(builtinFS, "examples")
	if err != nil {
		return nil, err
	}
	m, err := loader.LoadFS(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("built-in examples: %w", err)
	}
	return m, nil
}

// Load builds a catalog from the built-in examples overlaid with every file
// found under paths.
func Load(ctx context.Context, loader config.Loader, paths ...string) (*Catalog, error) {
	m, err := Builtin(ctx, loader)
	if err != nil {
		return nil, err
	}
	if len(paths) > 0 {
		extra, err := loader.Load(ctx, paths...)
		if err != nil {
			return nil, err
		}
		m.Merge(extra)
	}
	return New(ctx, m)
}

// New validates every example of m and builds its graph.
func New(ctx context.Context, m *config.Model) (*Catalog, error) {
	logger := ctxlog.FromContext(ctx)
	if len(m.Examples) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		index: make(map[string]int, len(m.Examples)),
		sim:   simulationConfig(m.Simulation),
	}
	if err := c.sim.Validate(); err != nil {
		return nil, fmt.Errorf("simulation defaults: %w", err)
	}

	for _, ex := range m.Examples {
		g, err := BuildGraph(ex)
		if err != nil {
			return nil, err
		}
		c.index[ex.ID] = len(c.items)
		c.items = append(c.items, Item{
			ID:          ex.ID,
			Title:       ex.Title,
			Description: ex.Description,
			Graph:       g,
		})
		logger.Debug("Example registered.", "id", ex.ID, "nodes", g.NodeCount(), "edges", g.EdgeCount(), "source", ex.Source)
	}
	return c, nil
}

// BuildGraph validates ex and returns its augmented graph.
func BuildGraph(ex *config.Example) (*graph.Graph, error) {
	if err := validate.Struct(ex); err != nil {
		return nil, fmt.Errorf("example %q (%s): %w", ex.ID, ex.Source, err)
	}

	g := graph.New()
	for _, n := range ex.Nodes {
		kind, err := graph.ParseNodeKind(n.Kind)
		if err != nil {
			return nil, fmt.Errorf("example %q: %w", ex.ID, err)
		}
		label := n.Label
		if label == "" {
			label = n.ID
		}
		if err := g.AddNode(graph.Node{ID: n.ID, Label: label, Kind: kind, Meta: n.Meta}); err != nil {
			return nil, fmt.Errorf("example %q: %w", ex.ID, err)
		}
	}
	for _, e := range ex.Edges {
		kind, err := graph.ParseEdgeKind(e.Kind)
		if err != nil {
			return nil, fmt.Errorf("example %q: %w", ex.ID, err)
		}
		edge := graph.Edge{
			ID:     e.ID,
			Source: e.From,
			Target: e.To,
			Weight: e.Weight,
			Kind:   kind,
			Label:  e.Label,
			Meta:   e.Meta,
		}
		if err := g.AddEdge(edge); err != nil {
			return nil, fmt.Errorf("example %q: %w", ex.ID, err)
		}
	}
	return g.Augment(), nil
}

func simulationConfig(s *config.Simulation) simulator.Config {
	cfg := simulator.DefaultConfig()
	if s == nil {
		return cfg
	}
	if s.Runs != nil {
		cfg.Runs = *s.Runs
	}
	if s.MaxStepsPerRun != nil {
		cfg.MaxStepsPerRun = *s.MaxStepsPerRun
	}
	if s.Speed != nil {
		cfg.SetSpeed(*s.Speed)
	}
	if s.FastMode != nil {
		cfg.FastMode = *s.FastMode
	}
	return cfg
}

// List returns every example in catalog order.
func (c *Catalog) List() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Get looks an example up by id.
func (c *Catalog) Get(id string) (Item, error) {
	i, ok := c.index[id]
	if !ok {
		return Item{}, fmt.Errorf("%w: %q", ErrUnknownExample, id)
	}
	return c.items[i], nil
}

// Default is the first example.
func (c *Catalog) Default() Item {
	return c.items[0]
}

// SimulationDefaults returns the configured simulation settings.
func (c *Catalog) SimulationDefaults() simulator.Config {
	return c.sim
}
