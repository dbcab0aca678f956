package config

// Model is the unified, format-agnostic representation of a catalog source:
// example graphs plus simulation defaults.
type Model struct {
	// Examples keeps definition order. Ids are unique within a Model.
	Examples   []*Example
	Simulation *Simulation
}

// Example is one named flow graph.
type Example struct {
	ID          string     `validate:"required"`
	Title       string
	Description string
	Nodes       []*NodeDef `validate:"min=1,dive"`
	Edges       []*EdgeDef `validate:"dive"`
	// Source names the file the example came from, for error messages.
	Source string
}

type NodeDef struct {
	ID    string `validate:"required"`
	Label string
	Kind  string `validate:"omitempty,oneof=entry exit normal decision"`
	Meta  map[string]string
}

type EdgeDef struct {
	ID     string  `validate:"required"`
	From   string  `validate:"required"`
	To     string  `validate:"required"`
	Weight float64 `validate:"gte=0"`
	Kind   string  `validate:"omitempty,oneof=normal entry exit back chord"`
	Label  string
	Meta   map[string]string
}

// Simulation holds optional simulation defaults. Nil fields were not set.
type Simulation struct {
	Runs           *int
	MaxStepsPerRun *int
	Speed          *float64
	FastMode       *bool
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{}
}

// Example returns the example with the given id.
func (m *Model) Example(id string) (*Example, bool) {
	for _, ex := range m.Examples {
		if ex.ID == id {
			return ex, true
		}
	}
	return nil, false
}

// PutExample adds ex, replacing in place any example with the same id.
func (m *Model) PutExample(ex *Example) {
	for i, cur := range m.Examples {
		if cur.ID == ex.ID {
			m.Examples[i] = ex
			return
		}
	}
	m.Examples = append(m.Examples, ex)
}

// Merge layers other on top of m. Examples with an existing id replace the
// earlier definition; simulation fields set in other win.
func (m *Model) Merge(other *Model) {
	if other == nil {
		return
	}
	for _, ex := range other.Examples {
		m.PutExample(ex)
	}
	m.mergeSimulation(other.Simulation)
}

func (m *Model) mergeSimulation(s *Simulation) {
	if s == nil {
		return
	}
	if m.Simulation == nil {
		m.Simulation = &Simulation{}
	}
	if s.Runs != nil {
		m.Simulation.Runs = s.Runs
	}
	if s.MaxStepsPerRun != nil {
		m.Simulation.MaxStepsPerRun = s.MaxStepsPerRun
	}
	if s.Speed != nil {
		m.Simulation.Speed = s.Speed
	}
	if s.FastMode != nil {
		m.Simulation.FastMode = s.FastMode
	}
}
