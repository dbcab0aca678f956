package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks from any
// file. Anything else is rejected.
type fileRoot struct {
	Simulations []*simulationBlock `hcl:"simulation,block"`
	Examples    []*exampleBlock    `hcl:"example,block"`
}

type simulationBlock struct {
	Runs           *int     `hcl:"runs,optional"`
	MaxStepsPerRun *int     `hcl:"max_steps_per_run,optional"`
	Speed          *float64 `hcl:"speed,optional"`
	FastMode       *bool    `hcl:"fast_mode,optional"`
}

type exampleBlock struct {
	ID          string       `hcl:"id,label"`
	Title       string       `hcl:"title,optional"`
	Description string       `hcl:"description,optional"`
	Nodes       []*nodeBlock `hcl:"node,block"`
	Edges       []*edgeBlock `hcl:"edge,block"`
}

type nodeBlock struct {
	ID    string         `hcl:"id,label"`
	Label string         `hcl:"label,optional"`
	Kind  string         `hcl:"kind,optional"`
	Meta  hcl.Expression `hcl:"meta,optional"`
}

type edgeBlock struct {
	ID     string         `hcl:"id,label"`
	From   string         `hcl:"from"`
	To     string         `hcl:"to"`
	Weight hcl.Expression `hcl:"weight"`
	Kind   string         `hcl:"kind,optional"`
	Label  string         `hcl:"label,optional"`
	Meta   hcl.Expression `hcl:"meta,optional"`
}
