package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/specialistvlad/flowrecon/internal/config"
	"github.com/specialistvlad/flowrecon/internal/ctxlog"
)

// translateExample converts the HCL-specific example schema into the
// agnostic model.
func translateExample(ctx context.Context, b *exampleBlock) (*config.Example, error) {
	ex := &config.Example{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
	}
	for _, n := range b.Nodes {
		meta, err := decodeMeta(ctx, n.Meta, "node "+n.ID)
		if err != nil {
			return nil, fmt.Errorf("example %q: %w", b.ID, err)
		}
		ex.Nodes = append(ex.Nodes, &config.NodeDef{
			ID:    n.ID,
			Label: n.Label,
			Kind:  n.Kind,
			Meta:  meta,
		})
	}
	for _, e := range b.Edges {
		weight, err := decodeNumber(ctx, e.Weight, "edge "+e.ID+" weight")
		if err != nil {
			return nil, fmt.Errorf("example %q: %w", b.ID, err)
		}
		meta, err := decodeMeta(ctx, e.Meta, "edge "+e.ID)
		if err != nil {
			return nil, fmt.Errorf("example %q: %w", b.ID, err)
		}
		ex.Edges = append(ex.Edges, &config.EdgeDef{
			ID:     e.ID,
			From:   e.From,
			To:     e.To,
			Weight: weight,
			Kind:   e.Kind,
			Label:  e.Label,
			Meta:   meta,
		})
	}
	return ex, nil
}

func translateSimulation(b *simulationBlock) *config.Simulation {
	return &config.Simulation{
		Runs:           b.Runs,
		MaxStepsPerRun: b.MaxStepsPerRun,
		Speed:          b.Speed,
		FastMode:       b.FastMode,
	}
}

// decodeNumber evaluates expr and converts the result to a float64.
func decodeNumber(ctx context.Context, expr hcl.Expression, what string) (float64, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return 0, fmt.Errorf("%s: %w", what, diags)
	}
	if val.IsNull() {
		return 0, fmt.Errorf("%s: must not be null", what)
	}
	num, err := convert.Convert(val, cty.Number)
	if err != nil {
		return 0, fmt.Errorf("%s: cannot convert %s to number: %w", what, val.Type().FriendlyName(), err)
	}
	if !val.Type().Equals(cty.Number) {
		ctxlog.FromContext(ctx).Debug("Implicitly converted value type.", "attribute", what, "from", val.Type().FriendlyName())
	}

	var out float64
	if err := gocty.FromCtyValue(num, &out); err != nil {
		return 0, fmt.Errorf("%s: %w", what, err)
	}
	return out, nil
}

// decodeMeta evaluates an optional meta attribute into a string map.
func decodeMeta(ctx context.Context, expr hcl.Expression, what string) (map[string]string, error) {
	if !isExprDefined(expr) {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%s meta: %w", what, diags)
	}
	if val.IsNull() {
		return nil, nil
	}
	conv, err := convert.Convert(val, cty.Map(cty.String))
	if err != nil {
		return nil, fmt.Errorf("%s meta: cannot convert %s to map of strings: %w", what, val.Type().FriendlyName(), err)
	}

	var out map[string]string
	if err := gocty.FromCtyValue(conv, &out); err != nil {
		return nil, fmt.Errorf("%s meta: %w", what, err)
	}
	ctxlog.FromContext(ctx).Debug("Decoded meta attribute.", "owner", what, "keys", len(out))
	return out, nil
}

// isExprDefined reports whether an optional attribute was actually written.
// gohcl fills omitted optional expressions with a zero-width placeholder, so
// a nil check alone is not enough.
func isExprDefined(expr hcl.Expression) bool {
	if expr == nil {
		return false
	}
	r := expr.Range()
	return r.End.Byte > r.Start.Byte
}
