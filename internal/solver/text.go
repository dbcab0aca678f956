package solver

import (
	"fmt"
	"strings"
)

func renderText(nodeID, edgeID string, incoming bool, terms []Term, value int64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Balance at node %s: sum of incoming = sum of outgoing.\n", nodeID)
	for _, t := range terms {
		sign := "+"
		if t.Sign < 0 {
			sign = "-"
		}
		name := t.EdgeID
		if t.Label != "" {
			name = fmt.Sprintf("%s (%s)", t.Label, t.EdgeID)
		}
		fmt.Fprintf(&b, "  %s %s = %d\n", sign, name, t.Value)
	}
	side := "outgoing"
	formula := "in - out"
	if incoming {
		side = "incoming"
		formula = "out - in"
	}
	fmt.Fprintf(&b, "The unknown tree edge %s is %s, so %s = %s = %d.", edgeID, side, edgeID, formula, value)
	return b.String()
}
