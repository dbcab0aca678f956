// Package countexpr parses hand-written counter assignments such as
//
//	e5=41, __entry_sentinel__=100
//
// into a counter map. Separators between assignments are optional commas,
// semicolons or whitespace.
package countexpr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var ErrDuplicateEdge = errors.New("edge assigned more than once")

type assignments struct {
	Items []*assignment `parser:"@@*"`
}

type assignment struct {
	Pos   lexer.Position
	Edge  string `parser:"@Ident '='"`
	Count int64  `parser:"@Int ( ',' | ';' )?"`
}

var countLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_\-]*`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[=,;]`},
	{Name: "whitespace", Pattern: `[ \t\r\n]+`},
})

var parser = participle.MustBuild[assignments](
	participle.Lexer(countLexer),
)

// Parse reads the assignments in s. An empty string yields an empty map.
func Parse(s string) (map[string]int64, error) {
	out := make(map[string]int64)
	if strings.TrimSpace(s) == "" {
		return out, nil
	}

	ast, err := parser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("parse counters: %w", err)
	}
	for _, a := range ast.Items {
		if _, dup := out[a.Edge]; dup {
			return nil, fmt.Errorf("parse counters: %s: %q: %w", a.Pos, a.Edge, ErrDuplicateEdge)
		}
		out[a.Edge] = a.Count
	}
	return out, nil
}

// Format renders counters in the form Parse accepts, ordered by ids.
func Format(counters map[string]int64, ids []string) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		v, ok := counters[id]
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%d", id, v))
	}
	return strings.Join(parts, ", ")
}
