// Package kbtools provides MCP tool handlers that edit and inspect the
// knowledge base.
//
// Every mutating tool reports the axiom changes it produced. Those same
// changes reach the justification engine's change listeners, so cached
// results are dropped as a side effect of any edit.
package kbtools

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/justifier/internal/axiom"
)

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// axiomsArg parses the "axioms" argument, accepting either an array of
// strings or one string with an axiom per line.
func axiomsArg(req mcp.CallToolRequest) ([]axiom.Axiom, error) {
	switch v := req.GetArguments()["axioms"].(type) {
	case string:
		return axiom.ParseAll(v)
	case []any:
		var out []axiom.Axiom
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, errors.Newf("axioms[%d]: expected a string", i)
			}
			a, err := axiom.Parse(s)
			if err != nil {
				return nil, err
			}
			out = append(out, a)
		}
		return out, nil
	default:
		return nil, nil
	}
}

func withAxioms() mcp.ToolOption {
	return mcp.WithArray("axioms",
		mcp.Required(),
		mcp.Description("Axioms, e.g. ['Cat SubClassOf Animal', 'tom Type Cat']"),
		mcp.Items(map[string]any{"type": "string"}),
	)
}

// formatChanges renders a change batch as a markdown list.
func formatChanges(changes []axiom.Change) string {
	if len(changes) == 0 {
		return "No changes."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d change(s):\n", len(changes))
	for _, c := range changes {
		fmt.Fprintf(&sb, "- %s [%s] %s\n", c.Op, c.Unit, c.Axiom)
	}
	return sb.String()
}
