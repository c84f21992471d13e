package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/justifier/internal/justification"
)

// CountTool handles the explanation_count MCP tool.
type CountTool struct {
	resolver *Resolver
}

// NewCountTool creates a CountTool.
func NewCountTool(r *Resolver) *CountTool {
	return &CountTool{resolver: r}
}

// Definition returns the MCP tool definition for explanation_count.
func (t *CountTool) Definition() mcp.Tool {
	return mcp.NewTool("explanation_count",
		mcp.WithDescription(
			"Report how many justifications are cached for an entailment. Never computes: "+
				"answers -1 when nothing is cached, e.g. after a knowledge-base change or with result caching off.",
		),
		mcp.WithString("entailment",
			mcp.Required(),
			mcp.Description("Axiom to look up"),
		),
		withKind(),
		withSession(),
	)
}

// Handle processes the explanation_count tool call.
func (t *CountTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	e, err := entailmentArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	kind, err := justification.ParseKind(req.GetString("kind", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	m, err := t.resolver.Manager(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	n := m.ComputedExplanationCount(e, kind)
	if n < 0 {
		return mcp.NewToolResultText(fmt.Sprintf("%d (no cached %s justifications for `%s`)", n, kind, e)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%d cached %s justifications for `%s`", n, kind, e)), nil
}
