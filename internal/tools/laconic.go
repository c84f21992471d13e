package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/justifier/internal/axiom"
	"github.com/HendryAvila/justifier/internal/justification"
)

// LaconicTool handles the laconic_justification MCP tool.
type LaconicTool struct {
	resolver *Resolver
}

// NewLaconicTool creates a LaconicTool.
func NewLaconicTool(r *Resolver) *LaconicTool {
	return &LaconicTool{resolver: r}
}

// Definition returns the MCP tool definition for laconic_justification.
func (t *LaconicTool) Definition() mcp.Tool {
	return mcp.NewTool("laconic_justification",
		mcp.WithDescription(
			"Reduce a justification to its laconic form: only the parts of each axiom the entailment needs. "+
				"Pass the axioms of one justification, or omit them to reduce every regular justification.",
		),
		mcp.WithString("entailment",
			mcp.Required(),
			mcp.Description("Axiom the justification explains"),
		),
		mcp.WithArray("axioms",
			mcp.Description("Axioms of the justification to reduce (default: every regular justification)"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithNumber("limit",
			mcp.Description("Laconic forms to return per justification (default: 1, 0 for all)"),
		),
		withSession(),
	)
}

// Handle processes the laconic_justification tool call.
func (t *LaconicTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	e, err := entailmentArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	m, err := t.resolver.Manager(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := intArg(req, "limit", 1)

	var sources []justification.Explanation
	if texts := stringsArg(req, "axioms"); len(texts) > 0 {
		axs := make([]axiom.Axiom, 0, len(texts))
		for _, text := range texts {
			a, err := axiom.Parse(text)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			axs = append(axs, a)
		}
		sources = append(sources, justification.NewExplanation(e, axs))
	} else {
		regular, err := m.ComputeJustifications(ctx, e, justification.KindRegular, nil)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("justification failed: %v", err)), nil
		}
		sources = regular.Explanations()
	}

	out := justification.NewResult(e)
	for _, src := range sources {
		r, err := m.LaconicExplanations(ctx, src, limit)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("laconic search failed: %v", err)), nil
		}
		for _, x := range r.Explanations() {
			out.Add(x)
		}
	}
	return mcp.NewToolResultText(formatResult("Laconic justifications", justification.KindLaconic, out)), nil
}
