package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/justifier/internal/justification"
)

// JustifyTool handles the justify MCP tool.
type JustifyTool struct {
	resolver *Resolver
	monitor  justification.ProgressMonitor
}

// NewJustifyTool creates a JustifyTool.
func NewJustifyTool(r *Resolver) *JustifyTool {
	return &JustifyTool{resolver: r}
}

// SetMonitor attaches a progress monitor to every computation. Nil detaches.
func (t *JustifyTool) SetMonitor(m justification.ProgressMonitor) {
	t.monitor = m
}

// Definition returns the MCP tool definition for justify.
func (t *JustifyTool) Definition() mcp.Tool {
	return mcp.NewTool("justify",
		mcp.WithDescription(
			"Compute the justifications of an entailment: minimal sets of active axioms from which it follows. "+
				"Uses the explanation limit and find-all settings of the session. When the knowledge base is "+
				"inconsistent, justifications explain the inconsistency instead.",
		),
		mcp.WithString("entailment",
			mcp.Required(),
			mcp.Description("Axiom to explain, e.g. 'Cat SubClassOf Animal' or 'tom Type Animal'"),
		),
		withKind(),
		mcp.WithNumber("timeout_ms",
			mcp.Description("Abort the search after this many milliseconds (default: no timeout)"),
		),
		withSession(),
	)
}

// Handle processes the justify tool call.
func (t *JustifyTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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

	if ms := intArg(req, "timeout_ms", 0); ms > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(ms)*time.Millisecond)
		defer cancel()
	}

	r, err := m.ComputeJustifications(ctx, e, kind, t.monitor)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("justification failed: %v", err)), nil
	}
	return mcp.NewToolResultText(formatResult("Justifications", kind, r)), nil
}
