package kbtools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/justifier/internal/kb"
)

// ListTool handles the kb_list MCP tool.
type ListTool struct {
	kb *kb.KnowledgeBase
}

// NewListTool creates a ListTool.
func NewListTool(base *kb.KnowledgeBase) *ListTool {
	return &ListTool{kb: base}
}

// Definition returns the MCP tool definition for kb_list.
func (t *ListTool) Definition() mcp.Tool {
	return mcp.NewTool("kb_list",
		mcp.WithDescription(
			"List the units of the knowledge base with their axioms and activation state.",
		),
		mcp.WithString("unit",
			mcp.Description("Only show this unit"),
		),
		mcp.WithBoolean("yaml",
			mcp.Description("Return the knowledge base as an importable YAML document (default: false)"),
		),
	)
}

// Handle processes the kb_list tool call.
func (t *ListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if boolArg(req, "yaml", false) {
		data, err := t.kb.Export().Marshal()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to export: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}

	units := t.kb.Units()
	if name := req.GetString("unit", ""); name != "" {
		u, err := t.kb.Unit(name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		units = []kb.Unit{u}
	}

	stats := t.kb.Stats()
	var sb strings.Builder
	sb.WriteString("## Knowledge Base\n\n")
	fmt.Fprintf(&sb, "- **Units**: %d (%d active)\n", stats.Units, stats.ActiveUnits)
	fmt.Fprintf(&sb, "- **Axioms**: %d (%d active)\n", stats.Axioms, stats.ActiveAxioms)

	for _, u := range units {
		state := "active"
		if !u.Active() {
			state = "inactive"
		}
		axs := u.Axioms()
		fmt.Fprintf(&sb, "\n### %s (%s, %d axioms)\n", u.Name(), state, len(axs))
		for _, a := range axs {
			fmt.Fprintf(&sb, "- %s\n", a)
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}
