package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// UnsatTool handles the unsatisfiable_classes MCP tool.
type UnsatTool struct {
	resolver *Resolver
}

// NewUnsatTool creates an UnsatTool.
func NewUnsatTool(r *Resolver) *UnsatTool {
	return &UnsatTool{resolver: r}
}

// Definition returns the MCP tool definition for unsatisfiable_classes.
func (t *UnsatTool) Definition() mcp.Tool {
	return mcp.NewTool("unsatisfiable_classes",
		mcp.WithDescription(
			"List the unsatisfiable classes of the active axioms, split into roots and derived classes. "+
				"A derived class is unsatisfiable because a root is; repair the roots first.",
		),
		withSession(),
	)
}

// Handle processes the unsatisfiable_classes tool call.
func (t *UnsatTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	m, err := t.resolver.Manager(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	u, err := m.UnsatisfiableClasses(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to classify: %v", err)), nil
	}

	if u.Len() == 0 {
		return mcp.NewToolResultText("Every class is satisfiable."), nil
	}

	var sb strings.Builder
	sb.WriteString("## Unsatisfiable Classes\n\n")
	fmt.Fprintf(&sb, "### Roots (%d)\n", len(u.Roots))
	for _, c := range u.Roots {
		fmt.Fprintf(&sb, "- %s\n", c)
	}
	if len(u.Derived) > 0 {
		fmt.Fprintf(&sb, "\n### Derived (%d)\n", len(u.Derived))
		for _, c := range u.Derived {
			fmt.Fprintf(&sb, "- %s (from %s)\n", c, strings.Join(u.Parents[c], ", "))
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}
