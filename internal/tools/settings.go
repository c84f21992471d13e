package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/justifier/internal/justification"
)

// SettingsTool handles the explanation_settings MCP tool.
type SettingsTool struct {
	resolver *Resolver
}

// NewSettingsTool creates a SettingsTool.
func NewSettingsTool(r *Resolver) *SettingsTool {
	return &SettingsTool{resolver: r}
}

// Definition returns the MCP tool definition for explanation_settings.
func (t *SettingsTool) Definition() mcp.Tool {
	return mcp.NewTool("explanation_settings",
		mcp.WithDescription(
			"Show the session's explanation settings, optionally updating them first. "+
				"With find_all off, every search stops at the first justification.",
		),
		mcp.WithNumber("limit",
			mcp.Description("New explanation limit (0 or less: unlimited)"),
		),
		mcp.WithBoolean("find_all",
			mcp.Description("Search for more than one justification"),
		),
		withSession(),
	)
}

// Handle processes the explanation_settings tool call.
func (t *SettingsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	m, err := t.resolver.Manager(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if hasArg(req, "limit") {
		m.SetExplanationLimit(intArg(req, "limit", m.ExplanationLimit()))
	}
	if hasArg(req, "find_all") {
		m.SetFindAllExplanations(boolArg(req, "find_all", m.FindAllExplanations()))
	}

	var sb strings.Builder
	sb.WriteString("## Explanation Settings\n\n")
	fmt.Fprintf(&sb, "- **Limit**: %s\n", limitString(m.ExplanationLimit()))
	fmt.Fprintf(&sb, "- **Find all**: %t\n", m.FindAllExplanations())
	fmt.Fprintf(&sb, "- **Result caching**: %t\n", m.ResultCaching())
	for _, k := range justification.Kinds() {
		fmt.Fprintf(&sb, "- **Cached %s results**: %d\n", k, m.Caches().Cache(justification.Kind(k)).Len())
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func limitString(n int) string {
	if n <= 0 {
		return "unlimited"
	}
	return fmt.Sprint(n)
}
